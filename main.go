package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"uex-hauler/internal/api"
	"uex-hauler/internal/db"
	"uex-hauler/internal/logger"
	"uex-hauler/internal/uex"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13380, "HTTP server port")
	flag.Parse()

	// Optional .env for UEX_TOKEN and friends; absence is fine.
	godotenv.Load()

	logger.Banner(version)

	// Open SQLite database
	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Load config from SQLite
	cfg := database.LoadConfig()
	if v := os.Getenv("UEX_TOKEN"); v != "" {
		cfg.UEXToken = v
	}

	uexClient := uex.NewClient(cfg.UEXToken, database)
	srv := api.NewServer(cfg, uexClient, database)

	// Warm the terminal cache in the background so the first evaluate or
	// plan request does not pay for it.
	go func() {
		if _, err := uexClient.GetTerminals(); err != nil {
			logger.Warn("Terminals", fmt.Sprintf("Warmup failed: %v", err))
		}
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
