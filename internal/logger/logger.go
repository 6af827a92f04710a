package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// useColor is decided once at startup. NO_COLOR disables it outright.
var useColor = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}()

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

func emit(color, symbol, tag, message string) {
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
		paint(colorDim, ts),
		paint(color, symbol),
		paint(colorBold, fmt.Sprintf("[%s]", tag)),
		message)
}

// Info logs a neutral progress message.
func Info(tag, message string) {
	emit(colorCyan, "*", tag, message)
}

// Success logs a completed step.
func Success(tag, message string) {
	emit(colorGreen, "+", tag, message)
}

// Warn logs a recoverable problem.
func Warn(tag, message string) {
	emit(colorYellow, "!", tag, message)
}

// Error logs a failure. It does not exit; callers decide that.
func Error(tag, message string) {
	emit(colorRed, "x", tag, message)
}

// Banner prints the startup header.
func Banner(version string) {
	title := "UEX Hauler"
	if version != "" {
		title = fmt.Sprintf("%s %s", title, version)
	}
	fmt.Fprintf(os.Stdout, "\n%s\n%s\n\n",
		paint(colorBold+colorCyan, title),
		paint(colorDim, "cargo evaluation and trade routing"))
}

// Section prints a titled divider for grouped stats output.
func Section(title string) {
	fmt.Fprintf(os.Stdout, "\n%s\n", paint(colorBold, "-- "+title+" --"))
}

// Stats prints one aligned key/value line under a Section.
func Stats(key string, value interface{}) {
	fmt.Fprintf(os.Stdout, "  %-18s %v\n", paint(colorDim, key), value)
}

// Server announces the listen address.
func Server(addr string) {
	fmt.Fprintf(os.Stdout, "\n%s %s\n\n",
		paint(colorGreen, "Listening on"),
		paint(colorBold+colorCyan, "http://"+addr))
}
