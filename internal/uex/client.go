package uex

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"uex-hauler/internal/engine"
)

const (
	defaultBaseURL = "https://api.uexcorp.uk/2.0"
	userAgent      = "uex-hauler/1.0"

	// defaultPriceTTL is how long commodity and price responses stay fresh
	// in memory. Terminals have their own much longer TTL (see terminals.go).
	defaultPriceTTL = time.Hour
)

// apiEnvelope is the wrapper every UEX endpoint returns.
type apiEnvelope struct {
	Status   string          `json:"status"`
	HTTPCode int             `json:"http_code"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
}

// TerminalStore is a persistent L2 cache for the terminal list.
type TerminalStore interface {
	LoadTerminalCache() (gameVersion string, cachedAt time.Time, terminals []engine.Terminal, ok bool)
	SaveTerminalCache(gameVersion string, cachedAt time.Time, terminals []engine.Terminal) error
}

type cachedCommodities struct {
	data      []engine.Commodity
	fetchedAt time.Time
}

type cachedPrices struct {
	data      []engine.PricePoint
	fetchedAt time.Time
}

// Client is a rate-limited UEX API client with in-memory caching.
// A singleflight.Group coalesces concurrent fetches for the same commodity.
type Client struct {
	http *resty.Client
	sem  chan struct{}
	ttl  time.Duration

	group singleflight.Group

	mu          sync.RWMutex
	commodities *cachedCommodities
	prices      map[string]*cachedPrices
	terminals   *TerminalCache

	store TerminalStore
}

// NewClient creates a UEX client. token may be empty; the public endpoints
// work unauthenticated with a tighter rate limit. store may be nil, which
// disables persistent terminal caching.
func NewClient(token string, store TerminalStore) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	if token != "" {
		http.SetAuthToken(token)
	}

	return &Client{
		http:   http,
		sem:    make(chan struct{}, 4),
		ttl:    defaultPriceTTL,
		prices: make(map[string]*cachedPrices),
		store:  store,
	}
}

// SetBaseURL overrides the API endpoint (used by tests).
func (c *Client) SetBaseURL(base string) {
	c.http.SetBaseURL(base)
}

// SetTTL overrides the price cache TTL.
func (c *Client) SetTTL(ttl time.Duration) {
	c.ttl = ttl
}

// ClearCache drops cached commodities and prices. The terminal cache is
// kept: terminals only change with game patches.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commodities = nil
	c.prices = make(map[string]*cachedPrices)
}

// get fetches one endpoint and unmarshals the envelope's data into dst.
func (c *Client) get(path string, query map[string]string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req := c.http.R()
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("uex %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("uex %s: HTTP %d", path, resp.StatusCode())
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("uex %s: decode envelope: %w", path, err)
	}
	if !strings.EqualFold(envelope.Status, "ok") {
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Status
		}
		return fmt.Errorf("uex %s: api error: %s", path, msg)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("uex %s: response missing data", path)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		return fmt.Errorf("uex %s: decode data: %w", path, err)
	}
	return nil
}
