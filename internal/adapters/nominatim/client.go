package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/antipodes/internal/core/domain"
)

// API docs: https://nominatim.org/release-docs/develop/api/Search/
const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "antipodes/1.0"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	APIKey    string
	Timeout   time.Duration
	// RetryBackoff is the delay before the first retry; it doubles per attempt.
	RetryBackoff time.Duration
}

// Client implements ports.PlaceSearcher against a Nominatim server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	apiKey     string
	backoff    time.Duration
}

func NewClient(opts Options) *Client {
	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: accessLog{next: http.DefaultTransport},
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		apiKey:     opts.APIKey,
		backoff:    opts.RetryBackoff,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if opts.Timeout > 0 {
		c.httpClient.Timeout = opts.Timeout
	}
	if c.backoff <= 0 {
		c.backoff = 200 * time.Millisecond
	}
	return c
}

// Search resolves a free-text query into at most limit places.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	params := map[string]string{
		"q":      query,
		"format": "jsonv2",
		"limit":  strconv.Itoa(limit),
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, "/search", params)
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		places = append(places, r.toPlace())
	}

	slog.DebugContext(ctx, "nominatim search", "query", query, "results", len(places))
	return places, nil
}

// Status checks that the server is reachable and healthy.
func (c *Client) Status(ctx context.Context) error {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, "/status", map[string]string{"format": "json"})
	})
	if err != nil {
		return fmt.Errorf("nominatim status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var st statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decode status response: %w", err)
	}
	if st.Status != 0 {
		return fmt.Errorf("nominatim status %d: %s", st.Status, st.Message)
	}
	return nil
}

// toPlace maps a result into a domain place. A result with neither a
// parseable point nor a bounding box has no geometry.
func (r searchResult) toPlace() domain.Place {
	p := domain.Place{Name: r.Name, DisplayName: r.DisplayName}

	var g domain.PlaceGeometry
	lat, latOK := parseDegrees(r.Lat)
	lng, lngOK := parseDegrees(r.Lon)
	if latOK && lngOK {
		g.Location = &domain.Coordinate{Lat: lat, Lng: lng}
	}
	g.Viewport = parseBoundingBox(r.Boundingbox)

	if g.Location != nil || g.Viewport != nil {
		p.Geometry = &g
	}
	return p
}

func parseBoundingBox(bb []string) *domain.Viewport {
	if len(bb) != 4 {
		return nil
	}
	var v [4]float64
	for i, s := range bb {
		f, ok := parseDegrees(s)
		if !ok {
			return nil
		}
		v[i] = f
	}
	return &domain.Viewport{South: v[0], North: v[1], West: v[2], East: v[3]}
}

// parseDegrees accepts finite numbers only; "NaN" and "Inf" parse but are
// not positions.
func parseDegrees(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
