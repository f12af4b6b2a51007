// Package fetch retrieves loan-level HMDA data and filer listings from the
// FFIEC data browser API, replaying cached payloads when available.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"hmda-lens/cache"
	"hmda-lens/hmda"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBaseURL is the public FFIEC data browser endpoint.
const DefaultBaseURL = "https://ffiec.cfpb.gov/v2/data-browser-api"

// ErrNoData is returned when the data browser has no records for a query.
var ErrNoData = errors.New("no loan data available for the requested filters")

// UpstreamError reports a non-200 response from the data browser.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("data browser returned %d: %s", e.StatusCode, e.Body)
}

// Query selects loan data by filing year and optional geography.
type Query struct {
	Year   int
	States []string
	MSAMDs []string
}

// CacheKey derives the cache key for this query.
func (q Query) CacheKey() string {
	key := fmt.Sprintf("hmda_%d", q.Year)
	if len(q.States) > 0 {
		key += "_" + strings.Join(q.States, "_")
	}
	if len(q.MSAMDs) > 0 {
		key += "_" + strings.Join(q.MSAMDs, "_")
	}
	return key
}

func (q Query) values() url.Values {
	params := url.Values{}
	params.Set("years", strconv.Itoa(q.Year))
	if len(q.States) > 0 {
		params.Set("states", strings.Join(q.States, ","))
	}
	if len(q.MSAMDs) > 0 {
		params.Set("msamds", strings.Join(q.MSAMDs, ","))
	}
	return params
}

// Filer is one institution that filed HMDA data for a period.
type Filer struct {
	LEI    string `json:"lei"`
	Name   string `json:"name"`
	Period int    `json:"period"`
}

// Client talks to the HMDA data browser API.
type Client struct {
	baseURL string
	client  *http.Client
	store   *cache.Store
}

// NewClient creates a data browser client. A nil store disables caching.
func NewClient(baseURL string, timeout time.Duration, store *cache.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		store: store,
	}
}

// LoanData fetches the loan-level CSV for a query and parses it into a raw
// table. Cached payloads are replayed without touching the upstream API.
func (c *Client) LoanData(ctx context.Context, q Query) (*hmda.Table, error) {
	key := q.CacheKey()
	if c.store != nil {
		payload, ok, err := c.store.Get(ctx, key)
		if err != nil {
			log.Printf("⚠️  Cache read failed for %s: %v", key, err)
		} else if ok {
			log.Printf("📦 Cache hit for %s", key)
			return parseCSV(payload)
		}
	}

	payload, err := c.get(ctx, "/view/csv", q.values())
	if err != nil {
		return nil, err
	}

	t, err := parseCSV(payload)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		entry := cache.Entry{
			Key:     key,
			Year:    q.Year,
			States:  strings.Join(q.States, ","),
			MSAMDs:  strings.Join(q.MSAMDs, ","),
			Payload: payload,
		}
		if err := c.store.Put(ctx, entry); err != nil {
			log.Printf("⚠️  Cache write failed for %s: %v", key, err)
		}
	}
	log.Printf("📥 Fetched %d loan records for %s", t.NumRows(), key)
	return t, nil
}

// Filers lists the institutions that filed for a query's year and geography.
// Filer listings are small and change as filings land, so they are not cached.
func (c *Client) Filers(ctx context.Context, q Query) ([]Filer, error) {
	payload, err := c.get(ctx, "/view/filers", q.values())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Institutions []Filer `json:"institutions"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode filers response: %w", err)
	}
	return resp.Institutions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func parseCSV(payload []byte) (*hmda.Table, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrNoData
	}
	t, err := hmda.FromCSV(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to parse loan data: %w", err)
	}
	if t.NumRows() == 0 {
		return nil, ErrNoData
	}
	return t, nil
}
