package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the record-store API root. Tests point the client at an
// httptest server instead.
const DefaultBaseURL = "https://api.airtable.com/v0"

// ErrRecordNotFound is returned when the store has no record with the given
// native identifier. Bulk callers treat it as an expected per-record failure.
var ErrRecordNotFound = errors.New("record not found")

// Record is one row of a table: the store-native ID plus a loosely-typed
// field map. Field names and casing are owned by the external schema.
type Record struct {
	ID          string                 `json:"id"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime time.Time              `json:"createdTime"`
}

// ListOptions narrows a table listing.
type ListOptions struct {
	FilterByFormula string
	MaxRecords      int
}

// Client is a minimal HTTP client for the record-store records API.
type Client struct {
	baseURL string
	base    string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a record-store client rooted at baseURL/baseID.
func NewClient(baseURL, apiKey, baseID string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    baseID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "airtable").Logger(),
	}
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + c.base + "/" + url.PathEscape(table)
}

// List returns all records of a table, following pagination offsets.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""

	for {
		q := url.Values{}
		if opts.FilterByFormula != "" {
			q.Set("filterByFormula", opts.FilterByFormula)
		}
		if opts.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		endpoint := c.tableURL(table)
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)

		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Create inserts one record and returns it with its store-assigned ID.
func (c *Client) Create(ctx context.Context, table string, fields map[string]interface{}) (*Record, error) {
	body := map[string]interface{}{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update patches the given fields of one record, leaving others untouched.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]interface{}) (*Record, error) {
	body := map[string]interface{}{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+id, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes one record by its store-native ID.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRecordNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().
			Str("method", method).
			Str("url", endpoint).
			Int("status", resp.StatusCode).
			Msg("Record store returned an error")
		return fmt.Errorf("record store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
