// Package apiclient talks to the remote complaints REST API. The
// interactive dashboard path does no retries; transport and
// success:false failures are wrapped and surfaced to the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"complaint-insights-go/internal/logger"
	"complaint-insights-go/internal/types"
)

type Client struct {
	base string
	http *http.Client
	log  *logger.Logger
}

func New(base string, log *logger.Logger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// envelope is the common {success, ...} response wrapper.
type envelope struct {
	Success bool                       `json:"success"`
	Data    json.RawMessage            `json:"data,omitempty"`
	Stats   map[string]json.RawMessage `json:"stats,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// Complaints fetches the complaint rows for one domain ("yarn" or
// "fabric"). Extra query params pass through to the API.
func (c *Client) Complaints(ctx context.Context, domain string, query url.Values) ([]types.Record, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("domain", domain)
	env, err := c.do(ctx, http.MethodGet, "/complaints", query, nil)
	if err != nil {
		return nil, err
	}
	var records []types.Record
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("decode complaints: %w", err)
	}
	return records, nil
}

// UniqueValues fetches the distinct values of one column, used to
// populate the multi-select dropdowns.
func (c *Client) UniqueValues(ctx context.Context, table, column string) ([]string, error) {
	path := "/unique-values/" + url.PathEscape(table) + "/" + url.PathEscape(column)
	env, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var raw []any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode unique values: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, types.ScalarString(v))
	}
	return out, nil
}

// DispatchStats fetches the per-dimension dispatch volume baselines for
// per-100 mode. The stats object mixes per-dimension category maps with
// a scalar "total".
func (c *Client) DispatchStats(ctx context.Context, query url.Values) (types.DispatchStats, error) {
	env, err := c.do(ctx, http.MethodGet, "/dispatch-stats", query, nil)
	if err != nil {
		return types.DispatchStats{}, err
	}
	out := types.DispatchStats{Stats: make(map[string]map[string]float64)}
	for k, raw := range env.Stats {
		if k == "total" {
			if err := json.Unmarshal(raw, &out.Total); err != nil {
				return types.DispatchStats{}, fmt.Errorf("decode stats total: %w", err)
			}
			continue
		}
		m := make(map[string]float64)
		if err := json.Unmarshal(raw, &m); err != nil {
			// non-map extras in the stats object are ignored
			continue
		}
		out.Stats[k] = m
	}
	return out, nil
}

// CreateComplaint adds one complaint row.
func (c *Client) CreateComplaint(ctx context.Context, domain string, rec types.Record) (types.Record, error) {
	return c.mutate(ctx, http.MethodPost, "/complaints", domain, rec)
}

// UpdateComplaint replaces the row with the given id.
func (c *Client) UpdateComplaint(ctx context.Context, domain, id string, rec types.Record) (types.Record, error) {
	return c.mutate(ctx, http.MethodPut, "/complaints/"+url.PathEscape(id), domain, rec)
}

// DeleteComplaint removes the row with the given id.
func (c *Client) DeleteComplaint(ctx context.Context, domain, id string) error {
	query := url.Values{}
	query.Set("domain", domain)
	_, err := c.do(ctx, http.MethodDelete, "/complaints/"+url.PathEscape(id), query, nil)
	return err
}

func (c *Client) mutate(ctx context.Context, method, path, domain string, rec types.Record) (types.Record, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode complaint: %w", err)
	}
	query := url.Values{}
	query.Set("domain", domain)
	env, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	var out types.Record
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return nil, fmt.Errorf("decode complaint: %w", err)
		}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (envelope, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.log.WithComponent("apiclient").WithFields(map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope{}, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request not successful"
		}
		return envelope{}, fmt.Errorf("%s %s: %s", method, path, msg)
	}
	return env, nil
}
