// Package inventory fetches symbol inventories published by external
// projects so type references can link to their upstream documentation.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Inventory is the wire format served by a documentation site: a mapping
// from fully qualified names to page locations relative to the inventory
// URL itself.
type Inventory struct {
	Project string            `json:"project"`
	Version string            `json:"version"`
	Entries map[string]string `json:"entries"`
}

// Client fetches inventories over HTTP.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves and decodes the inventory at the given URL.
func (c *Client) Fetch(ctx context.Context, invURL string) (*Inventory, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, invURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory %s: status %d", invURL, resp.StatusCode)
	}

	var inv Inventory
	if err := json.Unmarshal(respBody, &inv); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return &inv, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Set merges fetched inventories into one fqn lookup table.
type Set struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewSet() *Set {
	return &Set{entries: make(map[string]string)}
}

// Add merges an inventory, resolving each entry against the URL it was
// fetched from. Names already present keep their earlier mapping.
func (s *Set) Add(invURL string, inv *Inventory) error {
	base, err := url.Parse(invURL)
	if err != nil {
		return fmt.Errorf("parse inventory url: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for fqn, rel := range inv.Entries {
		if _, ok := s.entries[fqn]; ok {
			continue
		}
		ref, err := url.Parse(rel)
		if err != nil {
			continue
		}
		s.entries[fqn] = base.ResolveReference(ref).String()
	}
	return nil
}

// Resolve returns the absolute documentation URL for an external name.
func (s *Set) Resolve(fqn string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.entries[fqn]
	return u, ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
