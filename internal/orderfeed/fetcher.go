// internal/orderfeed/fetcher.go

// Package orderfeed is the console-side consumer of GET /api/orders: a shared
// page cache, debounced search and incremental pagination.
package orderfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/driprats/storefront-admin/internal/models"
)

// ErrUnauthenticated is returned when the session cookie is missing or rejected.
var ErrUnauthenticated = errors.New("orderfeed: unauthenticated")

// Query is the cache key. Search is the debounced term, never the raw input.
type Query struct {
	Status string
	Search string
	Limit  int
}

// Page is one response of the listing endpoint.
type Page struct {
	Orders  []models.Order `json:"orders"`
	NextKey *string        `json:"nextKey"`
	HasMore bool           `json:"hasMore"`
}

// Fetcher loads one page. An empty cursor requests the first page.
type Fetcher interface {
	FetchOrders(ctx context.Context, q Query, cursor string) (*Page, error)
}

// StatusError carries a non-2xx response from the listing endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orderfeed: %d %s", e.Code, e.Message)
}

type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	cookie  *http.Cookie
}

// NewHTTPFetcher targets baseURL (e.g. http://localhost:8080) and sends cookie
// with every request.
func NewHTTPFetcher(baseURL string, client *http.Client, cookie *http.Cookie) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		cookie:  cookie,
	}
}

func (f *HTTPFetcher) FetchOrders(ctx context.Context, q Query, cursor string) (*Page, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if cursor != "" {
		params.Set("lastKey", cursor)
	}

	endpoint := f.baseURL + "/api/orders"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orderfeed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		return nil, &StatusError{Code: resp.StatusCode, Message: body.Error}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("orderfeed: decode response: %w", err)
	}
	if page.NextKey != nil && *page.NextKey == "" {
		page.NextKey = nil
	}
	page.HasMore = page.NextKey != nil
	return &page, nil
}
