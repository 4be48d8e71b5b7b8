// internal/services/shipping_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/driprats/storefront-admin/internal/config"
)

var ErrShippingAuth = errors.New("shipping provider authentication failed")

// Shipping provider status codes used by the stats counters.
const (
	ShipStatusNew            = 1
	ShipStatusShipped        = 6
	ShipStatusDelivered      = 7
	ShipStatusOutForDelivery = 19
)

type OrderStats struct {
	DeliveredOrders      int64 `json:"deliveredOrders"`
	ShippedOrders        int64 `json:"shippedOrders"`
	NewOrders            int64 `json:"newOrders"`
	OutForDeliveryOrders int64 `json:"outForDeliveryOrders"`
	TotalOrders          int64 `json:"totalOrders"`
}

type shippingLoginResponse struct {
	Token string `json:"token"`
}

type shippingOrdersResponse struct {
	Meta *struct {
		Pagination *struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// ShippingService talks to the shipping provider's REST API. The bearer token
// is cached and shared across requests.
type ShippingService struct {
	httpClient *http.Client
	baseURL    string
	email      string
	password   string
	tokenTTL   time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

func NewShippingService(cfg config.ShippingConfig, httpClient *http.Client) *ShippingService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 216 * time.Hour
	}
	return &ShippingService{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		email:      cfg.Email,
		password:   cfg.Password,
		tokenTTL:   ttl,
		now:        time.Now,
	}
}

// Token returns the cached bearer token, logging in when it is missing or expired.
func (s *ShippingService) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	body, err := json.Marshal(map[string]string{"email": s.email, "password": s.password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrShippingAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrShippingAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrShippingAuth, resp.StatusCode)
	}

	var login shippingLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil || login.Token == "" {
		return "", fmt.Errorf("%w: no token in response", ErrShippingAuth)
	}

	s.token = login.Token
	s.tokenExpiry = s.now().Add(s.tokenTTL)
	return s.token, nil
}

func (s *ShippingService) invalidateToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token {
		s.token = ""
	}
}

// OrderStats fetches the five counters concurrently. Any failure fails the
// whole call.
func (s *ShippingService) OrderStats(ctx context.Context) (*OrderStats, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{}
	g, gctx := errgroup.WithContext(ctx)

	counters := []struct {
		status int
		dst    *int64
	}{
		{ShipStatusDelivered, &stats.DeliveredOrders},
		{ShipStatusShipped, &stats.ShippedOrders},
		{ShipStatusNew, &stats.NewOrders},
		{ShipStatusOutForDelivery, &stats.OutForDeliveryOrders},
		{0, &stats.TotalOrders},
	}

	for _, counter := range counters {
		counter := counter
		g.Go(func() error {
			n, err := s.countOrders(gctx, token, counter.status)
			if err != nil {
				return err
			}
			*counter.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// countOrders reads meta.pagination.total from the order listing. status 0
// means unfiltered.
func (s *ShippingService) countOrders(ctx context.Context, token string, status int) (int64, error) {
	url := s.baseURL + "/orders"
	if status != 0 {
		url += "?filter_by=status&filter=" + strconv.Itoa(status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.invalidateToken(token)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("orders request returned status %d", resp.StatusCode)
	}

	var out shippingOrdersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode orders response: %w", err)
	}
	if out.Meta == nil || out.Meta.Pagination == nil {
		return 0, nil
	}
	return out.Meta.Pagination.Total, nil
}
