package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driprats/storefront-admin/internal/config"
)

type fakeShipping struct {
	logins   atomic.Int32
	failAuth bool
	totals   map[string]int64
	// noMetaFor drops the pagination block from the response for one filter code.
	noMetaFor *string
	failList  bool
}

func (f *fakeShipping) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.logins.Add(1)
		if f.failAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@yourstore.com", body["email"])
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.failList {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		key := r.URL.Query().Get("filter")
		if f.noMetaFor != nil && *f.noMetaFor == key {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
			return
		}
		if key != "" {
			assert.Equal(t, "status", r.URL.Query().Get("filter_by"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []interface{}{},
			"meta": map[string]interface{}{"pagination": map[string]interface{}{"total": f.totals[key]}},
		})
	})
	return mux
}

func newTestShippingService(t *testing.T, f *fakeShipping) *ShippingService {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewShippingService(config.ShippingConfig{
		BaseURL:       srv.URL,
		Email:         "ops@yourstore.com",
		Password:      "pw",
		TokenTTLHours: 216,
	}, srv.Client())
}

func TestOrderStatsAggregatesCounters(t *testing.T) {
	f := &fakeShipping{totals: map[string]int64{"7": 120, "6": 30, "1": 12, "19": 4, "": 200}}
	svc := newTestShippingService(t, f)

	stats, err := svc.OrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &OrderStats{
		DeliveredOrders:      120,
		ShippedOrders:        30,
		NewOrders:            12,
		OutForDeliveryOrders: 4,
		TotalOrders:          200,
	}, stats)

	_, err = svc.OrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.logins.Load(), "token is cached")
}

func TestOrderStatsMissingMetaCountsZero(t *testing.T) {
	shipped := "6"
	svc := newTestShippingService(t, &fakeShipping{
		totals:    map[string]int64{"7": 120, "6": 30, "1": 12, "19": 4, "": 200},
		noMetaFor: &shipped,
	})

	stats, err := svc.OrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &OrderStats{
		DeliveredOrders:      120,
		ShippedOrders:        0,
		NewOrders:            12,
		OutForDeliveryOrders: 4,
		TotalOrders:          200,
	}, stats)

	all := ""
	svc = newTestShippingService(t, &fakeShipping{
		totals:    map[string]int64{"7": 120, "6": 30, "1": 12, "19": 4, "": 200},
		noMetaFor: &all,
	})
	stats, err = svc.OrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, int64(30), stats.ShippedOrders)
}

func TestOrderStatsFailures(t *testing.T) {
	svc := newTestShippingService(t, &fakeShipping{failAuth: true})
	_, err := svc.OrderStats(context.Background())
	assert.ErrorIs(t, err, ErrShippingAuth)

	svc = newTestShippingService(t, &fakeShipping{failList: true})
	_, err = svc.OrderStats(context.Background())
	assert.Error(t, err)
}

func TestTokenRefreshesAfterExpiry(t *testing.T) {
	f := &fakeShipping{}
	svc := newTestShippingService(t, f)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Token(context.Background())
	require.NoError(t, err)
	now = now.Add(217 * time.Hour)
	_, err = svc.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.logins.Load())
}
