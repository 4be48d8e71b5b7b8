package orderfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	cursor := "%7B%22OrderId%22%3A%7B%22S%22%3A%22order-2%22%7D%7D"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("auth-token")
		if err != nil || cookie.Value != "session" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		assert.Equal(t, "/api/orders", r.URL.Path)

		q := r.URL.Query()
		switch q.Get("lastKey") {
		case "":
			assert.Equal(t, "SHIPPED", q.Get("status"))
			assert.Equal(t, "jane", q.Get("search"))
			assert.Equal(t, "2", q.Get("limit"))
			w.Write([]byte(`{"orders":[{"OrderId":"order-2","Status":"SHIPPED","Email":"jane.smith@email.com"}],"nextKey":"` + cursor + `","hasMore":true}`))
		case cursor:
			w.Write([]byte(`{"orders":[],"nextKey":null,"hasMore":false}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid pagination key"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	q := Query{Status: "SHIPPED", Search: "jane", Limit: 2}
	fetcher := NewHTTPFetcher(srv.URL+"/", srv.Client(), &http.Cookie{Name: "auth-token", Value: "session"})

	page, err := fetcher.FetchOrders(ctx, q, "")
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "order-2", page.Orders[0].OrderID)
	require.NotNil(t, page.NextKey)
	assert.Equal(t, cursor, *page.NextKey)
	assert.True(t, page.HasMore)

	page, err = fetcher.FetchOrders(ctx, q, *page.NextKey)
	require.NoError(t, err)
	assert.Empty(t, page.Orders)
	assert.Nil(t, page.NextKey)
	assert.False(t, page.HasMore)

	_, err = fetcher.FetchOrders(ctx, q, "garbage")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "Invalid pagination key", statusErr.Message)

	anonymous := NewHTTPFetcher(srv.URL, srv.Client(), nil)
	_, err = anonymous.FetchOrders(ctx, q, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
