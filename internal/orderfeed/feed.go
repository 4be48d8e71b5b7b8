// internal/orderfeed/feed.go
package orderfeed

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/models"
)

const (
	DefaultLimit    = 10
	DefaultDebounce = 300 * time.Millisecond
)

type Option func(*Feed)

func WithLimit(limit int) Option {
	return func(f *Feed) {
		if limit > 0 {
			f.query.Limit = limit
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(f *Feed) { f.debounce = d }
}

func WithStatus(status string) Option {
	return func(f *Feed) { f.query.Status = normalizeStatus(status) }
}

// OnChange registers fn to run after every state change. It is called without
// the feed lock held.
func OnChange(fn func()) Option {
	return func(f *Feed) { f.onChange = fn }
}

// Feed is one consumer's view of the order listing. Results that arrive after
// the query changed or the feed was closed are dropped.
type Feed struct {
	fetcher  Fetcher
	cache    *Cache
	debounce time.Duration
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	query    Query
	input    string
	timer    *time.Timer
	gen      uint64
	inflight bool
	err      error
	closed   bool
}

func NewFeed(fetcher Fetcher, cache *Cache, opts ...Option) *Feed {
	f := &Feed{
		fetcher:  fetcher,
		cache:    cache,
		debounce: DefaultDebounce,
		query:    Query{Limit: DefaultLimit},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.ctx, f.cancel = context.WithCancel(context.Background())
	cache.acquire(f.query)
	return f
}

func normalizeStatus(status string) string {
	if models.OrderStatus(status) == models.OrderStatusAll {
		return ""
	}
	return status
}

// Query is the current cache key.
func (f *Feed) Query() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// SearchInput is the latest raw search text, which may not be applied yet.
func (f *Feed) SearchInput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Load fetches the first page unless the current key is fresh in the cache.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.closed || f.inflight || f.cache.Fresh(f.query) {
		f.mu.Unlock()
		return nil
	}
	q, gen := f.query, f.gen
	f.inflight = true
	f.err = nil
	f.mu.Unlock()

	f.notify()
	return f.fetchFirst(ctx, q, gen)
}

func (f *Feed) fetchFirst(ctx context.Context, q Query, gen uint64) error {
	page, err := f.fetcher.FetchOrders(ctx, q, "")

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.inflight = false
	if err != nil {
		f.err = err
	} else {
		f.cache.SetFirst(q, page)
	}
	f.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithField("status", q.Status).Warn("Failed to load orders")
	}
	f.notify()
	return err
}

// SetStatus switches the status filter and loads the first page for it.
// "" and "ALL" both mean no filter.
func (f *Feed) SetStatus(ctx context.Context, status string) error {
	status = normalizeStatus(status)

	f.mu.Lock()
	if f.closed || status == f.query.Status {
		f.mu.Unlock()
		return nil
	}
	q := f.query
	q.Status = status
	f.switchLocked(q)
	f.mu.Unlock()

	f.notify()
	return f.Load(ctx)
}

// SetSearch records the raw input. The term becomes part of the query once
// input has paused for the debounce interval.
func (f *Feed) SetSearch(term string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.input = term
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() { f.applySearch(term) })
}

func (f *Feed) applySearch(term string) {
	f.mu.Lock()
	if f.closed || f.input != term || f.query.Search == term {
		f.mu.Unlock()
		return
	}
	q := f.query
	q.Search = term
	f.switchLocked(q)
	f.mu.Unlock()

	f.notify()
	f.Load(f.ctx)
}

// switchLocked moves this feed's observation to q. Any fetch still running
// for the previous key is orphaned by the generation bump.
func (f *Feed) switchLocked(q Query) {
	f.cache.release(f.query)
	f.cache.acquire(q)
	f.query = q
	f.gen++
	f.inflight = false
	f.err = nil
}

// Orders flattens the cached pages in scan order.
func (f *Feed) Orders() []models.Order {
	pages, _ := f.cache.Pages(f.Query())

	var orders []models.Order
	for _, p := range pages {
		orders = append(orders, p.Orders...)
	}
	return orders
}

// HasMore reports whether the last loaded page carried a cursor. It says
// nothing about whether more search matches exist.
func (f *Feed) HasMore() bool {
	pages, _ := f.cache.Pages(f.Query())
	return len(pages) > 0 && pages[len(pages)-1].NextKey != nil
}

// LoadMore fetches the next page. It is a no-op while any fetch is in flight
// or when there is no cursor.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.closed || f.inflight {
		f.mu.Unlock()
		return nil
	}
	pages, _ := f.cache.Pages(f.query)
	if len(pages) == 0 || pages[len(pages)-1].NextKey == nil {
		f.mu.Unlock()
		return nil
	}
	q, gen := f.query, f.gen
	cursor := *pages[len(pages)-1].NextKey
	f.inflight = true
	f.err = nil
	f.mu.Unlock()

	f.notify()
	page, err := f.fetcher.FetchOrders(ctx, q, cursor)

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.inflight = false
	if err != nil {
		f.err = err
	} else {
		f.cache.Append(q, cursor, page)
	}
	f.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Warn("Failed to load more orders")
	}
	f.notify()
	return err
}

// Refresh drops the cached pages for the current key and refetches from the
// first page.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.gen++
	f.cache.Remove(f.query)
	q, gen := f.query, f.gen
	f.inflight = true
	f.err = nil
	f.mu.Unlock()

	f.notify()
	return f.fetchFirst(ctx, q, gen)
}

// Invalidate marks every cached order query stale. Nothing is refetched until
// the next Load.
func (f *Feed) Invalidate() {
	f.cache.InvalidateAll()
	f.notify()
}

func (f *Feed) Error() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight
}

// Close stops the debounce timer and releases the cache key. Fetches still in
// flight finish but their results are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
	}
	f.cache.release(f.query)
	f.mu.Unlock()

	f.cancel()
}

func (f *Feed) notify() {
	if f.onChange != nil {
		f.onChange()
	}
}
