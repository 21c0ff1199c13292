// Package catalog implements the product query client: filter and search
// state, debounced free-text search, and page accumulation under "load more".
//
// Overlapping requests are ordered by a monotonic generation counter: a
// response belonging to anything but the most recently issued request is
// discarded, so a slow older response can never overwrite newer results.
package catalog

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/domain"
)

// Filter dimension keys accepted by SetFilter.
const (
	FilterCategory = "category"
	FilterMaterial = "material"
	FilterColor    = "color"
	FilterMinPrice = "min_price"
	FilterMaxPrice = "max_price"
)

// Config holds catalog client tuning.
type Config struct {
	// PageSize is the limit sent with every product query.
	PageSize int
	// DebounceWindow is how long search input must be quiescent before the
	// committed search text updates and a query fires.
	DebounceWindow time.Duration
	// RequestTimeout bounds fetches triggered by the debounce timer, which
	// have no caller-supplied context.
	RequestTimeout time.Duration
}

// DefaultConfig returns sensible catalog defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:       20,
		DebounceWindow: 400 * time.Millisecond,
		RequestTimeout: 15 * time.Second,
	}
}

// ResultSet is the displayable state of the catalog: accumulated items plus
// pagination metadata from the last applied response.
type ResultSet struct {
	Items      []domain.Product
	TotalCount int
	TotalPages int
	HasMore    bool
}

// productsResponse mirrors the backend's paginated product listing body.
type productsResponse struct {
	Products      []domain.Product `json:"products"`
	TotalProducts int              `json:"total_products"`
	TotalPages    int              `json:"total_pages"`
	HasMore       bool             `json:"has_more"`
}

// Client drives the catalog views.
type Client struct {
	api    *api.Client
	logger *slog.Logger
	cfg    Config

	mu              sync.Mutex
	category        string
	material        string
	color           string
	minPrice        string
	maxPrice        string
	pendingSearch   string
	committedSearch string
	debounce        *time.Timer
	closed          bool

	page       int
	items      []domain.Product
	totalCount int
	totalPages int
	hasMore    bool
	loading    bool
	generation uint64
}

// NewClient creates a catalog client. No fetch is issued until a filter
// changes, search commits, or Refresh is called.
func NewClient(apiClient *api.Client, cfg Config, log *slog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultConfig().DebounceWindow
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	return &Client{
		api:    apiClient,
		logger: log,
		cfg:    cfg,
		page:   1,
	}
}

// SetFilter updates one filter dimension, resets pagination to page 1 and
// fetches a replacement result list. Unknown keys are ignored.
func (c *Client) SetFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	switch key {
	case FilterCategory:
		c.category = value
	case FilterMaterial:
		c.material = value
	case FilterColor:
		c.color = value
	case FilterMinPrice:
		c.minPrice = value
	case FilterMaxPrice:
		c.maxPrice = value
	default:
		c.mu.Unlock()
		return
	}
	gen := c.beginFreshQueryLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, 1, true)
}

// ClearFilters resets every filter dimension and the search text, then
// fetches page 1 of the unfiltered catalog.
func (c *Client) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.category = ""
	c.material = ""
	c.color = ""
	c.minPrice = ""
	c.maxPrice = ""
	c.pendingSearch = ""
	c.committedSearch = ""
	c.stopDebounceLocked()
	gen := c.beginFreshQueryLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, 1, true)
}

// SetSearchText updates the pending search text immediately and arms the
// debounce timer. The committed text driving queries only changes after the
// window passes with no further edits, so rapid typing issues at most one
// query per quiescent burst.
func (c *Client) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingSearch = text
	c.stopDebounceLocked()
	if c.closed {
		return
	}
	c.debounce = time.AfterFunc(c.cfg.DebounceWindow, c.commitSearch)
}

// SearchNow commits search text immediately, bypassing the debounce. Meant
// for programmatic callers that have the full text up front rather than a
// keystroke stream.
func (c *Client) SearchNow(ctx context.Context, text string) {
	c.mu.Lock()
	c.stopDebounceLocked()
	c.pendingSearch = text
	if c.committedSearch == text {
		c.mu.Unlock()
		return
	}
	c.committedSearch = text
	gen := c.beginFreshQueryLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, 1, true)
}

// commitSearch runs on the debounce timer goroutine once input quiesces.
func (c *Client) commitSearch() {
	c.mu.Lock()
	if c.closed || c.pendingSearch == c.committedSearch {
		c.mu.Unlock()
		return
	}
	c.committedSearch = c.pendingSearch
	gen := c.beginFreshQueryLocked()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RequestTimeout)
	defer cancel()
	c.fetch(ctx, gen, 1, true)
}

// LoadMore fetches the next page and appends its items. It is a no-op when
// the last response reported no further pages or a load is already in
// flight.
func (c *Client) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if !c.hasMore || c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.generation++
	gen := c.generation
	nextPage := c.page + 1
	c.mu.Unlock()

	c.fetch(ctx, gen, nextPage, false)
}

// Refresh forces a page-1 reload with the current filters and committed
// search text.
func (c *Client) Refresh(ctx context.Context) {
	c.mu.Lock()
	gen := c.beginFreshQueryLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, 1, true)
}

// Results returns a copy of the current result set.
func (c *Client) Results() ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.Product, len(c.items))
	copy(items, c.items)
	return ResultSet{
		Items:      items,
		TotalCount: c.totalCount,
		TotalPages: c.totalPages,
		HasMore:    c.hasMore,
	}
}

// PendingSearch returns the search text as typed, ahead of the debounce.
func (c *Client) PendingSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingSearch
}

// CommittedSearch returns the search text currently driving queries.
func (c *Client) CommittedSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committedSearch
}

// Loading reports whether any product fetch is in flight.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Query returns the shareable URL query for the current catalog view. Only
// the category choice is mirrored, so category links stay bookmarkable.
func (c *Client) Query() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := url.Values{}
	if c.category != "" {
		q.Set("category", c.category)
	}
	return q
}

// Close stops the debounce timer. Pending committed-search fetches are
// abandoned.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopDebounceLocked()
}

// beginFreshQueryLocked resets pagination for a filter or search change and
// claims a new request generation. Accumulated items are only replaced once
// the fresh response applies. The fetch counts as in flight immediately so
// LoadMore cannot append a page of the new query onto the old query's items.
func (c *Client) beginFreshQueryLocked() uint64 {
	c.page = 1
	c.loading = true
	c.generation++
	return c.generation
}

func (c *Client) stopDebounceLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

// fetch issues one product query and applies the response unless a newer
// request was issued meanwhile. Failures leave the displayed list untouched.
func (c *Client) fetch(ctx context.Context, gen uint64, page int, replace bool) {
	c.mu.Lock()
	params := c.paramsLocked(page)
	c.mu.Unlock()

	var resp productsResponse
	err := c.api.Get(ctx, "/api/products", params, &resp, "failed to load products")

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A newer request superseded this one; drop the response either way.
		return
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "product query failed",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		c.loading = false
		return
	}

	if replace {
		c.items = resp.Products
	} else {
		c.items = append(c.items, resp.Products...)
	}
	c.page = page
	c.totalCount = resp.TotalProducts
	c.totalPages = resp.TotalPages
	c.hasMore = resp.HasMore
	c.loading = false
}

// paramsLocked builds the query parameters, including each dimension only
// when non-empty.
func (c *Client) paramsLocked(page int) url.Values {
	q := url.Values{}
	if c.category != "" {
		q.Set("category", c.category)
	}
	if c.material != "" {
		q.Set("material", c.material)
	}
	if c.color != "" {
		q.Set("color", c.color)
	}
	if c.minPrice != "" {
		q.Set("min_price", c.minPrice)
	}
	if c.maxPrice != "" {
		q.Set("max_price", c.maxPrice)
	}
	if c.committedSearch != "" {
		q.Set("search", c.committedSearch)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	return q
}

// GetProduct fetches a single product for the detail view.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Get(ctx, "/api/products/"+id, nil, &product, "failed to load product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories fetches the fixed storefront category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.api.Get(ctx, "/api/categories", nil, &categories, "failed to load categories"); err != nil {
		return nil, err
	}
	return categories, nil
}
