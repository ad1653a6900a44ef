// Package fetch implements the resource fetch controller that list views use
// to page through, search and reset a remote collection.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const DefaultPageSize = 20

// Status is the coarse state of a controller.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Page is one batch of results returned by a list endpoint.
type Page[T any] struct {
	Items      []T
	TotalCount *int
	HasMore    bool
}

// PageFetcher loads pageSize items starting at cursor.
type PageFetcher[T any] func(ctx context.Context, pageSize, cursor int) (*Page[T], error)

// SearchFetcher returns every item matching term in a single call.
type SearchFetcher[T any] func(ctx context.Context, term string) ([]T, error)

// Options configures a Controller.
type Options[T any] struct {
	Name          string
	PageFetcher   PageFetcher[T]
	SearchFetcher SearchFetcher[T]
	PageSize      int
	Paging        Paging
}

// State is a point-in-time copy of the controller state.
type State[T any] struct {
	Items      []T
	Status     Status
	Loading    bool
	Err        *FetchError
	Cursor     int
	HasMore    bool
	Searching  bool
	Term       string
	TotalCount *int
}

// ErrorMessage returns the user-facing message, or "" when there is no error.
func (s State[T]) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message()
}

// Empty reports a successful fetch that returned nothing.
func (s State[T]) Empty() bool {
	return s.Status == StatusLoaded && len(s.Items) == 0
}

// Controller owns the fetch state of one list view.
//
// LoadNextPage is ignored while another request is in flight. Search and
// Reset cancel the in-flight request and replace it; a response that arrives
// after it was superseded is dropped.
type Controller[T any] struct {
	name          string
	pageFetcher   PageFetcher[T]
	searchFetcher SearchFetcher[T]
	pageSize      int
	paging        Paging

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
}

// New validates opts and returns an idle controller. Nothing is fetched.
func New[T any](opts Options[T]) (*Controller[T], error) {
	if opts.PageFetcher == nil {
		return nil, errors.New("page fetcher is required")
	}
	if opts.PageSize < 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", opts.PageSize)
	}
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Paging == nil {
		opts.Paging = OffsetPaging{}
	}
	if opts.Name == "" {
		opts.Name = "resource"
	}

	return &Controller[T]{
		name:          opts.Name,
		pageFetcher:   opts.PageFetcher,
		searchFetcher: opts.SearchFetcher,
		pageSize:      opts.PageSize,
		paging:        opts.Paging,
		state: State[T]{
			Status:  StatusIdle,
			Cursor:  opts.Paging.Initial(),
			HasMore: true,
		},
	}, nil
}

// Open creates a controller and loads the first page.
func Open[T any](ctx context.Context, opts Options[T]) (*Controller[T], error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	c.LoadNextPage(ctx)
	return c, nil
}

// PageSize returns the configured page size.
func (c *Controller[T]) PageSize() int {
	return c.pageSize
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// LoadNextPage fetches the page at the current cursor and appends it.
func (c *Controller[T]) LoadNextPage(ctx context.Context) State[T] {
	c.mu.Lock()
	if c.state.Loading || !c.state.HasMore {
		log.Debugf("%s: load next page skipped (loading=%t, has_more=%t)", c.name, c.state.Loading, c.state.HasMore)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	gen, fctx, cancel := c.beginLocked(ctx)
	cursor := c.state.Cursor
	c.mu.Unlock()
	defer cancel()

	page, err := c.pageFetcher(fctx, c.pageSize, cursor)
	return c.finishPage(gen, "load page", page, err)
}

// Search replaces the items with every match for term. A blank term resets
// the controller to plain pagination.
func (c *Controller[T]) Search(ctx context.Context, term string) State[T] {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.Reset(ctx)
	}

	c.mu.Lock()
	gen, fctx, cancel := c.beginLocked(ctx)
	c.state.Searching = true
	c.state.HasMore = false
	c.state.Term = term
	c.mu.Unlock()
	defer cancel()

	var (
		items []T
		err   error
	)
	if c.searchFetcher == nil {
		err = fmt.Errorf("%w: %s does not support search", ErrBackend, c.name)
	} else {
		items, err = c.searchFetcher(fctx, term)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(gen) {
		log.Debugf("%s: dropped stale search result for %q", c.name, term)
		return c.snapshotLocked()
	}
	c.endLocked()

	if err != nil {
		c.failLocked("search", err)
		return c.snapshotLocked()
	}

	c.state.Items = append(make([]T, 0, len(items)), items...)
	c.state.TotalCount = nil
	c.state.Status = StatusLoaded
	log.Debugf("%s: search %q returned %d items", c.name, term, len(items))
	return c.snapshotLocked()
}

// Reset drops all items, rewinds the cursor and loads the first page again.
func (c *Controller[T]) Reset(ctx context.Context) State[T] {
	c.mu.Lock()
	c.state.Items = nil
	c.state.Cursor = c.paging.Initial()
	c.state.HasMore = true
	c.state.Searching = false
	c.state.Term = ""
	c.state.TotalCount = nil
	gen, fctx, cancel := c.beginLocked(ctx)
	cursor := c.state.Cursor
	c.mu.Unlock()
	defer cancel()

	page, err := c.pageFetcher(fctx, c.pageSize, cursor)
	return c.finishPage(gen, "reset", page, err)
}

// Close cancels any in-flight request and discards its result. The
// controller stays usable.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.gen++
	c.endLocked()
	if c.state.Status == StatusLoading {
		c.state.Status = StatusIdle
		if len(c.state.Items) > 0 {
			c.state.Status = StatusLoaded
		}
	}
}

func (c *Controller[T]) finishPage(gen uint64, op string, page *Page[T], err error) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(gen) {
		log.Debugf("%s: dropped stale %s result", c.name, op)
		return c.snapshotLocked()
	}
	c.endLocked()

	if err == nil && page == nil {
		err = fmt.Errorf("%w: empty page response", ErrBackend)
	}
	if err != nil {
		c.failLocked(op, err)
		return c.snapshotLocked()
	}

	c.state.Items = append(c.state.Items, page.Items...)
	c.state.Cursor = c.paging.Next(c.state.Cursor, c.pageSize)
	c.state.HasMore = page.HasMore
	c.state.TotalCount = page.TotalCount
	c.state.Status = StatusLoaded
	log.Debugf("%s: %s appended %d items (total %d, has_more=%t)",
		c.name, op, len(page.Items), len(c.state.Items), page.HasMore)
	return c.snapshotLocked()
}

// beginLocked supersedes whatever request is in flight and marks a new one.
func (c *Controller[T]) beginLocked(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state.Loading = true
	c.state.Status = StatusLoading
	c.state.Err = nil
	return c.gen, fctx, cancel
}

func (c *Controller[T]) currentLocked(gen uint64) bool {
	return gen == c.gen
}

func (c *Controller[T]) endLocked() {
	c.cancel = nil
	c.state.Loading = false
}

func (c *Controller[T]) failLocked(op string, err error) {
	fe := NewFetchError(op, err)
	c.state.Err = fe
	c.state.Status = StatusError
	if isCanceled(err) {
		log.Debugf("%s: %v", c.name, fe)
		return
	}
	log.Warnf("⚠️ %s: %v", c.name, fe)
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	if c.state.Items != nil {
		s.Items = append(make([]T, 0, len(c.state.Items)), c.state.Items...)
	}
	if c.state.TotalCount != nil {
		total := *c.state.TotalCount
		s.TotalCount = &total
	}
	return s
}
