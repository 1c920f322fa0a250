package browse

import (
	"context"
	"log/slog"

	"github.com/mizunime/mizunime/internal/catalog"
)

// SearchSource fetches a page of search results
type SearchSource interface {
	Search(ctx context.Context, q string, page int) (*catalog.PagedResult, error)
}

// PageRequest is an in-flight load issued by an Accumulator
type PageRequest struct {
	Query string
	Page  int
	Token uint64
}

// Accumulator drives infinite scrolling over search results: every loaded
// page is appended to the list until the upstream runs out.
type Accumulator struct {
	query   string
	items   []catalog.AnimeItem
	page    int
	hasMore bool
	loading bool
	token   uint64
	logger  *slog.Logger
}

// NewAccumulator starts from the server-provided first page of query
func NewAccumulator(query string, first *catalog.PagedResult, logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Accumulator{logger: logger}
	a.Reset(query, first)
	return a
}

// Reset discards everything accumulated so far. A new query supersedes the
// old one; loads still in flight for it are ignored on completion.
func (a *Accumulator) Reset(query string, first *catalog.PagedResult) {
	a.token++
	a.query = query
	a.loading = false
	a.page = 1
	a.items = nil
	a.hasMore = false

	if first == nil {
		return
	}
	if first.Page > 0 {
		a.page = first.Page
	}
	a.items = append([]catalog.AnimeItem(nil), first.Items...)
	a.hasMore = len(a.items) > 0
}

// Query returns the query the list belongs to
func (a *Accumulator) Query() string { return a.query }

// Items returns everything loaded so far, in arrival order
func (a *Accumulator) Items() []catalog.AnimeItem { return a.items }

// Page returns the last loaded page number
func (a *Accumulator) Page() int { return a.page }

// HasMore reports whether "load more" should still be offered
func (a *Accumulator) HasMore() bool { return a.hasMore }

// Loading reports whether a load is in flight
func (a *Accumulator) Loading() bool { return a.loading }

// BeginLoadMore starts loading the next page. It returns false, and no fetch
// must be issued, while another load is in flight or after exhaustion.
func (a *Accumulator) BeginLoadMore() (PageRequest, bool) {
	if a.loading || !a.hasMore {
		return PageRequest{}, false
	}
	a.token++
	a.loading = true
	return PageRequest{Query: a.query, Page: a.page + 1, Token: a.token}, true
}

// Complete applies the outcome of req and reports whether it was applied
func (a *Accumulator) Complete(req PageRequest, res *catalog.PagedResult, err error) bool {
	if req.Token != a.token {
		a.logger.Debug("stale search page dropped", "query", req.Query, "page", req.Page)
		return false
	}
	a.loading = false

	if err != nil {
		a.logger.Error("search load more failed", "query", req.Query, "page", req.Page, "error", err)
		a.hasMore = false
		return true
	}
	if res.Empty() {
		a.hasMore = false
		return true
	}

	a.items = append(a.items, res.Items...)
	a.page = req.Page
	a.hasMore = MoreAfter(req.Page, res)
	return true
}

// MoreAfter reports whether pages remain once res, the page-th page of
// results, has been appended
func MoreAfter(page int, res *catalog.PagedResult) bool {
	return !res.Empty() && page < res.TotalPages
}

// LoadMore fetches and appends the next page using src synchronously. It
// returns false without touching src when there is nothing to load.
func (a *Accumulator) LoadMore(ctx context.Context, src SearchSource) bool {
	req, ok := a.BeginLoadMore()
	if !ok {
		return false
	}
	res, err := src.Search(ctx, req.Query, req.Page)
	return a.Complete(req, res, err)
}
