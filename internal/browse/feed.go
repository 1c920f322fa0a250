package browse

import (
	"context"
	"log/slog"

	"github.com/mizunime/mizunime/internal/catalog"
)

// HomeSource fetches a page of the latest releases feed
type HomeSource interface {
	Home(ctx context.Context, page int) (*catalog.PagedResult, error)
}

// FeedRequest is an in-flight page change issued by a Feed
type FeedRequest struct {
	Page  int
	Token uint64
}

// Feed drives the paginated "latest releases" grid. Pages replace each
// other; nothing accumulates.
type Feed struct {
	page    int
	items   []catalog.AnimeItem
	loading bool
	token   uint64
	logger  *slog.Logger
}

// NewFeed starts the feed on page 1 with the server-provided first page
func NewFeed(first []catalog.AnimeItem, logger *slog.Logger) *Feed {
	return NewFeedAt(1, first, logger)
}

// NewFeedAt starts the feed on an arbitrary page
func NewFeedAt(page int, items []catalog.AnimeItem, logger *slog.Logger) *Feed {
	if page < 1 {
		page = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		page:   page,
		items:  FeedPage(items),
		logger: logger,
	}
}

// Page returns the current page number
func (f *Feed) Page() int { return f.page }

// Items returns the current page's items
func (f *Feed) Items() []catalog.AnimeItem { return f.items }

// Loading reports whether a page change is in flight
func (f *Feed) Loading() bool { return f.loading }

// CanNext reports whether the next control is enabled. Fewer than
// FeedFullPageThreshold items is taken to mean this is the last page.
func (f *Feed) CanNext() bool {
	return !f.loading && len(f.items) >= FeedFullPageThreshold
}

// CanPrev reports whether the previous control is enabled
func (f *Feed) CanPrev() bool {
	return !f.loading && f.page > 1
}

// BeginNext starts loading the following page
func (f *Feed) BeginNext() (FeedRequest, bool) {
	if !f.CanNext() {
		return FeedRequest{}, false
	}
	return f.begin(f.page + 1), true
}

// BeginPrev starts loading the preceding page
func (f *Feed) BeginPrev() (FeedRequest, bool) {
	if !f.CanPrev() {
		return FeedRequest{}, false
	}
	return f.begin(f.page - 1), true
}

func (f *Feed) begin(page int) FeedRequest {
	f.token++
	f.loading = true
	f.logger.Debug("feed page requested", "page", page)
	return FeedRequest{Page: page, Token: f.token}
}

// Complete applies the outcome of req. It returns true when the visible page
// changed, which is the host's cue to bring the feed back into view. Stale
// requests and failures leave the previous page untouched.
func (f *Feed) Complete(req FeedRequest, res *catalog.PagedResult, err error) bool {
	if req.Token != f.token {
		f.logger.Debug("stale feed response dropped", "page", req.Page)
		return false
	}
	f.loading = false

	if err != nil {
		f.logger.Error("failed to fetch feed page", "page", req.Page, "error", err)
		return false
	}
	if res == nil {
		return false
	}

	f.items = FeedPage(res.Items)
	f.page = req.Page
	f.logger.Debug("feed page loaded", "page", f.page, "items", len(f.items))
	return true
}

// Next moves to the following page using src synchronously
func (f *Feed) Next(ctx context.Context, src HomeSource) bool {
	req, ok := f.BeginNext()
	if !ok {
		return false
	}
	res, err := src.Home(ctx, req.Page)
	return f.Complete(req, res, err)
}

// Prev moves to the preceding page using src synchronously
func (f *Feed) Prev(ctx context.Context, src HomeSource) bool {
	req, ok := f.BeginPrev()
	if !ok {
		return false
	}
	res, err := src.Home(ctx, req.Page)
	return f.Complete(req, res, err)
}
