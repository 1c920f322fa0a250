package browse

import (
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mizunime/mizunime/internal/catalog"
)

const (
	// DebounceDelay is the quiet period after the last keystroke before a
	// suggestion lookup is issued
	DebounceDelay = 500 * time.Millisecond
	// MinQueryLength is the shortest trimmed query that triggers a lookup
	MinQueryLength = 3
	// MaxSuggestions bounds the suggestion panel
	MaxSuggestions = 6
)

// SuggestState is the suggestion controller's state
type SuggestState int

const (
	SuggestIdle SuggestState = iota
	SuggestDebouncing
	SuggestFetching
	SuggestShowing
)

func (s SuggestState) String() string {
	switch s {
	case SuggestIdle:
		return "idle"
	case SuggestDebouncing:
		return "debouncing"
	case SuggestFetching:
		return "fetching"
	case SuggestShowing:
		return "showing"
	default:
		return "unknown"
	}
}

// Tick is a debounce timer. The host delivers it back to Fire once At has
// passed; only the tick of the latest keystroke can fire.
type Tick struct {
	Gen uint64
	At  time.Time
}

// SuggestRequest is a lookup issued by Fire
type SuggestRequest struct {
	Gen   uint64
	Query string
}

// Suggest drives the navigation search box
type Suggest struct {
	query      string
	results    []catalog.AnimeItem
	state      SuggestState
	open       bool
	mobileOpen bool
	gen        uint64
	logger     *slog.Logger
}

// NewSuggest returns an idle controller
func NewSuggest(logger *slog.Logger) *Suggest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggest{logger: logger}
}

// Query returns the raw input value
func (s *Suggest) Query() string { return s.query }

// Results returns the current suggestions
func (s *Suggest) Results() []catalog.AnimeItem { return s.results }

// State returns the current state
func (s *Suggest) State() SuggestState { return s.state }

// Open reports whether the suggestion panel is visible
func (s *Suggest) Open() bool { return s.open }

// MobileOpen reports whether the mobile search panel is visible
func (s *Suggest) MobileOpen() bool { return s.mobileOpen }

// Loading reports whether a lookup is in flight
func (s *Suggest) Loading() bool { return s.state == SuggestFetching }

// Input records a keystroke and restarts the debounce timer. Any earlier
// tick or in-flight lookup becomes stale.
func (s *Suggest) Input(query string, now time.Time) Tick {
	s.gen++
	s.query = query
	s.state = SuggestDebouncing
	if !longEnough(query) {
		s.results = nil
		s.open = false
	}
	return Tick{Gen: s.gen, At: now.Add(DebounceDelay)}
}

// Fire handles a due debounce tick. It returns a lookup to perform, or false
// when the tick is stale or the query is too short.
func (s *Suggest) Fire(t Tick) (SuggestRequest, bool) {
	if t.Gen != s.gen || s.state != SuggestDebouncing {
		return SuggestRequest{}, false
	}
	if !longEnough(s.query) {
		s.toIdle()
		return SuggestRequest{}, false
	}
	s.state = SuggestFetching
	return SuggestRequest{Gen: s.gen, Query: s.query}, true
}

// Resolve applies a lookup outcome and reports whether it was applied.
// Results for superseded queries are discarded.
func (s *Suggest) Resolve(req SuggestRequest, res *catalog.PagedResult, err error) bool {
	if req.Gen != s.gen || s.state != SuggestFetching {
		s.logger.Debug("stale suggestions dropped", "query", req.Query)
		return false
	}
	if err != nil {
		s.logger.Error("search error", "query", req.Query, "error", err)
		s.toIdle()
		return true
	}

	if res.Empty() {
		s.toIdle()
		return true
	}
	items := res.Items
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	s.results = items
	s.state = SuggestShowing
	s.open = true
	return true
}

// OpenMobile shows the mobile search panel
func (s *Suggest) OpenMobile() { s.mobileOpen = true }

// Reopen shows the panel again for existing results, e.g. on focus
func (s *Suggest) Reopen() {
	if len(s.results) > 0 && longEnough(s.query) {
		s.open = true
	}
}

// Dismiss handles a pointer-down outside the input and the mobile panel.
// The query is kept.
func (s *Suggest) Dismiss() {
	s.open = false
	if s.query == "" {
		s.mobileOpen = false
	}
}

// Submit returns the search results route for the current query and closes
// every panel. It returns false for a blank query.
func (s *Suggest) Submit() (string, bool) {
	q := strings.TrimSpace(s.query)
	if q == "" {
		return "", false
	}
	s.gen++
	s.state = SuggestIdle
	s.open = false
	s.mobileOpen = false
	return SearchPath(q), true
}

// Clear empties the input and returns to idle
func (s *Suggest) Clear() {
	s.gen++
	s.query = ""
	s.toIdle()
}

func (s *Suggest) toIdle() {
	s.state = SuggestIdle
	s.results = nil
	s.open = false
}

func longEnough(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= MinQueryLength
}

// SearchPath is the search results route for q
func SearchPath(q string) string {
	return "/search?q=" + url.QueryEscape(q)
}
