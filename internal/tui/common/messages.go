package common

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
)

// Catalog is the part of the catalog client the terminal browser uses
type Catalog interface {
	browse.HomeSource
	browse.SearchSource
	Schedule(ctx context.Context) (catalog.ScheduleMap, error)
}

// This file contains custom tea.Msg types for communication between components.

// GoToHomeMsg switches to the latest releases view.
type GoToHomeMsg struct{}

// GoToSearchMsg switches to the search box.
type GoToSearchMsg struct{}

// GoToScheduleMsg switches to the weekly schedule.
type GoToScheduleMsg struct{}

// BackMsg goes back to the previous view.
type BackMsg struct{}

// PerformSearchMsg requests the first page of results for Query.
type PerformSearchMsg struct {
	Query string
}

// SearchResultsMsg carries the first page of a search.
type SearchResultsMsg struct {
	Query  string
	Result *catalog.PagedResult
	Err    error
}

// SuggestTickMsg is a debounce timer firing.
type SuggestTickMsg struct {
	Tick browse.Tick
}

// SuggestResultMsg is the outcome of a suggestion lookup.
type SuggestResultMsg struct {
	Req    browse.SuggestRequest
	Result *catalog.PagedResult
	Err    error
}

// FeedPageMsg is the outcome of a feed page change. A zero Req is the
// initial load.
type FeedPageMsg struct {
	Req    browse.FeedRequest
	Result *catalog.PagedResult
	Err    error
}

// SearchPageMsg is the outcome of loading one more page of results.
type SearchPageMsg struct {
	Req    browse.PageRequest
	Result *catalog.PagedResult
	Err    error
}

// ScheduleLoadedMsg carries the weekly schedule.
type ScheduleLoadedMsg struct {
	Schedule catalog.ScheduleMap
	Err      error
}

// OpenItemMsg asks the app to open Path on the site.
type OpenItemMsg struct {
	Title string
	Path  string
}

// CopyLinkMsg asks the app to copy the site link for Path.
type CopyLinkMsg struct {
	Title string
	Path  string
}

// StatusMsg shows a transient line at the bottom of the screen.
type StatusMsg struct {
	Text string
	Err  error
}

// Emit wraps msg in a command
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// After delivers msg once d has elapsed
type After func(d time.Duration, msg tea.Msg) tea.Cmd

// TeaAfter is the After used outside tests
func TeaAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
