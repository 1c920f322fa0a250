package browse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/catalog"
)

// timeline replays keystrokes against a Suggest and fires debounce ticks as
// simulated time passes, recording every lookup issued.
type timeline struct {
	s       *Suggest
	start   time.Time
	pending []Tick
	fired   []SuggestRequest
	firedAt []time.Duration
}

func newTimeline() *timeline {
	return &timeline{s: NewSuggest(nil), start: time.Unix(1_700_000_000, 0)}
}

func (tl *timeline) advance(to time.Duration) {
	now := tl.start.Add(to)
	var remaining []Tick
	for _, tick := range tl.pending {
		if tick.At.After(now) {
			remaining = append(remaining, tick)
			continue
		}
		if req, ok := tl.s.Fire(tick); ok {
			tl.fired = append(tl.fired, req)
			tl.firedAt = append(tl.firedAt, tick.At.Sub(tl.start))
		}
	}
	tl.pending = remaining
}

func (tl *timeline) type_(at time.Duration, query string) {
	tl.advance(at)
	tl.pending = append(tl.pending, tl.s.Input(query, tl.start.Add(at)))
}

func TestSuggestDebounce(t *testing.T) {
	tl := newTimeline()

	tl.type_(0, "a")
	tl.type_(100*time.Millisecond, "an")
	tl.type_(600*time.Millisecond, "ani")
	tl.advance(2 * time.Second)

	require.Len(t, tl.fired, 1)
	assert.Equal(t, "ani", tl.fired[0].Query)
	assert.Equal(t, 1100*time.Millisecond, tl.firedAt[0])
	assert.Equal(t, SuggestFetching, tl.s.State())
}

func TestSuggestShortQueryNeverFetches(t *testing.T) {
	tl := newTimeline()

	tl.type_(0, "ab")
	tl.type_(50*time.Millisecond, "  ab  ")
	tl.advance(time.Second)

	assert.Empty(t, tl.fired)
	assert.Equal(t, SuggestIdle, tl.s.State())
	assert.False(t, tl.s.Open())
}

func TestSuggestResolveCapsResults(t *testing.T) {
	s := NewSuggest(nil)
	tick := s.Input("one", time.Now())
	req, ok := s.Fire(tick)
	require.True(t, ok)

	applied := s.Resolve(req, &catalog.PagedResult{Items: makeItems("one", 10)}, nil)

	require.True(t, applied)
	assert.Len(t, s.Results(), MaxSuggestions)
	assert.True(t, s.Open())
	assert.Equal(t, SuggestShowing, s.State())
}

func TestSuggestPanelClosesWhenQueryShrinks(t *testing.T) {
	s := NewSuggest(nil)
	req, _ := s.Fire(s.Input("naruto", time.Now()))
	s.Resolve(req, &catalog.PagedResult{Items: makeItems("naruto", 3)}, nil)
	require.True(t, s.Open())

	s.Input("na", time.Now())

	assert.False(t, s.Open())
	assert.Empty(t, s.Results())
}

func TestSuggestDiscardsStaleResults(t *testing.T) {
	s := NewSuggest(nil)
	old, ok := s.Fire(s.Input("naru", time.Now()))
	require.True(t, ok)

	fresh, ok := s.Fire(s.Input("naruto", time.Now()))
	require.True(t, ok)

	assert.False(t, s.Resolve(old, &catalog.PagedResult{Items: makeItems("old", 2)}, nil))
	assert.Empty(t, s.Results())

	assert.True(t, s.Resolve(fresh, &catalog.PagedResult{Items: makeItems("new", 2)}, nil))
	assert.Equal(t, "new-0", s.Results()[0].Slug)
}

func TestSuggestEmptyOrFailedLookupGoesIdle(t *testing.T) {
	for name, outcome := range map[string]struct {
		res *catalog.PagedResult
		err error
	}{
		"empty":  {res: &catalog.PagedResult{}},
		"failed": {err: errUpstream},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewSuggest(nil)
			req, ok := s.Fire(s.Input("zzz", time.Now()))
			require.True(t, ok)

			s.Resolve(req, outcome.res, outcome.err)

			assert.Equal(t, SuggestIdle, s.State())
			assert.False(t, s.Open())
			assert.Empty(t, s.Results())
			assert.Equal(t, "zzz", s.Query())
		})
	}
}

func TestSuggestDismissKeepsQuery(t *testing.T) {
	s := NewSuggest(nil)
	s.OpenMobile()
	req, _ := s.Fire(s.Input("bleach", time.Now()))
	s.Resolve(req, &catalog.PagedResult{Items: makeItems("bleach", 2)}, nil)

	s.Dismiss()

	assert.False(t, s.Open())
	assert.True(t, s.MobileOpen())
	assert.Equal(t, "bleach", s.Query())

	s.Reopen()
	assert.True(t, s.Open())

	s.Clear()
	s.Dismiss()
	assert.False(t, s.MobileOpen())
}

func TestSuggestSubmit(t *testing.T) {
	s := NewSuggest(nil)
	s.OpenMobile()
	tick := s.Input("one piece & co", time.Now())

	path, ok := s.Submit()

	require.True(t, ok)
	assert.Equal(t, "/search?q=one+piece+%26+co", path)
	assert.False(t, s.Open())
	assert.False(t, s.MobileOpen())

	_, fired := s.Fire(tick)
	assert.False(t, fired, "submit cancels the pending lookup")

	s.Input("   ", time.Now())
	_, ok = s.Submit()
	assert.False(t, ok)
}

func TestSuggestStateString(t *testing.T) {
	assert.Equal(t, "debouncing", SuggestDebouncing.String())
	assert.Equal(t, "unknown", SuggestState(42).String())
}
