package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/tuitest"
)

func newModel(t *testing.T, cat *tuitest.Catalog) (*Model, *tuitest.After) {
	t.Helper()
	after := &tuitest.After{}
	m := New(cat, nil)
	m.After = after.Func
	m.Now = func() time.Time { return time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC) }
	return m, after
}

func TestSuggestionsDebounce(t *testing.T) {
	cat := &tuitest.Catalog{SearchPages: map[int][]catalog.AnimeItem{
		1: {
			{Slug: "frieren-episode-28-sub-indo", Title: "Frieren Episode 28 Sub Indo"},
			{Slug: "a", Title: "A"}, {Slug: "b", Title: "B"}, {Slug: "c", Title: "C"},
			{Slug: "d", Title: "D"}, {Slug: "e", Title: "E"}, {Slug: "f", Title: "F"},
		},
	}}
	m, after := newModel(t, cat)

	m.SetQuery("f")
	m.SetQuery("fr")
	m.SetQuery("fri")
	require.Len(t, after.Msgs, 3)
	assert.Equal(t, browse.SuggestDebouncing, m.Suggest().State())

	// superseded ticks never fetch
	assert.Nil(t, m.Update(after.Msgs[0]))
	assert.Nil(t, m.Update(after.Msgs[1]))
	assert.Empty(t, cat.SearchCalls())

	msg := tuitest.Exec(t, m.Update(after.Msgs[2]))
	assert.Equal(t, []string{"fri#1"}, cat.SearchCalls())

	m.Update(msg)
	assert.True(t, m.Suggest().Open())
	assert.Len(t, m.Suggest().Results(), browse.MaxSuggestions)
	assert.Contains(t, m.View(), "Frieren")
}

func TestStaleSuggestionsDropped(t *testing.T) {
	cat := &tuitest.Catalog{SearchPages: map[int][]catalog.AnimeItem{1: tuitest.Items("x", 2)}}
	m, after := newModel(t, cat)

	m.SetQuery("one")
	lookup := m.Update(after.Msgs[0])
	require.NotNil(t, lookup)
	m.SetQuery("one piece")

	m.Update(lookup())
	assert.False(t, m.Suggest().Open())
	assert.Equal(t, browse.SuggestDebouncing, m.Suggest().State())
}

func TestShortQueryNeverFetches(t *testing.T) {
	cat := &tuitest.Catalog{}
	m, after := newModel(t, cat)

	m.SetQuery("ab")
	assert.Nil(t, m.Update(after.Msgs[0]))
	assert.Empty(t, cat.SearchCalls())
	assert.Equal(t, browse.SuggestIdle, m.Suggest().State())
}

func TestSuggestionKeys(t *testing.T) {
	cat := &tuitest.Catalog{SearchPages: map[int][]catalog.AnimeItem{1: {
		{Slug: "frieren-episode-28-sub-indo", Title: "Frieren Episode 28 Sub Indo"},
		{Slug: "frieren-recap", Title: "Frieren Recap"},
	}}}
	m, after := newModel(t, cat)
	m.SetQuery("frieren")
	m.Update(tuitest.Exec(t, m.Update(after.Msgs[0])))
	require.True(t, m.Suggest().Open())

	t.Run("enter on a suggestion opens the series", func(t *testing.T) {
		m.Update(tuitest.Key("down"))
		assert.Equal(t, 0, m.Cursor())

		msg := tuitest.Exec(t, m.Update(tuitest.Key("enter")))
		assert.Equal(t, common.OpenItemMsg{Title: "Frieren", Path: "/anime/frieren"}, msg)
		assert.False(t, m.Suggest().Open())
		assert.Equal(t, "frieren", m.GetValue(), "query is kept")
	})

	t.Run("focus reopens the panel", func(t *testing.T) {
		m.Focus()
		assert.True(t, m.Suggest().Open())
	})

	t.Run("esc closes the panel then goes back", func(t *testing.T) {
		assert.Nil(t, m.Update(tuitest.Key("esc")))
		assert.False(t, m.Suggest().Open())

		assert.Equal(t, common.BackMsg{}, tuitest.Exec(t, m.Update(tuitest.Key("esc"))))
	})

	t.Run("enter on the input submits", func(t *testing.T) {
		msg := tuitest.Exec(t, m.Update(tuitest.Key("enter")))
		assert.Equal(t, common.PerformSearchMsg{Query: "frieren"}, msg)
	})

	t.Run("blank query does not submit", func(t *testing.T) {
		m.Update(tuitest.Key("ctrl+l"))
		assert.Empty(t, m.GetValue())
		assert.Nil(t, m.Update(tuitest.Key("enter")))
	})
}
