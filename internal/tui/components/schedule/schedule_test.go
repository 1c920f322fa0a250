package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/tuitest"
)

var (
	frieren  = catalog.AnimeItem{Slug: "frieren", Title: "Frieren"}
	dandadan = catalog.AnimeItem{Slug: "dandadan-episode-3", Title: "Dandadan"}
)

func newModel(cat *tuitest.Catalog) *Model {
	m := New(cat, time.UTC, nil)
	m.SetSize(100, 60)
	// Tuesday
	m.Now = func() time.Time { return time.Date(2026, 10, 20, 5, 0, 0, 0, time.UTC) }
	return m
}

func TestTodayFirst(t *testing.T) {
	cat := &tuitest.Catalog{Days: catalog.ScheduleMap{
		"Senin":  {frieren, frieren},
		"Selasa": {dandadan},
		"Rabu":   {},
	}}
	m := newModel(cat)

	m.Update(tuitest.Exec(t, m.Load()))

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Selasa", groups[0].Day)
	assert.True(t, groups[0].Today)
	assert.Equal(t, "Senin", groups[1].Day)
	assert.Len(t, groups[1].Items, 1, "duplicates collapsed")
	assert.Nil(t, m.Load(), "already loaded")

	view := m.View()
	assert.Contains(t, view, "Hari Ini")
	assert.Contains(t, view, "Dandadan")
}

func TestDayNavigation(t *testing.T) {
	cat := &tuitest.Catalog{Days: catalog.ScheduleMap{
		"Senin":  {frieren},
		"Selasa": {dandadan},
	}}
	m := newModel(cat)
	m.Update(tuitest.Exec(t, m.Load()))

	m.Update(tuitest.Key("h"))
	assert.Zero(t, m.Day())

	m.Update(tuitest.Key("l"))
	assert.Equal(t, 1, m.Day())
	m.Update(tuitest.Key("l"))
	assert.Equal(t, 1, m.Day(), "stops at the last day")

	msg := tuitest.Exec(t, m.Update(tuitest.Key("enter")))
	assert.Equal(t, common.OpenItemMsg{Title: "Frieren", Path: "/anime/frieren"}, msg)

	m.Update(tuitest.Key("left"))
	msg = tuitest.Exec(t, m.Update(tuitest.Key("y")))
	assert.Equal(t, common.CopyLinkMsg{Title: "Dandadan", Path: "/anime/dandadan"}, msg)
}

func TestLoadFailure(t *testing.T) {
	cat := &tuitest.Catalog{Err: errors.New("upstream down")}
	m := newModel(cat)

	m.Update(tuitest.Exec(t, m.Load()))

	assert.Empty(t, m.Groups())
	assert.Contains(t, m.View(), "Could not load the schedule")
	assert.NotNil(t, m.Load(), "a failed load can be retried")
}
