package browse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/catalog"
)

func firstPage(n int) *catalog.PagedResult {
	return &catalog.PagedResult{Items: makeItems("p1", n), Page: 1, TotalPages: 5}
}

func TestAccumulatorAppendsInArrivalOrder(t *testing.T) {
	src := &fakeSource{totalPages: 5, pages: map[int][]catalog.AnimeItem{
		2: makeItems("p2", 10),
		3: makeItems("p3", 8),
	}}
	acc := NewAccumulator("frieren", firstPage(12), nil)

	require.True(t, acc.LoadMore(context.Background(), src))
	require.True(t, acc.LoadMore(context.Background(), src))

	items := acc.Items()
	require.Len(t, items, 12+18)
	assert.Equal(t, "p1-0", items[0].Slug)
	assert.Equal(t, "p2-0", items[12].Slug)
	assert.Equal(t, "p3-7", items[29].Slug)
	assert.Equal(t, 3, acc.Page())
	assert.True(t, acc.HasMore())
}

func TestAccumulatorStopsOnEmptyPage(t *testing.T) {
	src := &fakeSource{totalPages: 5, pages: map[int][]catalog.AnimeItem{}}
	acc := NewAccumulator("frieren", firstPage(12), nil)

	require.True(t, acc.LoadMore(context.Background(), src))
	assert.False(t, acc.HasMore())
	assert.Len(t, acc.Items(), 12)

	assert.False(t, acc.LoadMore(context.Background(), src))
	assert.Equal(t, []int{2}, src.calls)
}

func TestAccumulatorStopsAtTotalPages(t *testing.T) {
	src := &fakeSource{totalPages: 2, pages: map[int][]catalog.AnimeItem{2: makeItems("p2", 4)}}
	acc := NewAccumulator("q", &catalog.PagedResult{Items: makeItems("p1", 10), Page: 1, TotalPages: 2}, nil)

	require.True(t, acc.LoadMore(context.Background(), src))

	assert.False(t, acc.HasMore())
	assert.Len(t, acc.Items(), 14)
}

func TestAccumulatorDoesNotDedupeAcrossPages(t *testing.T) {
	src := &fakeSource{totalPages: 3, pages: map[int][]catalog.AnimeItem{2: makeItems("p1", 2)}}
	acc := NewAccumulator("q", firstPage(2), nil)

	acc.LoadMore(context.Background(), src)

	assert.Len(t, acc.Items(), 4)
}

func TestAccumulatorFailureStopsPagination(t *testing.T) {
	src := &fakeSource{err: errUpstream}
	acc := NewAccumulator("q", firstPage(12), nil)

	require.True(t, acc.LoadMore(context.Background(), src))

	assert.False(t, acc.HasMore())
	assert.False(t, acc.Loading())
	assert.Len(t, acc.Items(), 12)
	assert.Equal(t, 1, acc.Page())
}

func TestAccumulatorGuardsConcurrentLoads(t *testing.T) {
	acc := NewAccumulator("q", firstPage(12), nil)

	req, ok := acc.BeginLoadMore()
	require.True(t, ok)
	assert.Equal(t, 2, req.Page)

	_, ok = acc.BeginLoadMore()
	assert.False(t, ok)
}

func TestAccumulatorResetSupersedesInFlightLoad(t *testing.T) {
	acc := NewAccumulator("naruto", firstPage(12), nil)
	req, ok := acc.BeginLoadMore()
	require.True(t, ok)

	acc.Reset("bleach", &catalog.PagedResult{Items: makeItems("bleach", 3), Page: 1, TotalPages: 4})
	applied := acc.Complete(req, &catalog.PagedResult{Items: makeItems("naruto-p2", 10), TotalPages: 5}, nil)

	assert.False(t, applied)
	assert.Equal(t, "bleach", acc.Query())
	assert.Len(t, acc.Items(), 3)
	assert.Equal(t, 1, acc.Page())
	assert.True(t, acc.HasMore())
	assert.False(t, acc.Loading())
}

func TestAccumulatorEmptyFirstPage(t *testing.T) {
	src := &fakeSource{}
	acc := NewAccumulator("zzz", &catalog.PagedResult{Page: 1}, nil)

	assert.False(t, acc.HasMore())
	assert.False(t, acc.LoadMore(context.Background(), src))
	assert.Empty(t, src.calls)
}

func TestMoreAfter(t *testing.T) {
	page := func(n, total int) *catalog.PagedResult {
		return &catalog.PagedResult{Items: makeItems("p", n), TotalPages: total}
	}

	assert.True(t, MoreAfter(2, page(10, 5)))
	assert.False(t, MoreAfter(5, page(10, 5)), "last known page")
	assert.False(t, MoreAfter(2, page(0, 5)), "empty page")
	assert.False(t, MoreAfter(2, nil))
}
