package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/mizunime/mizunime/internal/catalog"
)

var errUpstream = errors.New("upstream down")

func makeItems(prefix string, n int) []catalog.AnimeItem {
	items := make([]catalog.AnimeItem, n)
	for i := range items {
		slug := fmt.Sprintf("%s-%d", prefix, i)
		items[i] = catalog.AnimeItem{Slug: slug, Title: slug}
	}
	return items
}

// fakeSource serves canned pages and records every call
type fakeSource struct {
	pages      map[int][]catalog.AnimeItem
	totalPages int
	err        error
	calls      []int
}

func (f *fakeSource) page(page int) (*catalog.PagedResult, error) {
	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.PagedResult{Items: f.pages[page], Page: page, TotalPages: f.totalPages, Status: "success"}, nil
}

func (f *fakeSource) Home(_ context.Context, page int) (*catalog.PagedResult, error) {
	return f.page(page)
}

func (f *fakeSource) Search(_ context.Context, _ string, page int) (*catalog.PagedResult, error) {
	return f.page(page)
}
