package browse

import (
	"github.com/samber/lo"

	"github.com/mizunime/mizunime/internal/catalog"
)

const (
	// FeedPageSize caps the number of items shown per feed page
	FeedPageSize = 15
	// FeedFullPageThreshold is the item count below which the feed assumes
	// it is on the last page. The home endpoint reports no reliable total.
	FeedFullPageThreshold = 10
)

// ExcludeBatches removes batch releases, keeping order
func ExcludeBatches(items []catalog.AnimeItem) []catalog.AnimeItem {
	return lo.Reject(items, func(item catalog.AnimeItem, _ int) bool {
		return item.IsBatch()
	})
}

// FeedPage applies the feed's batch exclusion and page cap
func FeedPage(items []catalog.AnimeItem) []catalog.AnimeItem {
	filtered := ExcludeBatches(items)
	if len(filtered) > FeedPageSize {
		filtered = filtered[:FeedPageSize]
	}
	return filtered
}

// Dedupe keeps the first occurrence of every slug, preserving order
func Dedupe(items []catalog.AnimeItem) []catalog.AnimeItem {
	return lo.UniqBy(items, func(item catalog.AnimeItem) string {
		return item.Slug
	})
}
