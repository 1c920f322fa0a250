package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimeItemHelpers(t *testing.T) {
	tests := []struct {
		name      string
		item      AnimeItem
		isEpisode bool
		isBatch   bool
		animeSlug string
		href      string
	}{
		{
			name:      "series",
			item:      AnimeItem{Slug: "sousou-no-frieren"},
			animeSlug: "sousou-no-frieren",
			href:      "/anime/sousou-no-frieren",
		},
		{
			name:      "episode",
			item:      AnimeItem{Slug: "sousou-no-frieren-episode-12-subtitle-indonesia"},
			isEpisode: true,
			animeSlug: "sousou-no-frieren",
			href:      "/watch/sousou-no-frieren-episode-12-subtitle-indonesia",
		},
		{
			name:      "short episode form",
			item:      AnimeItem{Slug: "one-piece-ep-1100"},
			isEpisode: true,
			animeSlug: "one-piece",
			href:      "/watch/one-piece-ep-1100",
		},
		{
			name:      "batch in any case",
			item:      AnimeItem{Slug: "Kimetsu-BATCH-sub-indo"},
			isBatch:   true,
			animeSlug: "Kimetsu-BATCH-sub-indo",
			href:      "/anime/Kimetsu-BATCH-sub-indo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isEpisode, tt.item.IsEpisode())
			assert.Equal(t, tt.isBatch, tt.item.IsBatch())
			assert.Equal(t, tt.animeSlug, tt.item.AnimeSlug())
			assert.Equal(t, tt.href, tt.item.Href())
		})
	}
}

func TestAnimeItemLabels(t *testing.T) {
	assert.Equal(t, "thumb.jpg", AnimeItem{Image: "img.jpg", Thumbnail: "thumb.jpg"}.Cover())
	assert.Equal(t, "img.jpg", AnimeItem{Image: "img.jpg"}.Cover())
	assert.Equal(t, PlaceholderImage, AnimeItem{}.Cover())

	assert.Equal(t, "Ep 3", AnimeItem{LatestEpisode: "Ep 3", Episode: "2"}.EpisodeLabel())
	assert.Equal(t, "2", AnimeItem{Episode: "2"}.EpisodeLabel())
	assert.Equal(t, "Ep ?", AnimeItem{}.EpisodeLabel())

	assert.Equal(t, "TV", AnimeItem{}.TypeLabel())
	assert.Equal(t, "Movie", AnimeItem{Type: "Movie"}.TypeLabel())

	ep := AnimeItem{Slug: "one-piece-episode-1100-sub-indo", Title: "One Piece Episode 1100 Subtitle Indonesia"}
	assert.Equal(t, "/anime/one-piece", ep.SeriesHref())
	assert.Equal(t, "One Piece", ep.DisplayTitle())
	assert.Equal(t, "Frieren", AnimeItem{Title: "Frieren"}.DisplayTitle())
}

func TestFlexDecoding(t *testing.T) {
	var item AnimeItem
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"a","title":"A","episode":12,"latest_episode":null}`), &item))
	assert.Equal(t, FlexString("12"), item.Episode)
	assert.Equal(t, FlexString(""), item.LatestEpisode)

	var payload listData
	require.NoError(t, json.Unmarshal([]byte(`{"anime":[],"total_pages":"7"}`), &payload))
	assert.Equal(t, FlexInt(7), payload.TotalPages)

	require.Error(t, json.Unmarshal([]byte(`{"total_pages":"many"}`), &payload))
}

func TestStreamingServerEmbedURL(t *testing.T) {
	assert.Equal(t, "https://player.test/e/1", StreamingServer{URL: " https://player.test/e/1 "}.EmbedURL())
	assert.Equal(t, "https://player.test/e/2",
		StreamingServer{URL: `<iframe width="100%" src="https://player.test/e/2" allowfullscreen></iframe>`}.EmbedURL())
	assert.Equal(t, "", StreamingServer{URL: `<div>no player</div>`}.EmbedURL())

	assert.True(t, StreamingServer{Name: "Mega"}.Sandboxed())
	assert.False(t, StreamingServer{Name: "VidHide 720p"}.Sandboxed())

	w := &Watch{Servers: []StreamingServer{
		{Name: "ok", URL: "https://player.test/ok"},
		{Name: "broken", URL: "<p></p>"},
	}}
	servers := w.PlayableServers()
	require.Len(t, servers, 1)
	assert.Equal(t, "ok", servers[0].Name)
}
