package catalog

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// PlaceholderImage is used when an item carries neither thumbnail nor image
const PlaceholderImage = "/static/placeholder.svg"

// AnimeItem is a single catalog entry (a series, a batch release, or an episode)
type AnimeItem struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Image         string     `json:"image,omitempty"`
	Thumbnail     string     `json:"thumbnail,omitempty"`
	Type          string     `json:"type,omitempty"`
	LatestEpisode FlexString `json:"latest_episode,omitempty"`
	Episode       FlexString `json:"episode,omitempty"`
}

var episodeSuffix = regexp.MustCompile(`^(.+?)-(?:episode|ep)-\d+.*$`)

// Cover returns the best available artwork URL
func (a AnimeItem) Cover() string {
	if a.Thumbnail != "" {
		return a.Thumbnail
	}
	if a.Image != "" {
		return a.Image
	}
	return PlaceholderImage
}

// EpisodeLabel returns the badge text shown on cards
func (a AnimeItem) EpisodeLabel() string {
	if a.LatestEpisode != "" {
		return string(a.LatestEpisode)
	}
	if a.Episode != "" {
		return string(a.Episode)
	}
	return "Ep ?"
}

// TypeLabel defaults to TV
func (a AnimeItem) TypeLabel() string {
	if a.Type == "" {
		return "TV"
	}
	return a.Type
}

// IsEpisode reports whether the slug points at a single episode
func (a AnimeItem) IsEpisode() bool {
	return strings.Contains(a.Slug, "episode") || strings.Contains(a.Slug, "ep-")
}

// IsBatch reports whether the slug is a batch release
func (a AnimeItem) IsBatch() bool {
	return strings.Contains(strings.ToLower(a.Slug), "batch")
}

// AnimeSlug returns the series slug, stripping an episode suffix when present
func (a AnimeItem) AnimeSlug() string {
	if m := episodeSuffix.FindStringSubmatch(a.Slug); m != nil {
		return m[1]
	}
	return a.Slug
}

// Href is the site route for the item: the watch page for episodes,
// the detail page otherwise.
func (a AnimeItem) Href() string {
	if a.IsEpisode() {
		return "/watch/" + a.Slug
	}
	return "/anime/" + a.Slug
}

// SeriesHref always points at the series detail page, resolving episode
// slugs to their series. Suggestions link here.
func (a AnimeItem) SeriesHref() string {
	return "/anime/" + a.AnimeSlug()
}

// DisplayTitle drops a trailing " Episode ..." from episode titles
func (a AnimeItem) DisplayTitle() string {
	title, _, _ := strings.Cut(a.Title, " Episode ")
	return title
}

// PagedResult is one page of a listing endpoint. TotalPages is 0 when the
// endpoint does not report it.
type PagedResult struct {
	Items      []AnimeItem
	Page       int
	TotalPages int
	Status     string
}

// Empty reports a valid response without items
func (p *PagedResult) Empty() bool {
	return p == nil || len(p.Items) == 0
}

// HasNext reports whether a later page is known to exist
func (p *PagedResult) HasNext() bool {
	return p != nil && p.Page < p.TotalPages
}

// ScheduleMap maps an Indonesian day label to the series airing that day
type ScheduleMap map[string][]AnimeItem

// EpisodeRef is an entry of a detail page's episode list
type EpisodeRef struct {
	Slug  string     `json:"slug"`
	Title string     `json:"title"`
	Date  FlexString `json:"date,omitempty"`
}

// Detail describes a series
type Detail struct {
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	Image     string       `json:"image,omitempty"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Synopsis  string       `json:"synopsis,omitempty"`
	Type      string       `json:"type,omitempty"`
	Status    string       `json:"status,omitempty"`
	Score     FlexString   `json:"score,omitempty"`
	Genres    []string     `json:"genres,omitempty"`
	Episodes  []EpisodeRef `json:"episodes,omitempty"`
	BatchSlug string       `json:"batch_slug,omitempty"`
}

// Cover returns the best available artwork URL
func (d *Detail) Cover() string {
	return AnimeItem{Image: d.Image, Thumbnail: d.Thumbnail}.Cover()
}

// StreamingServer is an embeddable player source
type StreamingServer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DownloadLink is a single mirror for a download format
type DownloadLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DownloadGroup groups mirrors by format or quality
type DownloadGroup struct {
	Format string         `json:"format"`
	Links  []DownloadLink `json:"links"`
}

// Watch is the episode page payload
type Watch struct {
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	AnimeSlug   string            `json:"anime_slug,omitempty"`
	Servers     []StreamingServer `json:"servers,omitempty"`
	Downloads   []DownloadGroup   `json:"downloads,omitempty"`
	PrevEpisode string            `json:"prev_episode,omitempty"`
	NextEpisode string            `json:"next_episode,omitempty"`
}

// FlexString accepts JSON strings, numbers and null
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt accepts JSON numbers, numeric strings and null
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}
