package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
)

const (
	heroSize          = 5
	trendingSize      = 10
	batchShelfSize    = 5
	newSeriesFrom     = 10
	newSeriesTo       = 15
	msgFetchFailed    = "Terjadi kesalahan saat memuat data. Silakan coba lagi."
	msgSearchFailed   = "Terjadi kesalahan saat mencari anime."
	msgNotFound       = "Halaman tidak ditemukan."
	msgEmptySearch    = "Masukkan kata kunci untuk mencari anime."
	apiFetchFailedMsg = "Failed to fetch"
)

type sidebarData struct {
	Trending  []catalog.AnimeItem
	NewSeries []catalog.AnimeItem
}

func newSidebar(items []catalog.AnimeItem) *sidebarData {
	return &sidebarData{
		Trending:  window(items, 0, trendingSize),
		NewSeries: window(items, newSeriesFrom, newSeriesTo),
	}
}

// window returns items[from:to] clamped to the slice bounds
func window(items []catalog.AnimeItem, from, to int) []catalog.AnimeItem {
	return lo.Slice(items, from, to)
}

// sidebar loads the first home page for the side widgets. It is decoration:
// failures are logged and yield no sidebar.
func (s *Server) sidebar(ctx context.Context) *sidebarData {
	res, err := s.catalog.Home(ctx, 1)
	if err != nil {
		s.logger.Warn("sidebar unavailable", "request_id", requestIDFrom(ctx), "error", err)
		return nil
	}
	return newSidebar(res.Items)
}

// fail renders the error page for an initial load. Upstream failures are
// a bad gateway; anything else is ours.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error, message string) {
	s.logger.Error("failed to load "+what,
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"malformed", catalog.IsMalformed(err),
		"error", err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	case catalog.IsNetworkError(err):
		status = http.StatusBadGateway
	}
	s.renderError(w, r, status, message)
}

type homePageData struct {
	layoutData
	Hero     []catalog.AnimeItem
	Feed     []catalog.AnimeItem
	Page     int
	PrevURL  string
	NextURL  string
	Trending []catalog.AnimeItem
	Batches  []catalog.AnimeItem
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := pageParam(r, "page")

	var first, current, batches *catalog.PagedResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = s.catalog.Home(gctx, 1)
		return err
	})
	if page > 1 {
		g.Go(func() error {
			var err error
			current, err = s.catalog.Home(gctx, page)
			return err
		})
	}
	g.Go(func() error {
		res, err := s.catalog.Batch(gctx, 1)
		if err != nil {
			s.logger.Warn("batch shelf unavailable", "request_id", requestIDFrom(ctx), "error", err)
			return nil
		}
		batches = res
		return nil
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, "home", err, msgFetchFailed)
		return
	}
	if current == nil {
		current = first
	}

	feed := browse.NewFeedAt(page, current.Items, s.logger)
	data := homePageData{
		layoutData: s.layout(r, ""),
		Hero:       window(first.Items, 0, heroSize),
		Feed:       feed.Items(),
		Page:       feed.Page(),
		Trending:   window(first.Items, 0, trendingSize),
	}
	data.Sidebar = newSidebar(first.Items)
	if batches != nil {
		data.Batches = window(batches.Items, 0, batchShelfSize)
	}
	if feed.CanPrev() {
		data.PrevURL = pageURL("/", feed.Page()-1) + "#rilisan-terbaru"
	}
	if feed.CanNext() {
		data.NextURL = pageURL("/", feed.Page()+1) + "#rilisan-terbaru"
	}
	s.render(w, r, http.StatusOK, "home.html", data)
}

type schedulePageData struct {
	layoutData
	Days []browse.DayGroup
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.catalog.Schedule(r.Context())
	if err != nil {
		s.fail(w, r, "schedule", err, msgFetchFailed)
		return
	}
	data := schedulePageData{
		layoutData: s.layout(r, "Jadwal Rilis"),
		Days:       browse.Group(schedule, s.now().In(s.location)),
	}
	data.Sidebar = s.sidebar(r.Context())
	s.render(w, r, http.StatusOK, "schedule.html", data)
}

type searchPageData struct {
	layoutData
	Prompt      string
	Items       []catalog.AnimeItem
	Count       int
	Page        int
	LoadMoreURL string
}

// handleSearch renders one page of results, page 1 unless asked otherwise.
// The page script keeps appending through /api/search; without it the
// "load more" link still walks the pages one at a time.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := searchPageData{layoutData: s.layout(r, "Hasil Pencarian")}
	query := data.Query
	if query == "" {
		data.Prompt = msgEmptySearch
		s.render(w, r, http.StatusOK, "search.html", data)
		return
	}

	first, err := s.catalog.Search(ctx, query, pageParam(r, "page"))
	if err != nil {
		s.fail(w, r, "search", err, msgSearchFailed)
		return
	}

	acc := browse.NewAccumulator(query, first, s.logger)
	data.Items = acc.Items()
	data.Count = len(data.Items)
	data.Page = acc.Page()
	data.Sidebar = s.sidebar(ctx)
	if acc.HasMore() {
		data.LoadMoreURL = searchPageURL(query, acc.Page()+1)
	}
	s.render(w, r, http.StatusOK, "search.html", data)
}

func searchPageURL(query string, page int) string {
	return browse.SearchPath(query) + "&page=" + strconv.Itoa(page)
}

type batchPageData struct {
	layoutData
	Items   []catalog.AnimeItem
	Page    int
	PrevURL string
	NextURL string
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r, "page")
	res, err := s.catalog.Batch(r.Context(), page)
	if err != nil {
		s.fail(w, r, "batch", err, msgFetchFailed)
		return
	}
	data := batchPageData{
		layoutData: s.layout(r, "Batch"),
		Items:      res.Items,
		Page:       res.Page,
	}
	if res.Page > 1 {
		data.PrevURL = pageURL("/batch", res.Page-1)
	}
	if res.HasNext() {
		data.NextURL = pageURL("/batch", res.Page+1)
	}
	data.Sidebar = s.sidebar(r.Context())
	s.render(w, r, http.StatusOK, "batch.html", data)
}

type animePageData struct {
	layoutData
	Detail *catalog.Detail
}

func (s *Server) handleAnime(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	detail, err := s.catalog.Detail(r.Context(), slug)
	if err != nil {
		s.fail(w, r, "anime detail", err, msgFetchFailed)
		return
	}
	data := animePageData{
		layoutData: s.layout(r, detail.Title),
		Detail:     detail,
	}
	data.Sidebar = s.sidebar(r.Context())
	s.render(w, r, http.StatusOK, "anime.html", data)
}

type serverTab struct {
	Index  int
	Name   string
	Href   string
	Active bool
}

type watchPageData struct {
	layoutData
	Watch     *catalog.Watch
	Player    *catalog.StreamingServer
	Sandboxed bool
	Servers   []serverTab
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	watch, err := s.catalog.Watch(r.Context(), slug)
	if err != nil {
		s.fail(w, r, "episode", err, msgFetchFailed)
		return
	}

	playable := watch.PlayableServers()
	selected, err := strconv.Atoi(r.URL.Query().Get("server"))
	if err != nil || selected < 0 || selected >= len(playable) {
		selected = 0
	}

	data := watchPageData{
		layoutData: s.layout(r, watch.Title),
		Watch:      watch,
	}
	for i, srv := range playable {
		data.Servers = append(data.Servers, serverTab{
			Index:  i,
			Name:   srv.Name,
			Href:   "/watch/" + url.PathEscape(slug) + "?server=" + strconv.Itoa(i),
			Active: i == selected,
		})
	}
	if len(playable) > 0 {
		data.Player = &playable[selected]
		data.Sandboxed = playable[selected].Sandboxed()
	}
	s.render(w, r, http.StatusOK, "watch.html", data)
}

// handleAPIHome passes the upstream home feed through unchanged so page
// scripts can paginate without cross-origin requests
func (s *Server) handleAPIHome(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r, "page")
	body, err := s.catalog.Raw(r.Context(), catalog.EndpointHome, url.Values{"page": {strconv.Itoa(page)}})
	if err != nil {
		s.logger.Error("home proxy failed",
			"request_id", requestIDFrom(r.Context()),
			"page", page,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": apiFetchFailedMsg})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type searchPage struct {
	Items      []catalog.AnimeItem `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	HasMore    bool                `json:"has_more"`
}

// handleAPISearch returns exactly one page of results for "load more"
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing query"})
		return
	}
	page := pageParam(r, "page")
	res, err := s.catalog.Search(r.Context(), query, page)
	if err != nil {
		s.logger.Error("search page failed",
			"request_id", requestIDFrom(r.Context()),
			"query", query,
			"page", page,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": apiFetchFailedMsg})
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, searchPage{
		Items:      res.Items,
		Page:       page,
		TotalPages: res.TotalPages,
		HasMore:    browse.MoreAfter(page, res),
	})
}

type suggestion struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Cover   string `json:"cover"`
	Href    string `json:"href"`
	Episode string `json:"latest_episode,omitempty"`
	Kind    string `json:"kind"`
}

// handleAPISuggest serves the navbar suggestion panel: at most six items,
// nothing for short queries, nothing on upstream failure.
func (s *Server) handleAPISuggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	empty := map[string]any{"items": []suggestion{}}
	if len([]rune(query)) < browse.MinQueryLength {
		writeJSON(w, http.StatusOK, empty)
		return
	}

	res, err := s.catalog.Search(r.Context(), query, 1)
	if err != nil {
		s.logger.Warn("suggest failed",
			"request_id", requestIDFrom(r.Context()),
			"query", query,
			"error", err)
		writeJSON(w, http.StatusOK, empty)
		return
	}

	items := lo.Map(window(res.Items, 0, browse.MaxSuggestions), func(item catalog.AnimeItem, _ int) suggestion {
		kind := item.TypeLabel()
		if item.IsEpisode() {
			kind = "Episode"
		}
		return suggestion{
			Slug:    item.Slug,
			Title:   item.DisplayTitle(),
			Cover:   item.Cover(),
			Href:    item.SeriesHref(),
			Episode: string(item.LatestEpisode),
			Kind:    kind,
		}
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"all":   browse.SearchPath(query),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC(),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		return
	}
	s.renderError(w, r, http.StatusNotFound, msgNotFound)
}
