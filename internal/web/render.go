package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mizunime/mizunime/internal/browse"
)

//go:embed templates/*.html static
var assets embed.FS

var pages = []string{
	"home.html",
	"schedule.html",
	"search.html",
	"batch.html",
	"anime.html",
	"watch.html",
	"error.html",
}

// layoutData is shared by every page
type layoutData struct {
	SiteName  string
	Title     string
	PublicURL string
	Path      string
	Query     string
	Year      int
	Started   time.Time
	Sidebar   *sidebarData
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"since":      humanize.Time,
		"comma":      func(n int) string { return humanize.Comma(int64(n)) },
		"rank":       func(i int) int { return i + 1 },
		"searchPath": browse.SearchPath,
		"pageURL":    pageURL,
		"lower":      strings.ToLower,
	}
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(assets, "templates/"+page); err != nil {
			return nil, err
		}
		out[page] = tpl
	}
	return out, nil
}

func (s *Server) layout(r *http.Request, title string) layoutData {
	return layoutData{
		SiteName:  s.cfg.Web.SiteName,
		Title:     title,
		PublicURL: strings.TrimRight(s.cfg.Web.PublicURL, "/"),
		Path:      r.URL.Path,
		Query:     strings.TrimSpace(r.URL.Query().Get("q")),
		Year:      s.now().In(s.location).Year(),
		Started:   s.started,
	}
}

// render executes the page into a buffer first so a template failure never
// leaves a half-written page behind
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tpl, ok := s.templates[name]
	if !ok {
		s.logger.Warn("render: template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render: execute failed",
			"template", name,
			"request_id", requestIDFrom(r.Context()),
			"error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPageData struct {
	layoutData
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := errorPageData{
		layoutData: s.layout(r, "Terjadi kesalahan"),
		Status:     status,
		Message:    message,
	}
	s.render(w, r, status, "error.html", data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// pageURL builds path?page=n, keeping page 1 canonical
func pageURL(path string, page int) string {
	if page <= 1 {
		return path
	}
	return path + "?page=" + strconv.Itoa(page)
}

// pageParam reads a positive page number, defaulting to 1
func pageParam(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
