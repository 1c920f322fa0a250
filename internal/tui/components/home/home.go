package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/styles"
	"github.com/mizunime/mizunime/internal/tui/utils"
)

// Model is the latest releases feed, paged with n/p
type Model struct {
	catalog common.Catalog
	logger  *slog.Logger
	feed    *browse.Feed
	cursor  int
	loading bool
	err     error
	updated time.Time
	width   int
	height  int

	Now func() time.Time
}

func New(cat common.Catalog, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{catalog: cat, logger: logger, Now: time.Now}
}

func (m *Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the first page and restarts the feed
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.err = nil
	return m.fetch(browse.FeedRequest{Page: 1})
}

func (m *Model) fetch(req browse.FeedRequest) tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		res, err := cat.Home(context.Background(), req.Page)
		return common.FeedPageMsg{Req: req, Result: res, Err: err}
	}
}

// Feed exposes the controller, nil until the first page arrives
func (m *Model) Feed() *browse.Feed { return m.feed }

// Cursor returns the selected row
func (m *Model) Cursor() int { return m.cursor }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case common.FeedPageMsg:
		return m.handlePage(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handlePage(msg common.FeedPageMsg) tea.Cmd {
	// token 0 is the initial load; the feed never issues it
	if msg.Req.Token == 0 {
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.logger.Error("failed to load latest releases", "error", msg.Err)
			return nil
		}
		var first []catalog.AnimeItem
		if msg.Result != nil {
			first = msg.Result.Items
		}
		m.feed = browse.NewFeed(first, m.logger)
		m.cursor = 0
		m.updated = m.Now()
		return nil
	}

	if m.feed == nil {
		return nil
	}
	if m.feed.Complete(msg.Req, msg.Result, msg.Err) {
		m.cursor = 0
		m.updated = m.Now()
		return nil
	}
	if msg.Err != nil {
		return common.Emit(common.StatusMsg{Text: fmt.Sprintf("Failed to load page %d", msg.Req.Page), Err: msg.Err})
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.feed == nil {
		if msg.String() == "r" && !m.loading {
			return m.Reload()
		}
		return nil
	}

	items := m.feed.Items()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "right", "l", "n":
		if req, ok := m.feed.BeginNext(); ok {
			return m.fetch(req)
		}
	case "left", "h", "p":
		if req, ok := m.feed.BeginPrev(); ok {
			return m.fetch(req)
		}
	case "r":
		return m.Reload()
	case "enter":
		if m.cursor < len(items) {
			item := items[m.cursor]
			return common.Emit(common.OpenItemMsg{Title: item.Title, Path: item.Href()})
		}
	case "y":
		if m.cursor < len(items) {
			item := items[m.cursor]
			return common.Emit(common.CopyLinkMsg{Title: item.Title, Path: item.Href()})
		}
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  LATEST RELEASES  "))
	b.WriteString("\n")

	switch {
	case m.feed == nil && m.loading:
		b.WriteString(styles.MetadataStyle.Render("  Loading..."))
		return b.String()
	case m.feed == nil && m.err != nil:
		b.WriteString(styles.ErrorStyle.Render("  Could not load the latest releases."))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("  r retry"))
		return b.String()
	case m.feed == nil:
		return b.String()
	}

	sub := fmt.Sprintf("  Page %d", m.feed.Page())
	if !m.updated.IsZero() {
		sub += " • updated " + humanize.RelTime(m.updated, m.Now(), "ago", "from now")
	}
	b.WriteString(styles.SubtitleStyle.Render(sub))
	b.WriteString("\n\n")

	items := m.feed.Items()
	if len(items) == 0 {
		b.WriteString(styles.MetadataStyle.Render("  Nothing here yet."))
		b.WriteString("\n")
	}
	rows := (m.height - 10) / 3
	start, end := utils.Window(len(items), m.cursor, rows)
	for i := start; i < end; i++ {
		b.WriteString(common.RenderItem(items[i], i == m.cursor, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pager())
	return b.String()
}

func (m *Model) pager() string {
	prev, next := "← prev (p)", "next (n) →"
	if m.feed.CanPrev() {
		prev = styles.SubtitleStyle.Render(prev)
	} else {
		prev = styles.DisabledStyle.Render(prev)
	}
	if m.feed.CanNext() {
		next = styles.SubtitleStyle.Render(next)
	} else {
		next = styles.DisabledStyle.Render(next)
	}
	middle := fmt.Sprintf("  %d  ", m.feed.Page())
	if m.feed.Loading() {
		middle = styles.SpinnerStyle.Render("  ...  ")
	}
	return "  " + prev + middle + next
}
