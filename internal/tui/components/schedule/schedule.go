package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/styles"
	"github.com/mizunime/mizunime/internal/tui/utils"
)

// Model shows the weekly release schedule one day at a time, starting
// with today
type Model struct {
	catalog  common.Catalog
	logger   *slog.Logger
	location *time.Location
	groups   []browse.DayGroup
	day      int
	cursor   int
	loading  bool
	loaded   bool
	err      error
	width    int
	height   int

	Now func() time.Time
}

func New(cat common.Catalog, location *time.Location, logger *slog.Logger) *Model {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{catalog: cat, location: location, logger: logger, Now: time.Now}
}

// Load fetches the schedule unless it is already shown
func (m *Model) Load() tea.Cmd {
	if m.loaded || m.loading {
		return nil
	}
	return m.Reload()
}

// Reload always fetches the schedule again
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.err = nil
	cat := m.catalog
	return func() tea.Msg {
		schedule, err := cat.Schedule(context.Background())
		return common.ScheduleLoadedMsg{Schedule: schedule, Err: err}
	}
}

// Groups returns the rendered days, today first
func (m *Model) Groups() []browse.DayGroup { return m.groups }

// Day returns the index of the day being shown
func (m *Model) Day() int { return m.day }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case common.ScheduleLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.logger.Error("failed to load schedule", "error", msg.Err)
			return nil
		}
		m.groups = browse.Group(msg.Schedule, m.Now().In(m.location))
		m.loaded = true
		m.day, m.cursor = 0, 0
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) current() []catalog.AnimeItem {
	if m.day >= len(m.groups) {
		return nil
	}
	return m.groups[m.day].Items
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	items := m.current()
	switch msg.String() {
	case "left", "h":
		if m.day > 0 {
			m.day--
			m.cursor = 0
		}
	case "right", "l", "tab":
		if m.day < len(m.groups)-1 {
			m.day++
			m.cursor = 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "r":
		if !m.loading {
			m.loaded = false
			return m.Reload()
		}
	case "enter":
		if m.cursor < len(items) {
			item := items[m.cursor]
			return common.Emit(common.OpenItemMsg{Title: item.Title, Path: item.SeriesHref()})
		}
	case "y":
		if m.cursor < len(items) {
			item := items[m.cursor]
			return common.Emit(common.CopyLinkMsg{Title: item.Title, Path: item.SeriesHref()})
		}
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  JADWAL RILIS  "))
	b.WriteString("\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString(styles.MetadataStyle.Render("  Loading..."))
		return b.String()
	case m.err != nil && !m.loaded:
		b.WriteString(styles.ErrorStyle.Render("  Could not load the schedule."))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("  r retry"))
		return b.String()
	case len(m.groups) == 0:
		b.WriteString(styles.MetadataStyle.Render("  Jadwal belum tersedia."))
		return b.String()
	}

	tabs := make([]string, len(m.groups))
	for i, g := range m.groups {
		label := g.Day
		if g.Today {
			label += " •"
		}
		if i == m.day {
			tabs[i] = styles.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = styles.TabStyle.Render(label)
		}
	}
	b.WriteString("  " + strings.Join(tabs, " "))
	b.WriteString("\n\n")

	g := m.groups[m.day]
	header := styles.DayHeaderStyle.Render(g.Day)
	if g.Today {
		header += " " + styles.TodayBadgeStyle.Render("Hari Ini")
	}
	b.WriteString("  " + header + " " + styles.MetadataStyle.Render(fmt.Sprintf("%d anime", len(g.Items))))
	b.WriteString("\n\n")

	rows := (m.height - 12) / 3
	start, end := utils.Window(len(g.Items), m.cursor, rows)
	for i := start; i < end; i++ {
		b.WriteString(common.RenderItem(g.Items[i], i == m.cursor, m.width))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("  ←/→ day • ↑/↓ move • enter open • y copy link • r reload"))
	return b.String()
}
