package results

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/styles"
	"github.com/mizunime/mizunime/internal/tui/utils"
)

// Model lists search results and loads the next page once the cursor
// reaches the end of the list
type Model struct {
	catalog     common.Catalog
	logger      *slog.Logger
	acc         *browse.Accumulator
	fuzzySearch *common.FuzzySearch
	cursor      int // index into visible()
	width       int
	height      int
}

func New(cat common.Catalog, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		catalog:     cat,
		logger:      logger,
		acc:         browse.NewAccumulator("", nil, logger),
		fuzzySearch: common.NewFuzzySearch(),
	}
}

// SetResults starts a new list from the first page of query
func (m *Model) SetResults(query string, first *catalog.PagedResult) {
	m.acc.Reset(query, first)
	m.fuzzySearch.Deactivate()
	m.cursor = 0
}

// Accumulator exposes the controller
func (m *Model) Accumulator() *browse.Accumulator { return m.acc }

// Cursor returns the selected row among the visible items
func (m *Model) Cursor() int { return m.cursor }

// IsInputActive reports whether the filter input takes keystrokes
func (m *Model) IsInputActive() bool { return m.fuzzySearch.Editing() }

// Filter exposes the in-list filter
func (m *Model) Filter() *common.FuzzySearch { return m.fuzzySearch }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.fuzzySearch.SetWidth(width)
}

// visible returns the items that pass the filter
func (m *Model) visible() []catalog.AnimeItem {
	items := m.acc.Items()
	titles := lo.Map(items, func(item catalog.AnimeItem, _ int) string { return item.Title })
	return lo.Map(m.fuzzySearch.Filter(titles), func(i int, _ int) catalog.AnimeItem { return items[i] })
}

// Selected returns the highlighted item
func (m *Model) Selected() (catalog.AnimeItem, bool) {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return catalog.AnimeItem{}, false
	}
	return items[m.cursor], true
}

// LoadMore requests the next page. It is a no-op while a load is in flight
// or once the results are exhausted.
func (m *Model) LoadMore() tea.Cmd {
	req, ok := m.acc.BeginLoadMore()
	if !ok {
		return nil
	}
	cat := m.catalog
	return func() tea.Msg {
		res, err := cat.Search(context.Background(), req.Query, req.Page)
		return common.SearchPageMsg{Req: req, Result: res, Err: err}
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case common.SearchPageMsg:
		if m.acc.Complete(msg.Req, msg.Result, msg.Err) && msg.Err != nil {
			return common.Emit(common.StatusMsg{Text: "Failed to load more results", Err: msg.Err})
		}
		return nil
	case tea.KeyMsg:
		if m.fuzzySearch.Editing() {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		m.fuzzySearch.Lock()
		return nil
	}
	cmd := m.fuzzySearch.Update(msg)
	m.cursor = 0
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	items := m.visible()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m.maybeLoadMore(len(items))
	case "G", "end":
		m.cursor = max(len(items)-1, 0)
		return m.maybeLoadMore(len(items))
	case "m":
		return m.LoadMore()
	case "/":
		m.cursor = 0
		return m.fuzzySearch.Activate()
	case "esc":
		if m.fuzzySearch.IsActive() {
			m.fuzzySearch.Deactivate()
			m.cursor = 0
			return nil
		}
		return common.Emit(common.BackMsg{})
	case "enter":
		if item, ok := m.Selected(); ok {
			return common.Emit(common.OpenItemMsg{Title: item.Title, Path: item.Href()})
		}
	case "y":
		if item, ok := m.Selected(); ok {
			return common.Emit(common.CopyLinkMsg{Title: item.Title, Path: item.Href()})
		}
	}
	return nil
}

// maybeLoadMore is the scroll sentinel: reaching the last row of an
// unfiltered list asks for the next page
func (m *Model) maybeLoadMore(n int) tea.Cmd {
	if m.fuzzySearch.IsActive() || m.cursor < n-1 {
		return nil
	}
	return m.LoadMore()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  RESULTS  "))
	b.WriteString(" ")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%q • %d items", m.acc.Query(), len(m.acc.Items()))))
	b.WriteString("\n")
	if f := m.fuzzySearch.View(); f != "" {
		b.WriteString("  " + f + "\n")
	}
	b.WriteString("\n")

	items := m.visible()
	if len(m.acc.Items()) == 0 {
		b.WriteString(styles.MetadataStyle.Render(fmt.Sprintf("  No results for %q.", m.acc.Query())))
		b.WriteString("\n")
	}
	rows := (m.height - 10) / 3
	start, end := utils.Window(len(items), m.cursor, rows)
	for i := start; i < end; i++ {
		b.WriteString(common.RenderItem(items[i], i == m.cursor, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.acc.Loading():
		b.WriteString(styles.SpinnerStyle.Render("  Loading more..."))
	case m.acc.HasMore():
		b.WriteString(styles.MetadataStyle.Render("  m load more"))
	case len(m.acc.Items()) > 0:
		b.WriteString(styles.DisabledStyle.Render("  End of results"))
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("  ↑/↓ move • enter open • y copy link • / filter • esc back"))
	return b.String()
}
