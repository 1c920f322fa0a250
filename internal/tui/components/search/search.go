package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mizunime/mizunime/internal/browse"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/styles"
	"github.com/mizunime/mizunime/internal/tui/utils"
)

// Model is the search box with debounced suggestions underneath
type Model struct {
	textInput textinput.Model
	suggest   *browse.Suggest
	catalog   common.Catalog
	cursor    int // -1 while the input itself is selected
	width     int
	height    int

	Now   func() time.Time
	After common.After
}

func New(cat common.Catalog, logger *slog.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Cari anime..."
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Width = 60

	// Oxocarbon styling: clean look with purple accent
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)
	ti.Focus()

	return &Model{
		textInput: ti,
		suggest:   browse.NewSuggest(logger),
		catalog:   cat,
		cursor:    -1,
		Now:       time.Now,
		After:     common.TeaAfter,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus is called when the view is entered; earlier suggestions come back
func (m *Model) Focus() tea.Cmd {
	m.suggest.Reopen()
	return m.textInput.Focus()
}

// Suggest exposes the controller
func (m *Model) Suggest() *browse.Suggest { return m.suggest }

// Cursor returns the highlighted suggestion, -1 for none
func (m *Model) Cursor() int { return m.cursor }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 20 {
		m.textInput.Width = width - 20
	}
}

// SetQuery replaces the input value as if it had been typed
func (m *Model) SetQuery(q string) tea.Cmd {
	m.textInput.SetValue(q)
	return m.queryChanged(q)
}

// GetValue returns the raw input value
func (m *Model) GetValue() string {
	return m.textInput.Value()
}

func (m *Model) queryChanged(q string) tea.Cmd {
	if q == m.suggest.Query() {
		return nil
	}
	m.cursor = -1
	tick := m.suggest.Input(q, m.Now())
	return m.After(browse.DebounceDelay, common.SuggestTickMsg{Tick: tick})
}

func (m *Model) lookup(req browse.SuggestRequest) tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		res, err := cat.Search(context.Background(), req.Query, 1)
		return common.SuggestResultMsg{Req: req, Result: res, Err: err}
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case common.SuggestTickMsg:
		if req, ok := m.suggest.Fire(msg.Tick); ok {
			return m.lookup(req)
		}
		return nil

	case common.SuggestResultMsg:
		if m.suggest.Resolve(msg.Req, msg.Result, msg.Err) {
			m.cursor = -1
		}
		return nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return cmd
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return tea.Batch(cmd, m.queryChanged(m.textInput.Value()))
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	results := m.suggest.Results()
	switch msg.String() {
	case "enter":
		if m.suggest.Open() && m.cursor >= 0 && m.cursor < len(results) {
			item := results[m.cursor]
			m.suggest.Dismiss()
			m.cursor = -1
			return common.Emit(common.OpenItemMsg{Title: item.DisplayTitle(), Path: item.SeriesHref()}), true
		}
		if _, ok := m.suggest.Submit(); ok {
			m.cursor = -1
			return common.Emit(common.PerformSearchMsg{Query: strings.TrimSpace(m.textInput.Value())}), true
		}
		return nil, true
	case "esc":
		if m.suggest.Open() {
			m.suggest.Dismiss()
			m.cursor = -1
			return nil, true
		}
		return common.Emit(common.BackMsg{}), true
	case "down", "tab", "ctrl+n":
		if m.suggest.Open() && m.cursor < len(results)-1 {
			m.cursor++
		}
		return nil, true
	case "up", "shift+tab", "ctrl+p":
		if m.cursor >= 0 {
			m.cursor--
		}
		return nil, true
	case "ctrl+l":
		m.textInput.SetValue("")
		m.suggest.Clear()
		m.cursor = -1
		return nil, true
	}
	return nil, false
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  SEARCH  "))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("  Find your next watch"))
	b.WriteString("\n\n")
	b.WriteString(styles.SelectedItemStyle.Render(m.textInput.View()))
	b.WriteString("\n")

	switch {
	case m.suggest.Loading():
		b.WriteString(styles.SpinnerStyle.Render("  Searching..."))
		b.WriteString("\n")
	case m.suggest.Open():
		width := m.width - 12
		for i, item := range m.suggest.Results() {
			title := utils.TruncateWithWidth(item.DisplayTitle(), width-12)
			row := utils.PadRight(title, width-12) + " " + styles.BadgeStyle.Render(item.EpisodeLabel())
			if i == m.cursor {
				b.WriteString(styles.SelectedItemStyle.Render(styles.SelectedTitleStyle.Render(row)))
			} else {
				b.WriteString(styles.ItemStyle.Render(styles.ItemTitleStyle.Render(row)))
			}
			b.WriteString("\n")
		}
		all := fmt.Sprintf("  enter: all results for %q", strings.TrimSpace(m.suggest.Query()))
		b.WriteString(styles.MetadataStyle.Render(all))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("  enter search • ↑/↓ pick suggestion • ctrl+l clear • esc back"))
	return b.String()
}
