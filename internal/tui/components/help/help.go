package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/mizunime/mizunime/internal/tui/styles"
)

// Context is the view the help panel is opened from
type Context int

const (
	GlobalContext Context = iota
	HomeContext
	SearchContext
	ResultsContext
	ScheduleContext
)

// Shortcut is a key binding and where it applies
type Shortcut struct {
	Key         string
	Description string
	Contexts    []Context
}

var allShortcuts = []Shortcut{
	{Key: "↑/↓ or j/k", Description: "Move", Contexts: []Context{GlobalContext}},
	{Key: "enter", Description: "Open on the site", Contexts: []Context{GlobalContext}},
	{Key: "y", Description: "Copy link", Contexts: []Context{GlobalContext}},
	{Key: "esc", Description: "Go back", Contexts: []Context{GlobalContext}},
	{Key: "?", Description: "Show/hide this help", Contexts: []Context{GlobalContext}},
	{Key: "ctrl+c", Description: "Quit", Contexts: []Context{GlobalContext}},

	{Key: "s or /", Description: "Search", Contexts: []Context{HomeContext, ScheduleContext}},
	{Key: "c", Description: "Release schedule", Contexts: []Context{HomeContext}},
	{Key: "n / p", Description: "Next / previous page", Contexts: []Context{HomeContext}},
	{Key: "r", Description: "Reload", Contexts: []Context{HomeContext, ScheduleContext}},
	{Key: "q", Description: "Quit", Contexts: []Context{HomeContext, ScheduleContext, ResultsContext}},

	{Key: "↑/↓", Description: "Pick a suggestion", Contexts: []Context{SearchContext}},
	{Key: "ctrl+l", Description: "Clear the query", Contexts: []Context{SearchContext}},

	{Key: "/", Description: "Filter loaded results", Contexts: []Context{ResultsContext}},
	{Key: "m", Description: "Load more", Contexts: []Context{ResultsContext}},
	{Key: "G", Description: "Jump to the end", Contexts: []Context{ResultsContext}},

	{Key: "←/→ or h/l", Description: "Previous / next day", Contexts: []Context{ScheduleContext}},
}

var contextNames = map[Context]string{
	HomeContext:     "Home",
	SearchContext:   "Search",
	ResultsContext:  "Results",
	ScheduleContext: "Schedule",
}

// Model is the keyboard shortcut overlay
type Model struct {
	context Context
	width   int
	height  int
	visible bool
}

func New() Model {
	return Model{context: GlobalContext}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetContext(ctx Context) { m.context = ctx }

func (m *Model) Toggle() { m.visible = !m.visible }

func (m *Model) Hide() { m.visible = false }

func (m Model) IsVisible() bool { return m.visible }

// Shortcuts returns the global bindings and the ones for the current view
func (m Model) Shortcuts() (global, local []Shortcut) {
	global = lo.Filter(allShortcuts, func(sc Shortcut, _ int) bool {
		return lo.Contains(sc.Contexts, GlobalContext)
	})
	local = lo.Filter(allShortcuts, func(sc Shortcut, _ int) bool {
		return m.context != GlobalContext && lo.Contains(sc.Contexts, m.context)
	})
	return global, local
}

func (m Model) View() string {
	if !m.visible || m.width == 0 || m.height == 0 {
		return ""
	}

	global, local := m.Shortcuts()
	var content strings.Builder
	content.WriteString(styles.SubtitleStyle.Render("Navigation & General"))
	content.WriteString("\n")
	for _, sc := range global {
		content.WriteString(renderShortcut(sc) + "\n")
	}
	if len(local) > 0 {
		content.WriteString("\n")
		content.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%s Actions", contextNames[m.context])))
		content.WriteString("\n")
		for _, sc := range local {
			content.WriteString(renderShortcut(sc) + "\n")
		}
	}

	boxWidth := 56
	if m.width < boxWidth+4 {
		boxWidth = max(m.width-4, 30)
	}
	title := styles.TitleStyle.
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render("KEYBOARD SHORTCUTS")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OxocarbonPurple).
		Padding(0, 2).
		Width(boxWidth).
		Render(title + "\n\n" + content.String())

	if lipgloss.Height(box) >= m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderShortcut(sc Shortcut) string {
	key := lipgloss.NewStyle().Foreground(styles.OxocarbonPurple).Bold(true).Width(14).Render(sc.Key)
	return "  " + key + styles.MetadataStyle.Render(sc.Description)
}
