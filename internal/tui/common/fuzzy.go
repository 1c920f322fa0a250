package common

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mizunime/mizunime/internal/tui/styles"
)

// FuzzySearch filters an already loaded list in place
type FuzzySearch struct {
	input  textinput.Model
	active bool
	locked bool // filter applied but not editable, so list keys work again
	query  string
}

// NewFuzzySearch creates an inactive filter
func NewFuzzySearch() *FuzzySearch {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.TextStyle = styles.MetadataStyle
	ti.PlaceholderStyle = styles.DisabledStyle
	return &FuzzySearch{input: ti}
}

// Activate starts editing an empty filter
func (f *FuzzySearch) Activate() tea.Cmd {
	f.active = true
	f.locked = false
	f.SetQuery("")
	f.input.Focus()
	return textinput.Blink
}

// Deactivate clears the filter
func (f *FuzzySearch) Deactivate() {
	f.active = false
	f.locked = false
	f.input.Blur()
	f.SetQuery("")
}

// Lock stops editing but keeps the filter applied
func (f *FuzzySearch) Lock() {
	if f.active {
		f.locked = true
		f.input.Blur()
	}
}

func (f *FuzzySearch) IsActive() bool { return f.active }

func (f *FuzzySearch) IsLocked() bool { return f.locked }

// Editing reports whether keystrokes belong to the filter input
func (f *FuzzySearch) Editing() bool { return f.active && !f.locked }

func (f *FuzzySearch) Query() string { return f.query }

// SetQuery replaces the filter text
func (f *FuzzySearch) SetQuery(q string) {
	f.input.SetValue(q)
	f.query = q
}

// Update feeds a key to the input while editing
func (f *FuzzySearch) Update(msg tea.Msg) tea.Cmd {
	if !f.Editing() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.query = f.input.Value()
	return cmd
}

// View renders the filter line, empty when inactive
func (f *FuzzySearch) View() string {
	if !f.active {
		return ""
	}
	label := styles.MetadataStyle.Render("Filter: ")
	bar := styles.SelectedTitleStyle.Render("┃")
	if f.locked {
		hint := styles.DisabledStyle.Render(" (/ to edit • esc to clear)")
		return label + bar + " " + styles.ItemTitleStyle.Render(f.query) + hint
	}
	return label + bar + " " + f.input.View() + styles.DisabledStyle.Render(" (enter to apply)")
}

// SetWidth sizes the input to the terminal
func (f *FuzzySearch) SetWidth(width int) {
	if width > 30 {
		f.input.Width = width - 20
	}
}

// Filter returns the indices of candidates matching the query, best match
// first. Every index is returned while the filter is inactive or empty.
func (f *FuzzySearch) Filter(candidates []string) []int {
	if !f.active || f.query == "" {
		indices := make([]int, len(candidates))
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	matches := fuzzy.Find(f.query, candidates)
	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	return indices
}
