package help

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func keys(shortcuts []Shortcut) []string {
	return lo.Map(shortcuts, func(sc Shortcut, _ int) string { return sc.Key })
}

func TestShortcutsPerContext(t *testing.T) {
	m := New()

	global, local := m.Shortcuts()
	assert.Contains(t, keys(global), "esc")
	assert.Empty(t, local)

	m.SetContext(ResultsContext)
	_, local = m.Shortcuts()
	assert.Contains(t, keys(local), "m")
	assert.NotContains(t, keys(local), "n / p")

	m.SetContext(HomeContext)
	_, local = m.Shortcuts()
	assert.Contains(t, keys(local), "n / p")
}

func TestHelpView(t *testing.T) {
	m := New()
	assert.Empty(t, m.View(), "hidden by default")

	m.SetSize(100, 40)
	m.SetContext(ScheduleContext)
	m.Toggle()
	view := m.View()

	assert.Contains(t, view, "KEYBOARD SHORTCUTS")
	assert.Contains(t, view, "Schedule Actions")
	assert.Contains(t, view, "Previous / next day")

	m.Toggle()
	assert.Empty(t, m.View())
}
