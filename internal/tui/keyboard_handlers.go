package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizunime/mizunime/internal/tui/common"
)

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.help.IsVisible() {
		if key == "?" || key == "esc" || key == "q" {
			a.help.Hide()
		}
		return a, nil
	}

	// while typing every key belongs to the input
	if a.state == searchView || (a.state == resultsView && a.results.IsInputActive()) {
		return a.delegateKey(msg)
	}

	switch key {
	case "?":
		a.help.Toggle()
		return a, nil
	case "q":
		return a, tea.Quit
	}

	switch a.state {
	case homeView:
		switch key {
		case "s", "/":
			return a.handleGoToSearchMsg()
		case "c":
			return a.handleGoToScheduleMsg()
		}
	case scheduleView:
		switch key {
		case "s", "/":
			return a.handleGoToSearchMsg()
		case "esc":
			return a, common.Emit(common.BackMsg{})
		}
	}
	return a.delegateKey(msg)
}

func (a *App) delegateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case homeView:
		return a, a.home.Update(msg)
	case searchView:
		return a, a.search.Update(msg)
	case resultsView:
		return a, a.results.Update(msg)
	case scheduleView:
		return a, a.schedule.Update(msg)
	}
	return a, nil
}
