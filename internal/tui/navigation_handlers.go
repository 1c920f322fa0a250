package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) switchTo(state sessionState) {
	if a.state != searchView && a.state != resultsView {
		a.previous = a.state
	}
	a.state = state
	a.updateHelpContext()
}

func (a *App) handleGoToHomeMsg() (tea.Model, tea.Cmd) {
	a.switchTo(homeView)
	if a.home.Feed() == nil {
		return a, a.home.Reload()
	}
	return a, nil
}

func (a *App) handleGoToSearchMsg() (tea.Model, tea.Cmd) {
	a.switchTo(searchView)
	return a, a.search.Focus()
}

func (a *App) handleGoToScheduleMsg() (tea.Model, tea.Cmd) {
	a.switchTo(scheduleView)
	return a, a.schedule.Load()
}

func (a *App) handleBackMsg() (tea.Model, tea.Cmd) {
	switch a.state {
	case resultsView:
		a.state = searchView
		a.updateHelpContext()
		return a, a.search.Focus()
	case searchView:
		a.state = a.previous
	default:
		a.state = homeView
	}
	a.updateHelpContext()
	return a, nil
}
