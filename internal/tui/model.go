// Package tui is the terminal browser: the latest releases feed, search with
// live suggestions, infinite results and the weekly schedule.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/mizunime/mizunime/internal/clipboard"
	"github.com/mizunime/mizunime/internal/config"
	"github.com/mizunime/mizunime/internal/tui/common"
	"github.com/mizunime/mizunime/internal/tui/components/help"
	"github.com/mizunime/mizunime/internal/tui/components/home"
	"github.com/mizunime/mizunime/internal/tui/components/results"
	"github.com/mizunime/mizunime/internal/tui/components/schedule"
	"github.com/mizunime/mizunime/internal/tui/components/search"
	"github.com/mizunime/mizunime/internal/tui/styles"
)

type sessionState int

const (
	homeView sessionState = iota
	searchView
	resultsView
	scheduleView
)

const statusTimeout = 3 * time.Second

// clearStatusMsg clears the status line unless a newer status replaced it
type clearStatusMsg struct {
	id int
}

// App is the root bubbletea model
type App struct {
	cfg     *config.Config
	catalog common.Catalog
	logger  *slog.Logger

	state    sessionState
	previous sessionState

	home     *home.Model
	search   *search.Model
	results  *results.Model
	schedule *schedule.Model
	help     help.Model
	spinner  spinner.Model

	// query whose first page is in flight
	searching string

	statusMsg string
	statusErr bool
	statusID  int

	width  int
	height int

	openURL  func(url string) error
	copyText func(ctx context.Context, text string) error
}

func NewApp(cat common.Catalog, cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("invalid schedule timezone, using local time", "timezone", cfg.Schedule.Timezone, "error", err)
		loc = time.Local
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	clip := clipboard.NewService(cfg.TUI.ClipboardCommand, logger)
	return &App{
		cfg:      cfg,
		catalog:  cat,
		logger:   logger,
		state:    homeView,
		home:     home.New(cat, logger),
		search:   search.New(cat, logger),
		results:  results.New(cat, logger),
		schedule: schedule.New(cat, loc, logger),
		help:     help.New(),
		spinner:  s,
		openURL:  browser.OpenURL,
		copyText: clip.Write,
	}
}

func (a *App) Init() tea.Cmd {
	a.updateHelpContext()
	return tea.Batch(a.home.Init(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		bodyHeight := msg.Height - 4
		a.home.SetSize(msg.Width, bodyHeight)
		a.search.SetSize(msg.Width, bodyHeight)
		a.results.SetSize(msg.Width, bodyHeight)
		a.schedule.SetSize(msg.Width, bodyHeight)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case common.GoToHomeMsg:
		return a.handleGoToHomeMsg()
	case common.GoToSearchMsg:
		return a.handleGoToSearchMsg()
	case common.GoToScheduleMsg:
		return a.handleGoToScheduleMsg()
	case common.BackMsg:
		return a.handleBackMsg()

	case common.PerformSearchMsg:
		return a.handlePerformSearch(msg)
	case common.SearchResultsMsg:
		return a.handleSearchResults(msg)

	case common.FeedPageMsg:
		return a, a.home.Update(msg)
	case common.SuggestTickMsg, common.SuggestResultMsg:
		return a, a.search.Update(msg)
	case common.SearchPageMsg:
		return a, a.results.Update(msg)
	case common.ScheduleLoadedMsg:
		cmd := a.schedule.Update(msg)
		if msg.Err != nil {
			return a, tea.Batch(cmd, a.setStatus("Could not load the schedule", true))
		}
		return a, cmd

	case common.OpenItemMsg:
		return a, a.openItem(msg)
	case common.CopyLinkMsg:
		return a, a.copyLink(msg.Title, msg.Path)

	case common.StatusMsg:
		if msg.Err != nil {
			a.logger.Error(msg.Text, "error", msg.Err)
		}
		return a, a.setStatus(msg.Text, msg.Err != nil)
	case clearStatusMsg:
		if msg.id == a.statusID {
			a.statusMsg = ""
			a.statusErr = false
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handlePerformSearch(msg common.PerformSearchMsg) (tea.Model, tea.Cmd) {
	q := msg.Query
	a.searching = q
	a.statusMsg = "Searching for \"" + q + "\"..."
	a.statusErr = false
	cat := a.catalog
	return a, func() tea.Msg {
		res, err := cat.Search(context.Background(), q, 1)
		return common.SearchResultsMsg{Query: q, Result: res, Err: err}
	}
}

func (a *App) handleSearchResults(msg common.SearchResultsMsg) (tea.Model, tea.Cmd) {
	if msg.Query != a.searching {
		a.logger.Debug("stale search results dropped", "query", msg.Query)
		return a, nil
	}
	a.searching = ""
	if msg.Err != nil {
		a.logger.Error("search failed", "query", msg.Query, "error", msg.Err)
		return a, a.setStatus("Search failed, try again", true)
	}
	a.statusMsg = ""
	a.results.SetResults(msg.Query, msg.Result)
	a.state = resultsView
	a.updateHelpContext()
	return a, nil
}

// setStatus shows text until statusTimeout passes or another status replaces it
func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.statusID++
	a.statusMsg = text
	a.statusErr = isErr
	id := a.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (a *App) busy() bool {
	return a.searching != "" ||
		a.search.Suggest().Loading() ||
		a.results.Accumulator().Loading() ||
		(a.home.Feed() != nil && a.home.Feed().Loading())
}

func (a *App) View() string {
	if a.help.IsVisible() {
		return a.help.View()
	}

	var body string
	switch a.state {
	case homeView:
		body = a.home.View()
	case searchView:
		body = a.search.View()
	case resultsView:
		body = a.results.View()
	case scheduleView:
		body = a.schedule.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderStatus())
}

func (a *App) renderHeader() string {
	tabs := []struct {
		label string
		state sessionState
	}{
		{"Home", homeView},
		{"Search", searchView},
		{"Schedule", scheduleView},
	}
	active := a.state
	if active == resultsView {
		active = searchView
	}

	parts := []string{styles.TitleStyle.Render(a.cfg.Web.SiteName)}
	for _, tab := range tabs {
		if tab.state == active {
			parts = append(parts, styles.ActiveTabStyle.Render(tab.label))
		} else {
			parts = append(parts, styles.TabStyle.Render(tab.label))
		}
	}
	if a.busy() {
		parts = append(parts, a.spinner.View())
	}
	return strings.Join(parts, " ")
}

func (a *App) renderStatus() string {
	if a.statusMsg == "" {
		return styles.HelpStyle.Render("? help • q quit")
	}
	if a.statusErr {
		return styles.ErrorStyle.Render(a.statusMsg)
	}
	return styles.StatusStyle.Render(a.statusMsg)
}

func (a *App) updateHelpContext() {
	switch a.state {
	case homeView:
		a.help.SetContext(help.HomeContext)
	case searchView:
		a.help.SetContext(help.SearchContext)
	case resultsView:
		a.help.SetContext(help.ResultsContext)
	case scheduleView:
		a.help.SetContext(help.ScheduleContext)
	}
}
