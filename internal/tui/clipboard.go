package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizunime/mizunime/internal/tui/common"
)

// link turns a site path into an absolute URL on the public frontend
func (a *App) link(path string) string {
	return strings.TrimRight(a.cfg.Web.PublicURL, "/") + path
}

// openItem opens the item's page in the browser, or copies the link when
// opening is disabled
func (a *App) openItem(msg common.OpenItemMsg) tea.Cmd {
	if !a.cfg.TUI.OpenInBrowser {
		return a.copyLink(msg.Title, msg.Path)
	}
	url := a.link(msg.Path)
	open := a.openURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return common.StatusMsg{Text: "Could not open the browser", Err: err}
		}
		return common.StatusMsg{Text: "Opened " + msg.Title}
	}
}

// copyLink copies the item's URL to the clipboard
func (a *App) copyLink(title, path string) tea.Cmd {
	url := a.link(path)
	write := a.copyText
	return func() tea.Msg {
		if err := write(context.Background(), url); err != nil {
			return common.StatusMsg{Text: "Could not copy the link", Err: err}
		}
		return common.StatusMsg{Text: "📋 " + title + " copied to clipboard"}
	}
}
