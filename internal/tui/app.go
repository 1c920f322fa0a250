package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mizunime/mizunime/internal/config"
	"github.com/mizunime/mizunime/internal/tui/common"
)

// Start runs the terminal browser until the user quits
func Start(cat common.Catalog, cfg *config.Config, logger *slog.Logger) error {
	p := tea.NewProgram(NewApp(cat, cfg, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
