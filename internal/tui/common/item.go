package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/tui/styles"
	"github.com/mizunime/mizunime/internal/tui/utils"
)

// RenderItem draws one catalog entry as a two-line list row
func RenderItem(item catalog.AnimeItem, selected bool, width int) string {
	titleWidth := width - 8
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := utils.TruncateWithWidth(item.Title, titleWidth)
	meta := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.BadgeStyle.Render(item.EpisodeLabel()),
		" ",
		styles.MetadataStyle.Render(item.TypeLabel()),
	)

	if selected {
		return styles.SelectedItemStyle.Render(styles.SelectedTitleStyle.Render(title) + "\n" + meta)
	}
	return styles.ItemStyle.Render(styles.ItemTitleStyle.Render(title) + "\n" + meta)
}
