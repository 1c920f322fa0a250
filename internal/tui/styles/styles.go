package styles

import "github.com/charmbracelet/lipgloss"

// Oxocarbon color scheme, following the base16 oxocarbon-dark palette
var (
	OxocarbonBlack  = lipgloss.Color("#161616")
	OxocarbonBase01 = lipgloss.Color("#393939") // borders
	OxocarbonBase02 = lipgloss.Color("#525252")
	OxocarbonBase03 = lipgloss.Color("#767676") // muted
	OxocarbonBase04 = lipgloss.Color("#dde1e6")
	OxocarbonBase05 = lipgloss.Color("#f2f4f8") // primary foreground
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	OxocarbonTeal   = lipgloss.Color("#3ddbd9")
	OxocarbonPink   = lipgloss.Color("#ee5396")
	OxocarbonRed    = lipgloss.Color("#ff5252")
	OxocarbonCyan   = lipgloss.Color("#33b1ff")
	OxocarbonGreen  = lipgloss.Color("#42be65")
	OxocarbonPurple = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve  = lipgloss.Color("#d1aaff")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	// Navigation tabs in the header
	TabStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBlack).
			Background(OxocarbonTeal).
			Padding(0, 1).
			Bold(true)

	// List item with a left border (mangal style)
	ItemStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(OxocarbonBase02).
			BorderLeft(true).
			PaddingLeft(2).
			MarginLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(OxocarbonPurple).
				BorderLeft(true).
				PaddingLeft(2).
				MarginLeft(2)

	ItemTitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Bold(true)

	SelectedTitleStyle = lipgloss.NewStyle().
				Foreground(OxocarbonPurple).
				Bold(true)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04)

	// Episode badge, mirrors the card badge on the site
	BadgeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBlack).
			Background(OxocarbonCyan).
			Padding(0, 1)

	TodayBadgeStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBlack).
			Background(OxocarbonGreen).
			Padding(0, 1).
			Bold(true)

	DayHeaderStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase02)

	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03).
			MarginTop(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(OxocarbonGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(OxocarbonRed).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(OxocarbonPink)
)
