package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"

	// badge fills, the tone colors at low intensity
	colorGreenDim  lipgloss.Color = "#2b3d2d"
	colorRedDim    lipgloss.Color = "#45262f"
	colorYellowDim lipgloss.Color = "#443d2a"
)

const (
	colorAccent = colorBlue
	colorMuted  = colorSubtext0
)

// Tone is the semantic color of a cell.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGreen
	ToneRed
	ToneYellow
)

func (t Tone) color() lipgloss.Color {
	switch t {
	case ToneGreen:
		return colorGreen
	case ToneRed:
		return colorRed
	case ToneYellow:
		return colorYellow
	default:
		return colorText
	}
}

func (t Tone) fill() lipgloss.Color {
	switch t {
	case ToneGreen:
		return colorGreenDim
	case ToneRed:
		return colorRedDim
	case ToneYellow:
		return colorYellowDim
	default:
		return colorSurface0
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOverlay0)
	cursorStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	barStyle    = lipgloss.NewStyle().Background(colorMantle).Foreground(colorText).Padding(0, 1)
)

func toneStyle(t Tone) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.color())
}

func badgeStyle(t Tone) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.color()).
		Background(t.fill()).
		Bold(true).
		Padding(0, 1)
}
