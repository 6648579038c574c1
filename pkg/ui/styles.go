package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme selects how adaptive colors resolve
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ANSI palette indices so output follows the user's terminal scheme
var (
	colorGreen   = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorRed     = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorMagenta = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorCyan    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorGray    = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	colorYellow  = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	colorBlue    = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleInfo    lipgloss.Style
	StylePrimary lipgloss.Style
	StyleAccent  lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleTitle   lipgloss.Style
	StyleHeader  lipgloss.Style

	styleRule lipgloss.Style
)

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconRocket  = "🚀"
	IconModel   = "◆"
)

func init() {
	SetTheme(ThemeAuto)
}

// SetTheme forces a light or dark background, or leaves detection to
// lipgloss, and rebuilds the styles
func SetTheme(theme Theme) {
	switch theme {
	case ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	StyleSuccess = fg(colorGreen).Bold(true)
	StyleError = fg(colorRed).Bold(true)
	StyleWarning = fg(colorYellow).Bold(true)
	StyleInfo = fg(colorCyan)
	StylePrimary = fg(colorMagenta).Bold(true)
	StyleAccent = fg(colorBlue)
	StyleMuted = fg(colorGray)
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary
	styleRule = StyleMuted
}

func withIcon(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

func FormatSuccess(msg string) string { return withIcon(StyleSuccess, IconSuccess, msg) }
func FormatError(msg string) string   { return withIcon(StyleError, IconError, msg) }
func FormatWarning(msg string) string { return withIcon(StyleWarning, IconWarning, msg) }
func FormatInfo(msg string) string    { return withIcon(StyleInfo, IconInfo, msg) }
func FormatRocket(msg string) string  { return withIcon(StylePrimary, IconRocket, msg) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }
func FormatMuted(text string) string  { return StyleMuted.Render(text) }

// FormatModel renders a model heading: "◆ 8020-1010  medium"
func FormatModel(id, detail string) string {
	return withIcon(StylePrimary, IconModel, id) + "  " + StyleMuted.Render(detail)
}

// FormatBytes renders n with a binary unit: "1.5 KiB"
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	for _, unit := range []string{"KiB", "MiB", "GiB", "TiB"} {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.1f PiB", value/1024)
}

// FormatDuration rounds d to a precision that fits its magnitude
func FormatDuration(d time.Duration) string {
	precision := time.Millisecond
	if d >= time.Minute {
		precision = time.Second
	} else if d >= time.Second {
		precision = 100 * time.Millisecond
	}
	return d.Round(precision).String()
}
