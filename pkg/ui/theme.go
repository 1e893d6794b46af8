package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Node kinds
	Folder     lipgloss.AdaptiveColor
	Note       lipgloss.AdaptiveColor
	Attachment lipgloss.AdaptiveColor

	// Focus overlay
	FocusRing lipgloss.AdaptiveColor // Focused folder row
	Trail     lipgloss.AdaptiveColor // Title-hidden ancestor stubs
	Warning   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles (bur-o2w optimization)
	// These are created once at startup instead of per-frame
	MutedText   lipgloss.Style // Counts, ages, scroll indicator
	FolderText  lipgloss.Style // Folder names
	NoteText    lipgloss.Style // Note names
	FocusedBold lipgloss.Style // Focused folder name
	StubText    lipgloss.Style // Title-hidden ancestor stubs
	PrimaryBold lipgloss.Style // Key hints, selection indicator
	WarningText lipgloss.Style // Status-bar warnings
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		// Dracula / Light Mode equivalent
		// Light mode colors improved for WCAG AA compliance (bur-3cg)
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple (darker for contrast)
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim (~6:1 on white)

		Folder:     lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#8BE9FD"}, // Blue/cyan containers
		Note:       lipgloss.AdaptiveColor{Light: "#222222", Dark: "#F8F8F2"}, // Plain text
		Attachment: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"}, // De-emphasized

		FocusRing: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green ring on the focused folder
		Trail:     lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange breadcrumb stubs
		Warning:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	// Pre-computed row styles (bur-o2w optimization)
	// Reduces per-visible-row NewStyle() allocations per frame
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.FolderText = r.NewStyle().Foreground(t.Folder).Bold(true)
	t.NoteText = r.NewStyle().Foreground(t.Note)
	t.FocusedBold = r.NewStyle().Foreground(t.FocusRing).Bold(true)
	t.StubText = r.NewStyle().Foreground(t.Trail).Faint(true)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.WarningText = r.NewStyle().Foreground(t.Warning).Bold(true)

	return t
}

// FileIcon returns the row glyph and its color for a file node. Folders
// carry no icon of their own; the expand indicator marks them.
func (t Theme) FileIcon(note bool) (string, lipgloss.AdaptiveColor) {
	if note {
		return "·", t.Note
	}
	return "◦", t.Attachment
}

// TestTheme returns a theme suitable for use in tests (uses nil renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
