package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/burrow/pkg/insights"
)

// InsightsOverlay renders vault statistics as a centered modal: counts,
// the notes-per-folder distribution, and the largest folders with
// mini-bars scaled against the biggest subtree.
type InsightsOverlay struct {
	stats     insights.Stats
	vaultName string
	theme     Theme
	width     int
	height    int
}

// NewInsightsOverlay creates an empty overlay; call SetStats before View.
func NewInsightsOverlay(theme Theme) InsightsOverlay {
	return InsightsOverlay{theme: theme}
}

// SetStats installs freshly computed statistics.
func (m *InsightsOverlay) SetStats(stats insights.Stats, vaultName string) {
	m.stats = stats
	m.vaultName = vaultName
}

// SetSize updates the overlay dimensions
func (m *InsightsOverlay) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the insights modal
func (m *InsightsOverlay) View() string {
	if m.width == 0 {
		m.width = 80
	}
	if m.height == 0 {
		m.height = 24
	}

	t := m.theme

	boxWidth := 56
	if m.width < 66 {
		boxWidth = m.width - 10
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	innerWidth := boxWidth - 6

	var lines []string

	// Title
	title := "Vault insights"
	if m.vaultName != "" {
		title += "  " + t.MutedText.Render(m.vaultName)
	}
	lines = append(lines, t.PrimaryBold.Render(title))
	lines = append(lines, RenderDivider(innerWidth))

	// Counts row
	s := m.stats
	lines = append(lines, fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		t.FolderText.Render("folders"), t.Base.Render(itoa(s.Folders)),
		t.NoteText.Render("notes"), t.Base.Render(itoa(s.Notes)),
		t.MutedText.Render("attachments"), t.Base.Render(itoa(s.Attachments)),
		t.MutedText.Render("depth"), t.Base.Render(itoa(s.MaxDepth)),
	))
	lines = append(lines, "")

	// Notes-per-folder distribution
	d := s.NotesPerFolder
	lines = append(lines, t.PrimaryBold.Render("Notes per folder"))
	lines = append(lines, t.MutedText.Render(
		fmt.Sprintf("mean %.1f · median %.0f · p90 %.0f", d.Mean, d.Median, d.P90)))
	lines = append(lines, "")

	// Largest folders with bars scaled to the biggest one
	lines = append(lines, t.PrimaryBold.Render("Largest folders"))
	if len(s.Largest) == 0 {
		lines = append(lines, t.MutedText.Render("  no folders"))
	} else {
		maxNotes := s.Largest[0].Notes
		if maxNotes < 1 {
			maxNotes = 1
		}
		barWidth := 14
		nameWidth := innerWidth - barWidth - 8
		if nameWidth < 10 {
			nameWidth = 10
		}
		for _, f := range s.Largest {
			name := truncateRunesHelper(f.Path, nameWidth, "…")
			bar := RenderMiniBar(float64(f.Notes)/float64(maxNotes), barWidth, t)
			lines = append(lines, fmt.Sprintf("%s %s %s",
				padRight(name, nameWidth), bar, t.MutedText.Render(itoa(f.Notes))))
		}
	}

	// Footer
	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("i/esc: close"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
