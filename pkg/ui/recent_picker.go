package ui

import (
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// RecentPickerModel is a fuzzy-search popup over recently focused
// folders. Paths arrive most recent first from the focus journal and
// keep that order until a query re-ranks them by match score.
type RecentPickerModel struct {
	allPaths      []string
	filtered      []string
	input         textinput.Model
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewRecentPickerModel creates a picker over paths (most recent first).
func NewRecentPickerModel(paths []string, theme Theme) RecentPickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 100
	ti.Width = 30
	ti.Focus()

	all := make([]string, len(paths))
	copy(all, paths)

	return RecentPickerModel{
		allPaths:      all,
		filtered:      all,
		input:         ti,
		selectedIndex: 0,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions
func (m *RecentPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetPaths replaces the path list (most recent first).
func (m *RecentPickerModel) SetPaths(paths []string) {
	all := make([]string, len(paths))
	copy(all, paths)
	m.allPaths = all
	m.filterPaths()
}

// MoveUp moves selection up
func (m *RecentPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *RecentPickerModel) MoveDown() {
	if m.selectedIndex < len(m.filtered)-1 {
		m.selectedIndex++
	}
}

// SelectedPath returns the currently selected path
func (m *RecentPickerModel) SelectedPath() string {
	if len(m.filtered) == 0 || m.selectedIndex >= len(m.filtered) {
		return ""
	}
	return m.filtered[m.selectedIndex]
}

// UpdateInput processes a key message for the text input
func (m *RecentPickerModel) UpdateInput(msg interface{}) {
	m.input, _ = m.input.Update(msg)
	m.filterPaths()
}

// Reset clears the input and resets selection
func (m *RecentPickerModel) Reset() {
	m.input.SetValue("")
	m.filterPaths()
}

// filterPaths filters by the current input using fuzzy matching. An
// empty query keeps recency order; a query re-ranks by score.
func (m *RecentPickerModel) filterPaths() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		m.filtered = m.allPaths
		m.selectedIndex = 0
		return
	}

	type scored struct {
		path  string
		rank  int // Original recency rank, breaks score ties
		score int
	}

	var matches []scored
	for i, path := range m.allPaths {
		if score := fuzzyScore(path, query); score > 0 {
			matches = append(matches, scored{path, i, score})
		}
	}

	// Sort by score (higher is better), then by recency
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].rank < matches[j].rank
	})

	m.filtered = make([]string, len(matches))
	for i, match := range matches {
		m.filtered[i] = match.path
	}

	// Keep selection in bounds
	if m.selectedIndex >= len(m.filtered) {
		m.selectedIndex = len(m.filtered) - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

// fuzzyScore returns a score for how well query matches s (0 = no match)
// Uses fzf-style scoring: consecutive matches, word boundary bonuses
func fuzzyScore(s, query string) int {
	s = strings.ToLower(s)
	query = strings.ToLower(query)

	// Exact match gets highest score
	if s == query {
		return 1000
	}

	// Prefix match gets high score
	if strings.HasPrefix(s, query) {
		return 500 + len(query)
	}

	// Contains match
	if strings.Contains(s, query) {
		return 200 + len(query)
	}

	// Fuzzy subsequence match
	si, qi := 0, 0
	score := 0
	consecutive := 0
	lastMatchIdx := -1

	for si < len(s) && qi < len(query) {
		if s[si] == query[qi] {
			qi++
			matchScore := 10

			// Bonus for consecutive matches
			if lastMatchIdx == si-1 {
				consecutive++
				matchScore += consecutive * 5
			} else {
				consecutive = 0
			}

			// Bonus for word boundary match
			if si == 0 || !unicode.IsLetter(rune(s[si-1])) {
				matchScore += 15
			}

			score += matchScore
			lastMatchIdx = si
		}
		si++
	}

	// Only count as match if all query chars were found
	if qi == len(query) {
		return score
	}
	return 0
}

// View renders the recent-focus picker overlay
func (m *RecentPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	// Calculate box dimensions
	boxWidth := 44
	if m.width < 54 {
		boxWidth = m.width - 10
	}
	if boxWidth < 25 {
		boxWidth = 25
	}

	maxVisible := 10
	if m.height < 15 {
		maxVisible = m.height - 7
	}
	if maxVisible < 3 {
		maxVisible = 3
	}

	var lines []string

	// Title
	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)
	lines = append(lines, titleStyle.Render("Recent focus"))
	lines = append(lines, "")

	// Search input
	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(boxWidth - 6)
	lines = append(lines, inputStyle.Render(m.input.View()))
	lines = append(lines, "")

	// Path list with scroll
	if len(m.filtered) == 0 {
		dimStyle := t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Italic(true)
		if len(m.allPaths) == 0 {
			lines = append(lines, dimStyle.Render("  Nothing focused yet"))
		} else {
			lines = append(lines, dimStyle.Render("  No matching folders"))
		}
	} else {
		// Calculate visible window
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filtered) {
			end = len(m.filtered)
		}

		for i := start; i < end; i++ {
			path := m.filtered[i]
			isSelected := i == m.selectedIndex

			itemStyle := t.Renderer.NewStyle()
			if isSelected {
				itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
			} else {
				itemStyle = itemStyle.Foreground(t.Base.GetForeground())
			}

			prefix := "  "
			if isSelected {
				prefix = "> "
			}

			displayPath := truncateRunesHelper(path, boxWidth-8, "…")
			lines = append(lines, itemStyle.Render(prefix+displayPath))
		}

		// Show count if scrolling
		if len(m.filtered) > maxVisible {
			countStyle := t.Renderer.NewStyle().
				Foreground(t.Secondary).
				Italic(true)
			lines = append(lines, "")
			lines = append(lines, countStyle.Render(
				"  "+strings.Repeat(" ", boxWidth/2-10)+
					"("+itoa(m.selectedIndex+1)+"/"+itoa(len(m.filtered))+")",
			))
		}
	}

	// Footer with keybindings
	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓: navigate | enter: drill | esc: cancel"))

	content := strings.Join(lines, "\n")

	// Box style
	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(content)

	// Center in viewport
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

// InputValue returns the current input value
func (m *RecentPickerModel) InputValue() string {
	return m.input.Value()
}

// FilteredCount returns the number of filtered paths
func (m *RecentPickerModel) FilteredCount() int {
	return len(m.filtered)
}

// itoa is a simple int to string helper
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
