package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// maxPreviewBytes caps how much of a note the preview loads. Anything
// larger renders truncated with a marker line.
const maxPreviewBytes = 256 * 1024

// MarkdownRenderer wraps a glamour renderer at a fixed wrap width.
// Glamour renderers bake the width in, so SetWidth rebuilds.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
}

// NewMarkdownRenderer returns a renderer wrapping at width cells.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		tr = nil
	}
	return &MarkdownRenderer{tr: tr, width: width}
}

// SetWidth rebuilds the underlying renderer when the wrap width changes.
func (r *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if r.width == width && r.tr != nil {
		return
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	r.tr = tr
	r.width = width
}

// Render renders markdown, falling back to the raw text when the
// terminal renderer is unavailable or errors.
func (r *MarkdownRenderer) Render(md string) string {
	if r == nil || r.tr == nil {
		return md
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return out
}

// PreviewModel is the right-hand pane: the selected note rendered as
// markdown inside a scrollable viewport.
type PreviewModel struct {
	viewport viewport.Model
	renderer *MarkdownRenderer
	theme    Theme

	path    string // Vault-relative path of the loaded note
	name    string
	modTime time.Time
	loadErr error
	loaded  bool
}

// NewPreviewModel returns an empty preview pane.
func NewPreviewModel(theme Theme) PreviewModel {
	vp := viewport.New(60, 20)
	return PreviewModel{
		viewport: vp,
		renderer: NewMarkdownRenderer(60),
		theme:    theme,
	}
}

// SetSize updates pane dimensions; the header line is carved out of the
// given height.
func (p *PreviewModel) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	bodyHeight := height - 2 // header + divider
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	p.viewport.Width = width
	p.viewport.Height = bodyHeight
	p.renderer.SetWidth(width - 2)
}

// ShowNote loads the note behind node from the vault directory and
// renders it into the viewport. Non-note selections clear the pane.
func (p *PreviewModel) ShowNote(vaultDir string, node *vault.Node) {
	if node == nil || node.Dir || !node.IsNote() {
		p.Clear()
		return
	}
	if p.loaded && p.path == node.Path {
		return
	}

	p.path = node.Path
	p.name = node.Name
	p.modTime = node.ModTime
	p.loadErr = nil
	p.loaded = true

	abs := filepath.Join(vaultDir, filepath.FromSlash(strings.TrimPrefix(node.Path, "/")))
	data, err := os.ReadFile(abs)
	if err != nil {
		p.loadErr = err
		p.viewport.SetContent(p.theme.WarningText.Render(fmt.Sprintf("could not read note: %v", err)))
		p.viewport.GotoTop()
		return
	}

	truncated := false
	if len(data) > maxPreviewBytes {
		data = data[:maxPreviewBytes]
		truncated = true
	}

	content := p.renderer.Render(string(data))
	if truncated {
		content += "\n" + p.theme.MutedText.Render("… preview truncated …")
	}
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

// Clear empties the pane.
func (p *PreviewModel) Clear() {
	p.path = ""
	p.name = ""
	p.loaded = false
	p.loadErr = nil
	p.viewport.SetContent("")
}

// Path returns the vault-relative path of the loaded note ("" if none).
func (p *PreviewModel) Path() string {
	return p.path
}

// Reload drops the cache so the next ShowNote re-reads from disk. Call
// after a file change event.
func (p *PreviewModel) Reload() {
	p.loaded = false
}

func (p *PreviewModel) ScrollUp() {
	p.viewport.LineUp(3)
}

func (p *PreviewModel) ScrollDown() {
	p.viewport.LineDown(3)
}

// View renders the header line, a divider, and the note body.
func (p *PreviewModel) View() string {
	if p.path == "" {
		placeholder := p.theme.MutedText.Render("Select a note to preview it here.")
		return placeholder
	}

	header := p.theme.PrimaryBold.Render(p.name)
	if !p.modTime.IsZero() {
		header += "  " + p.theme.MutedText.Render(FormatTimeRel(p.modTime))
	}

	return strings.Join([]string{
		header,
		RenderDivider(p.viewport.Width),
		p.viewport.View(),
	}, "\n")
}
