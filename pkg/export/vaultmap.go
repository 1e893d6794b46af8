// Package export renders a static map of the vault tree for sharing or
// embedding. The map is an icicle chart: one row per depth level, one
// segment per folder, segment width proportional to subtree note count,
// with the focused branch highlighted.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/metrics"
	"github.com/vanderheijden86/burrow/pkg/vault"
)

// MapOptions controls vault map export behaviour.
type MapOptions struct {
	Path   string      // Output path; format inferred from extension when Format empty
	Format string      // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string      // Optional title rendered in summary block
	Root   *vault.Node // Scanned vault tree
	Focus  string      // Focus path; segments on the focused branch are highlighted
}

// SaveVaultMap renders the vault tree as an icicle chart (SVG or PNG).
func SaveVaultMap(opts MapOptions) error {
	defer metrics.Timer(metrics.MapExport)()

	if opts.Root == nil {
		return fmt.Errorf("no vault tree to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch ext := strings.ToLower(filepath.Ext(opts.Path)); ext {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case "":
			format = "svg"
			if opts.Path != "" {
				opts.Path = opts.Path + ".svg"
			}
		default:
			format = strings.TrimPrefix(ext, ".")
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildIcicle(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type segment struct {
	Path  string
	Name  string
	Depth int
	Notes int // notes anywhere under this folder
	X, W  float64
	Rel   focus.Relation
}

type mapLayout struct {
	Segments []segment
	Width    int
	Height   int
	Header   float64
	RowH     float64
	RowGap   float64
	Padding  float64
	Summary  mapSummary
}

type mapSummary struct {
	Title     string
	FocusPath string
	Folders   int
	Notes     int
	MaxDepth  int
}

func buildIcicle(opts MapOptions) mapLayout {
	const (
		canvasW      = 960.0
		rowH         = 44.0
		rowGap       = 10.0
		padding      = 36.0
		headerHeight = 96.0
	)

	focusPath := vault.Normalize(opts.Focus)

	layout := mapLayout{
		Width:   int(canvasW),
		Header:  headerHeight,
		RowH:    rowH,
		RowGap:  rowGap,
		Padding: padding,
	}

	maxDepth := 0
	var place func(n *vault.Node, x, w float64, depth int)
	place = func(n *vault.Node, x, w float64, depth int) {
		layout.Segments = append(layout.Segments, segment{
			Path:  n.Path,
			Name:  n.Name,
			Depth: depth,
			Notes: noteCount(n),
			X:     x,
			W:     w,
			Rel:   focus.Classify(n.Path, focusPath),
		})
		if depth > maxDepth {
			maxDepth = depth
		}

		folders := n.FolderChildren()
		if len(folders) == 0 {
			return
		}
		total := 0.0
		for _, f := range folders {
			total += segmentWeight(f)
		}
		cx := x
		for _, f := range folders {
			fw := w * segmentWeight(f) / total
			place(f, cx, fw, depth+1)
			cx += fw
		}
	}
	place(opts.Root, padding, canvasW-2*padding, 0)

	layout.Height = int(padding*2 + headerHeight + float64(maxDepth+1)*(rowH+rowGap))
	if layout.Height < 320 {
		layout.Height = 320
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Vault Map"
	}
	folders := 0
	for _, s := range layout.Segments {
		if !vault.IsRoot(s.Path) {
			folders++
		}
	}
	layout.Summary = mapSummary{
		Title:     title,
		FocusPath: focusPath,
		Folders:   folders,
		Notes:     noteCount(opts.Root),
		MaxDepth:  maxDepth,
	}
	return layout
}

// segmentWeight gives empty folders a sliver of width so they stay
// visible instead of collapsing to zero.
func segmentWeight(n *vault.Node) float64 {
	return float64(noteCount(n)) + 1
}

func noteCount(n *vault.Node) int {
	if !n.Dir {
		if n.IsNote() {
			return 1
		}
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += noteCount(c)
	}
	return total
}

// --- rendering -------------------------------------------------------------

var (
	colorFocusFill  = color.RGBA{0x81, 0xc7, 0x84, 0xff} // the focused folder
	colorBranchFill = color.RGBA{0xc8, 0xe6, 0xc9, 0xff} // inside the focused branch
	colorTrailFill  = color.RGBA{0xff, 0xf3, 0xe0, 0xff} // ancestors of the focus
	colorOtherFill  = color.RGBA{0xec, 0xef, 0xf1, 0xff}
	colorStroke     = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText       = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle     = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop   = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG   = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG   = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

// relationColor maps a node's relation to its fill. Root focus means
// the whole vault is in view, so everything reads as in-branch.
func relationColor(rel focus.Relation) color.RGBA {
	switch rel {
	case focus.RelationSelf:
		return colorFocusFill
	case focus.RelationDescendant, focus.RelationRootFocus:
		return colorBranchFill
	case focus.RelationAncestor:
		return colorTrailFill
	default:
		return colorOtherFill
	}
}

func (l mapLayout) segmentY(depth int) float64 {
	return l.Padding + l.Header + float64(depth)*(l.RowH+l.RowGap)
}

func renderPNG(path string, layout mapLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, layout)
	drawLegend(dc, layout)

	for _, s := range layout.Segments {
		y := layout.segmentY(s.Depth)
		dc.SetColor(relationColor(s.Rel))
		dc.DrawRoundedRectangle(s.X, y, s.W, layout.RowH, 4)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(s.X, y, s.W, layout.RowH, 4)
		dc.Stroke()

		if label := segmentLabel(s); label != "" {
			dc.SetColor(colorText)
			dc.DrawStringAnchored(label, s.X+6, y+layout.RowH/2, 0, 0.5)
		}
	}

	return dc.SavePNG(path)
}

func renderSVG(path string, layout mapLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout mapLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, layout)
	drawLegendSVG(canvas, layout)

	for _, s := range layout.Segments {
		y := int(layout.segmentY(s.Depth))
		canvas.Roundrect(int(s.X), y, int(s.W), int(layout.RowH), 4, 4,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(relationColor(s.Rel)), css(colorStroke)))
		if label := segmentLabel(s); label != "" {
			canvas.Text(int(s.X)+6, y+int(layout.RowH/2)+4, label,
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))
		}
	}

	canvas.End()
	return nil
}

// segmentLabel returns the text for a segment, empty when the segment
// is too narrow to carry one.
func segmentLabel(s segment) string {
	if s.W < 54 {
		return ""
	}
	name := s.Name
	if vault.IsRoot(s.Path) {
		name = "vault"
	}
	label := fmt.Sprintf("%s (%d)", name, s.Notes)
	// ~7px per glyph with the basic face; keep labels inside the box.
	maxRunes := int(s.W-10) / 7
	return truncate(label, maxRunes)
}

func drawSummaryBlock(dc *gg.Context, layout mapLayout) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("folders: %d  notes: %d  max depth: %d",
		layout.Summary.Folders, layout.Summary.Notes, layout.Summary.MaxDepth), 32, 60, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("focus: %s", layout.Summary.FocusPath), 32, 80, 0, 0.5)
}

func drawLegend(dc *gg.Context, layout mapLayout) {
	boxW := 180.0
	boxH := 80.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Legend", x+12, y+16, 0, 0.5)
	drawLegendRow(dc, x+12, y+34, colorFocusFill, "Focused folder")
	drawLegendRow(dc, x+12, y+50, colorTrailFill, "Path to focus")
	drawLegendRow(dc, x+12, y+66, colorOtherFill, "Out of focus")
}

func drawLegendRow(dc *gg.Context, x, y float64, c color.RGBA, label string) {
	dc.SetColor(c)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Stroke()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(label, x+20, y, 0, 0.5)
}

func drawSummaryBlockSVG(canvas *svg.SVG, layout mapLayout) {
	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 64, fmt.Sprintf("folders: %d  notes: %d  max depth: %d",
		layout.Summary.Folders, layout.Summary.Notes, layout.Summary.MaxDepth),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 84, fmt.Sprintf("focus: %s", layout.Summary.FocusPath),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
}

func drawLegendSVG(canvas *svg.SVG, layout mapLayout) {
	boxW := 180
	boxH := 80
	x := layout.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Legend", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	drawLegendRowSVG(canvas, x+12, y+36, colorFocusFill, "Focused folder")
	drawLegendRowSVG(canvas, x+12, y+52, colorTrailFill, "Path to focus")
	drawLegendRowSVG(canvas, x+12, y+68, colorOtherFill, "Out of focus")
}

func drawLegendRowSVG(canvas *svg.SVG, x, y int, c color.RGBA, label string) {
	canvas.Roundrect(x, y-8, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c), css(colorStroke)))
	canvas.Text(x+20, y, label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
