package robot

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/insights"
	"github.com/vanderheijden86/burrow/pkg/vault"
)

// StateReport is the --robot-state payload.
type StateReport struct {
	GeneratedAt string `json:"generated_at"`
	Vault       string `json:"vault"`
	FocusPath   string `json:"focus_path"`
	Folders     int    `json:"folders"`
	Notes       int    `json:"notes"`
	Attachments int    `json:"attachments"`
}

// TreeNode is one row of the --robot-tree payload: a node's relation to
// the focus plus the marks the overlay pushed for it.
type TreeNode struct {
	Path        string `json:"path"`
	Dir         bool   `json:"dir"`
	Relation    string `json:"relation"`
	Hidden      bool   `json:"hidden"`
	TitleHidden bool   `json:"title_hidden"`
}

// TreeReport is the --robot-tree payload.
type TreeReport struct {
	GeneratedAt string     `json:"generated_at"`
	Vault       string     `json:"vault"`
	FocusPath   string     `json:"focus_path"`
	Nodes       []TreeNode `json:"nodes"`
}

// InsightsReport is the --robot-insights payload.
type InsightsReport struct {
	GeneratedAt string         `json:"generated_at"`
	Vault       string         `json:"vault"`
	FocusPath   string         `json:"focus_path"`
	Stats       insights.Stats `json:"stats"`
}

// BuildStateReport summarizes the vault and the current focus.
func BuildStateReport(v *vault.Vault, focusPath string) StateReport {
	stats := insights.Compute(v.Root())
	return StateReport{
		GeneratedAt: now(),
		Vault:       v.Dir(),
		FocusPath:   focusPath,
		Folders:     stats.Folders,
		Notes:       stats.Notes,
		Attachments: stats.Attachments,
	}
}

// BuildTreeReport pairs every node with its relation to the focus and
// the marks recorded in marks. marks is a MarkMap attached to the same
// overlay engine as the interactive view, so the report shows exactly
// what a renderer would: the marks come from the engine push, not from
// reclassifying here.
func BuildTreeReport(v *vault.Vault, focusPath string, marks *focus.MarkMap) TreeReport {
	rep := TreeReport{
		GeneratedAt: now(),
		Vault:       v.Dir(),
		FocusPath:   focusPath,
		Nodes:       make([]TreeNode, 0, v.Len()),
	}
	for _, path := range v.Paths() {
		n := v.Resolve(path)
		if n == nil {
			continue
		}
		row := TreeNode{
			Path:     path,
			Dir:      n.Dir,
			Relation: focus.Classify(path, focusPath).String(),
		}
		if marks != nil {
			row.Hidden = marks.Hidden[path]
			row.TitleHidden = marks.TitleOff[path]
		}
		rep.Nodes = append(rep.Nodes, row)
	}
	return rep
}

// BuildInsightsReport computes vault statistics for --robot-insights.
func BuildInsightsReport(v *vault.Vault, focusPath string) InsightsReport {
	return InsightsReport{
		GeneratedAt: now(),
		Vault:       v.Dir(),
		FocusPath:   focusPath,
		Stats:       insights.Compute(v.Root()),
	}
}

// Write encodes a report as indented JSON.
func Write(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding robot output: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
