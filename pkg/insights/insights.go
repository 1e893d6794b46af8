// Package insights computes summary statistics over a scanned vault
// tree for the insights overlay and robot output.
package insights

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// TopFolderCount is how many of the largest folders Compute reports.
const TopFolderCount = 5

// Distribution summarizes note counts per folder.
type Distribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// FolderStat is one folder ranked by subtree size.
type FolderStat struct {
	Path  string `json:"path"`
	Notes int    `json:"notes"` // notes anywhere under this folder
}

// Stats is the computed snapshot of a vault tree.
type Stats struct {
	Folders        int          `json:"folders"`     // folders excluding the vault root
	Notes          int          `json:"notes"`       // .md files
	Attachments    int          `json:"attachments"` // non-markdown files
	MaxDepth       int          `json:"max_depth"`
	NotesPerFolder Distribution `json:"notes_per_folder"` // direct notes, root included as a sample
	Largest        []FolderStat `json:"largest_folders"`
}

// Compute walks the tree rooted at root and returns its statistics.
// A nil root yields zero stats.
func Compute(root *vault.Node) Stats {
	var s Stats
	if root == nil {
		return s
	}

	// Direct note counts per folder, root included: a flat vault with
	// everything at top level still has a meaningful distribution.
	var samples []float64
	var folders []FolderStat

	root.Walk(func(n *vault.Node) {
		depth := vault.Depth(n.Path)
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}

		if n.Dir {
			if !vault.IsRoot(n.Path) {
				s.Folders++
			}
			direct := 0
			for _, c := range n.Children {
				if c.IsNote() {
					direct++
				}
			}
			samples = append(samples, float64(direct))
			if !vault.IsRoot(n.Path) {
				folders = append(folders, FolderStat{Path: n.Path, Notes: subtreeNotes(n)})
			}
			return
		}

		if n.IsNote() {
			s.Notes++
		} else {
			s.Attachments++
		}
	})

	s.NotesPerFolder = distribution(samples)

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Notes != folders[j].Notes {
			return folders[i].Notes > folders[j].Notes
		}
		return folders[i].Path < folders[j].Path
	})
	if len(folders) > TopFolderCount {
		folders = folders[:TopFolderCount]
	}
	s.Largest = folders

	return s
}

func subtreeNotes(n *vault.Node) int {
	if !n.Dir {
		if n.IsNote() {
			return 1
		}
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += subtreeNotes(c)
	}
	return total
}

// distribution computes mean/median/p90 over the samples. Quantile
// wants sorted input; an empty sample set yields zeros rather than NaN.
func distribution(samples []float64) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	return Distribution{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}
