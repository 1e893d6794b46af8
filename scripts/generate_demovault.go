//go:build ignore
// +build ignore

// generate_demovault.go creates synthetic Markdown vaults for manual
// testing and benchmarking.
// Usage: go run scripts/generate_demovault.go [output-dir]
//
// Creates under output-dir (default tests/testdata):
//   demo-vault-small/   (~50 notes, shallow)
//   demo-vault-medium/  (~500 notes)
//   demo-vault-large/   (~5000 notes, deep nesting)
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

type vaultSpec struct {
	name  string
	notes int
	depth int
	desc  string
}

var vaults = []vaultSpec{
	{"demo-vault-small", 50, 3, "50 notes - a personal vault a few weeks old"},
	{"demo-vault-medium", 500, 4, "500 notes - a year of steady writing"},
	{"demo-vault-large", 5000, 5, "5000 notes - a heavyweight archive, stresses scans"},
}

var topFolders = []string{
	"Projects", "Areas", "Resources", "Archive", "Journal", "Inbox",
}

var subFolders = []string{
	"Alpha", "Beta", "Research", "Meetings", "Drafts", "Reading",
	"Planning", "Retrospectives", "References", "Clippings",
}

var noteNames = []string{
	"overview", "plan", "progress", "ideas", "meeting-notes",
	"reading-list", "decisions", "open-questions", "scratch",
	"weekly-review", "next-steps", "summary",
}

func main() {
	outputDir := "tests/testdata"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	for _, vs := range vaults {
		fmt.Printf("Generating %s (%d notes)...\n", vs.name, vs.notes)

		root := filepath.Join(outputDir, vs.name)
		written, err := generateVault(root, vs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate %s: %v\n", vs.name, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %d files under %s\n", written, root)
	}

	fmt.Println("\nDone! Demo vaults created in", outputDir)
}

// generateVault writes a deterministic folder tree with vs.notes
// Markdown files plus a sprinkling of attachments. The same spec always
// produces the same vault, so repeated runs are idempotent.
func generateVault(root string, vs vaultSpec) (int, error) {
	rng := rand.New(rand.NewSource(int64(vs.notes)))

	dirs, err := makeFolders(root, vs, rng)
	if err != nil {
		return 0, err
	}

	written := 0
	for i := 0; i < vs.notes; i++ {
		dir := dirs[rng.Intn(len(dirs))]
		name := fmt.Sprintf("%s-%03d.md", noteNames[i%len(noteNames)], i)
		body := noteBody(vs.desc, i, rng)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			return written, err
		}
		written++

		// Roughly one attachment per ten notes
		if rng.Intn(10) == 0 {
			att := fmt.Sprintf("sketch-%03d.png", i)
			if err := os.WriteFile(filepath.Join(dir, att), pngStub, 0644); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

// makeFolders builds a nested folder skeleton and returns every
// directory path, root included, as note placement targets.
func makeFolders(root string, vs vaultSpec, rng *rand.Rand) ([]string, error) {
	dirs := []string{root}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	// Wider trees for bigger vaults
	topCount := len(topFolders)
	if vs.notes < 100 {
		topCount = 3
	}

	for _, top := range topFolders[:topCount] {
		cur := filepath.Join(root, top)
		if err := os.MkdirAll(cur, 0755); err != nil {
			return nil, err
		}
		dirs = append(dirs, cur)

		branch := cur
		for d := 1; d < vs.depth; d++ {
			sub := subFolders[rng.Intn(len(subFolders))]
			branch = filepath.Join(branch, sub)
			if err := os.MkdirAll(branch, 0755); err != nil {
				return nil, err
			}
			dirs = append(dirs, branch)
		}
	}
	return dirs, nil
}

func noteBody(desc string, i int, rng *rand.Rand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %d\n\n", titleCase(noteNames[i%len(noteNames)]), i)
	fmt.Fprintf(&b, "Part of the %s demo vault.\n\n", desc[:strings.Index(desc, " -")])

	fmt.Fprintln(&b, "## Notes")
	for n := 0; n < 2+rng.Intn(4); n++ {
		fmt.Fprintf(&b, "- Point %d on this topic\n", n+1)
	}

	// Wiki-links make the vault feel lived-in and exercise the preview
	fmt.Fprintf(&b, "\nSee also [[%s-%03d]].\n", noteNames[rng.Intn(len(noteNames))], rng.Intn(i+1))
	return b.String()
}

// titleCase turns "meeting-notes" into "Meeting Notes".
func titleCase(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// pngStub is the 8-byte PNG signature; enough for extension-based
// attachment classification without shipping a real image.
var pngStub = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
