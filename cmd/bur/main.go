package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/burrow/internal/history"
	"github.com/vanderheijden86/burrow/pkg/config"
	"github.com/vanderheijden86/burrow/pkg/debug"
	"github.com/vanderheijden86/burrow/pkg/export"
	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/metrics"
	"github.com/vanderheijden86/burrow/pkg/robot"
	"github.com/vanderheijden86/burrow/pkg/ui"
	"github.com/vanderheijden86/burrow/pkg/vault"
	"github.com/vanderheijden86/burrow/pkg/version"
	"github.com/vanderheijden86/burrow/pkg/watcher"
)

// historyKeep caps the focus journal; older events are pruned when the
// journal opens.
const historyKeep = 500

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	vaultFlag := flag.String("vault", "", "Vault to open: a registered name or a directory path")
	initFlag := flag.Bool("init", false, "Interactive setup: register a vault in the config file")
	focusFlag := flag.String("focus", "", "Focus a folder (vault-relative path) and exit")
	backFlag := flag.Bool("back", false, "Back the focus out one level and exit")
	resetFlag := flag.Bool("reset-focus", false, "Clear the focus and exit")
	robotState := flag.Bool("robot-state", false, "Print vault and focus state as JSON and exit")
	robotTree := flag.Bool("robot-tree", false, "Print every node's focus relation as JSON and exit")
	robotInsights := flag.Bool("robot-insights", false, "Print vault statistics as JSON and exit")
	exportMap := flag.String("export-map", "", "Render a vault map to a file (.svg or .png) and exit")
	noWatch := flag.Bool("no-watch", false, "Disable filesystem watching")
	debugFlag := flag.Bool("debug", false, "Enable debug logging (same as BUR_DEBUG=1)")
	flag.Usage = usage
	flag.Parse()

	if *debugFlag {
		debug.SetEnabled(true)
	}

	if *help {
		flag.CommandLine.SetOutput(os.Stdout)
		usage()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("bur %s\n", version.Version)
		os.Exit(0)
	}

	// Load config for the vault registry and UI preferences
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "warning: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	if *initFlag {
		if err := runInitWizard(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	mutations := 0
	for _, set := range []bool{*focusFlag != "", *backFlag, *resetFlag} {
		if set {
			mutations++
		}
	}
	if mutations > 1 {
		fmt.Fprintln(os.Stderr, "Error: --focus, --back, and --reset-focus are mutually exclusive")
		os.Exit(2)
	}

	resolved := cfg.ResolveVault(*vaultFlag)
	v, err := vault.Open(resolved, vault.WithIgnore(cfg.Ignore...))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening vault: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point bur at a notes directory with --vault, or register one with 'bur --init'.")
		os.Exit(1)
	}
	vaultName := vaultDisplayName(cfg, *vaultFlag, resolved)

	// Focus state and the journal live inside the vault so they travel
	// with it.
	stateDir := stateDirFor(v.Dir())

	engine := focus.NewEngine(v)
	storeOpts := []focus.StoreOption{}
	if cfg.PersistEnabled() {
		storeOpts = append(storeOpts, focus.WithStateStore(focus.NewFileStateStore(stateDir)))
	}
	var journal *history.Journal
	if cfg.HistoryEnabled() {
		j, err := history.Open(stateDir)
		if err != nil {
			debug.Log("journal disabled: %v", err)
		} else {
			journal = j
			if err := journal.Prune(historyKeep); err != nil {
				debug.Log("journal prune failed: %v", err)
			}
			storeOpts = append(storeOpts, focus.WithRecorder(journal))
		}
	}
	store := focus.NewStore(v, engine, storeOpts...)

	// Headless focus mutations: same store wiring as the TUI, no
	// program. The applied path goes to stdout for scripts.
	if mutations == 1 {
		store.Restore()
		var cur string
		switch {
		case *focusFlag != "":
			cur = store.Set(*focusFlag)
		case *backFlag:
			cur = store.Back()
		default:
			cur = store.Reset()
		}
		fmt.Println(cur)
		_ = journal.Close()
		os.Exit(0)
	}

	if *robotState || *robotTree || *robotInsights {
		var rep any
		switch {
		case *robotTree:
			// Marks come from a real engine attach, so the report
			// shows exactly what the interactive view would.
			marks := focus.NewMarkMap()
			engine.Attach(marks)
			rep = robot.BuildTreeReport(v, store.Restore(), marks)
		case *robotState:
			rep = robot.BuildStateReport(v, store.Restore())
		default:
			rep = robot.BuildInsightsReport(v, store.Restore())
		}
		if err := robot.Write(os.Stdout, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		_ = journal.Close()
		os.Exit(0)
	}

	if *exportMap != "" {
		cur := store.Restore()
		err := export.SaveVaultMap(export.MapOptions{
			Path:  *exportMap,
			Title: vaultName,
			Root:  v.Root(),
			Focus: cur,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting vault map: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Vault map written to %s\n", *exportMap)
		_ = journal.Close()
		os.Exit(0)
	}

	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.NewWatcher(v.Dir(), watcher.WithIgnore(cfg.Ignore...))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: file watching disabled: %v\n", err)
			w = nil
		} else if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file watching disabled: %v\n", err)
			w = nil
		}
	}

	m := ui.NewModel(v, store, engine).
		WithConfig(cfg).
		WithVaultName(vaultName)
	if w != nil {
		m = m.WithWatcher(w)
	}
	if journal != nil {
		m = m.WithRecent(journal)
	}
	defer m.Stop()
	defer func() { _ = journal.Close() }()

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running burrow: %v\n", err)
		os.Exit(1)
	}

	if debug.Enabled() {
		for _, s := range metrics.AllTimingStats() {
			debug.Log("timing %s: count=%d avg=%.2fms max=%.2fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
		}
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "Usage: bur [options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "A drill-down TUI for Markdown vaults: focus one folder, fade the rest.")
	fmt.Fprintln(out, "")
	flag.PrintDefaults()
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Environment:")
	fmt.Fprintln(out, "  BUR_DEBUG=1          verbose logging to stderr")
	fmt.Fprintln(out, "  BUR_FORCE_POLLING=1  poll for changes instead of using fsnotify")
	fmt.Fprintln(out, "  BUR_NO_MOUSE=1       disable mouse reporting")
	fmt.Fprintln(out, "  BURROW_DIR=DIR       override the per-vault state directory")
}

// stateDirFor returns the per-vault state directory. BURROW_DIR
// overrides it, which keeps scripted runs and tests off the real
// vault's state.
func stateDirFor(vaultDir string) string {
	if dir := os.Getenv("BURROW_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(vaultDir, ".burrow")
}

// vaultDisplayName picks what the header calls the vault: the
// registered name when one matched, the directory basename otherwise.
func vaultDisplayName(cfg config.Config, arg, resolved string) string {
	if reg := cfg.FindVault(arg); reg != nil {
		return reg.Name
	}
	if arg == "" {
		if reg := cfg.FindVault(cfg.DefaultVault); reg != nil && reg.Path == resolved {
			return reg.Name
		}
	}
	base := filepath.Base(resolved)
	if base == "." || base == string(filepath.Separator) {
		if abs, err := filepath.Abs(resolved); err == nil {
			base = filepath.Base(abs)
		}
	}
	return base
}

func runTUIProgram(m ui.Model) error {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if os.Getenv("BUR_NO_MOUSE") != "1" {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
