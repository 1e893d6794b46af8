package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/burrow/pkg/config"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// runInitWizard registers a vault in the config file interactively.
func runInitWizard(cfg config.Config) error {
	fmt.Println("")
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║                 bur — vault setup                    ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Println("║  Register a notes folder so bur can open it by name  ║")
	fmt.Println("║  Press Ctrl+C anytime to cancel                      ║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println("")

	fmt.Println("Step 1: Vault Directory")
	fmt.Println("────────────────────────────")

	cwd, _ := os.Getwd()
	path := cwd

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault directory").
				Description("The folder holding your Markdown notes (~ is fine)").
				Value(&path).
				Placeholder(cwd),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if path == "" {
		path = cwd
	}

	resolved := cfg.ResolveVault(path)
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("checking vault directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", resolved)
	}

	fmt.Println("")
	fmt.Println("Step 2: Vault Name")
	fmt.Println("────────────────────────────")

	suggested := filepath.Base(resolved)
	name := suggested
	makeDefault := cfg.DefaultVault == ""

	form = newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault name").
				Description("Open it later with: bur --vault <name>").
				Value(&name).
				Placeholder(suggested),
			huh.NewConfirm().
				Title("Make this the default vault?").
				Description("The default opens when bur runs with no flags").
				Value(&makeDefault),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if name == "" {
		name = suggested
	}

	// The raw path goes into the config so a ~ stays portable; it is
	// expanded again on every load.
	if existing := cfg.FindVault(name); existing != nil {
		existing.Path = path
	} else {
		cfg.Vaults = append(cfg.Vaults, config.Vault{Name: name, Path: path})
	}
	if makeDefault {
		cfg.DefaultVault = name
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("")
	fmt.Printf("Saved %s\n", config.ConfigPath())
	fmt.Println("")
	fmt.Printf("Open the vault with: bur --vault %s\n", name)
	if makeDefault {
		fmt.Println("Or just: bur")
	}
	return nil
}
