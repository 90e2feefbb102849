// Package initcmder provides the init command for initializing a local
// .scribe directory and scaffolding a vault.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/vault"
)

const (
	dirName = ".scribe"
)

// starterInstructions seeds a new vault with a minimal three-part reply
// contract so a fresh vault produces parseable turns immediately.
const starterInstructions = `# Instructions

You are a persona with persistent memory. Structure every reply in three
sections, in this order, using these exact markers:

---TAXONOMY_ANALYSIS---
Analyze the conversation against your taxonomy. Propose additions with:
NEW_TOPIC: category -> subcategory -> specific
NEW_CONTEXT: name -> description
NEW_DEPENDENCY: topic1 -> topic2 -> relationship
Also include lines for TOPIC_HIERARCHY, KEYWORDS, and SENTIMENT.

---MAIN_RESPONSE---
Your reply to the boss. This is the only section they see.

---MACHINE_TRIM---
A compact summary of this turn, written for your future self.
`

const initLongDesc string = `Initialize a new .scribe/ directory and scaffold a vault.

Creates a local .scribe/ directory that takes precedence over the default
~/.scribe/ directory for configuration, credentials, and session state.

With --vault, also scaffolds the vault's directory layout (playbook,
journal, superjournal) with starter instructions, and records the vault
path in config.toml.

Examples:
  scribe init
  scribe init --vault ./vault
  scribe init --vault ./vault --persona Ana`

const initShortDesc string = "Initialize a local .scribe/ directory"

func NewInitCmd() *cobra.Command {
	var vaultPath string
	var persona string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runInit(vaultPath, persona, configDir)
		},
	}

	cmd.Flags().StringVarP(&vaultPath, "vault", "v", "", "Scaffold a vault at this path")
	cmd.Flags().StringVarP(&persona, "persona", "p", "", "Create a persona notes directory in the vault")

	return cmd
}

func runInit(vaultPath, persona, configDir string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Printf("  %s Already initialized: %s\n", cliui.SuccessMark, dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .scribe directory: %w", err)
		}
		fmt.Printf("  %s Initialized .scribe directory: %s\n", cliui.SuccessMark, dir)
	}

	if vaultPath == "" {
		return nil
	}

	if err := scaffoldVault(vaultPath, persona); err != nil {
		return err
	}

	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		abs = vaultPath
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SetConfigValue("vault.path", abs); err != nil {
		return fmt.Errorf("recording vault path: %w", err)
	}

	fmt.Printf("  %s Vault scaffolded: %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(abs))
	if persona != "" {
		fmt.Printf("  %s Persona notes: %s\n", cliui.SuccessMark,
			cliui.NameStyle.Render(vault.PersonaDir(persona)))
	}
	fmt.Printf("\n  %s\n", cliui.DimStyle.Render("Edit "+vault.PathInstructions+" to shape your persona's replies."))

	return nil
}

// scaffoldVault creates the vault directory layout and starter files.
// Existing files are left alone so re-running init is safe.
func scaffoldVault(path, persona string) error {
	dirs := []string{
		vault.DirBoss,
		vault.DirPersonas,
		vault.DirTools,
		vault.DirJournal,
		vault.DirSuperjournal,
	}
	if persona != "" {
		dirs = append(dirs, vault.PersonaDir(persona))
	}

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(path, d), 0o755); err != nil {
			return fmt.Errorf("creating vault directory %s: %w", d, err)
		}
	}

	instructions := filepath.Join(path, vault.PathInstructions)
	if _, err := os.Stat(instructions); os.IsNotExist(err) {
		if err := os.WriteFile(instructions, []byte(starterInstructions), 0o644); err != nil {
			return fmt.Errorf("writing starter instructions: %w", err)
		}
	}

	taxonomyPath := filepath.Join(path, vault.PathTaxonomy)
	if _, err := os.Stat(taxonomyPath); os.IsNotExist(err) {
		empty := `{"topics":[],"contexts":[],"dependencies":[],"relationships":[]}`
		if err := os.WriteFile(taxonomyPath, []byte(empty+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing empty taxonomy: %w", err)
		}
	}

	return nil
}
