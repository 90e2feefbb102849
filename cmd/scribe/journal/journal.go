// Package journalcmder provides the journal command for browsing
// recorded turns.
package journalcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/utils"
	"github.com/quillhq/scribe/pkg/vault"
)

type journalCommander struct {
	limit     int
	full      bool
	vaultPath string
	configDir string
	debug     bool
}

const journalLongDesc string = `Browse the journal of recorded turns.

The journal holds one compact trim per turn: the persona's own summary
plus the topic hierarchy, keywords, and sentiment extracted from its
analysis. With --full, shows the superjournal's unabridged exchanges
instead.

Examples:
  scribe journal
  scribe journal --limit 5
  scribe journal --full`

const journalShortDesc string = "Browse recorded turns"

func NewJournalCmd() *cobra.Command {
	cmder := &journalCommander{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: journalShortDesc,
		Long:  journalLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd)
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Number of turns to show")
	cmd.Flags().BoolVarP(&cmder.full, "full", "f", false, "Show full superjournal exchanges")
	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")

	return cmd
}

func (c *journalCommander) run(cmd *cobra.Command) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	store, err := openVault(cmd, c.vaultPath, c.configDir)
	if err != nil {
		return err
	}

	if c.full {
		return c.showFullTurns(store, log)
	}
	return c.showTrims(store, log)
}

func (c *journalCommander) showTrims(store vault.Store, log *zap.Logger) error {
	journals := journal.NewJournalStore(store, log)

	trims, err := journals.LoadRecent(c.limit)
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	if len(trims) == 0 {
		fmt.Printf("\n  %s No journal entries yet.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render(fmt.Sprintf("Journal (%d most recent)", len(trims))))
	for _, t := range trims {
		fmt.Printf("  %s  %s\n",
			cliui.KeyStyle.Render(t.Timestamp.Format("2006-01-02 15:04")),
			cliui.NameStyle.Render(t.Persona),
		)
		if len(t.TopicHierarchy) > 0 {
			fmt.Printf("    %s\n", cliui.DimStyle.Render(strings.Join(t.TopicHierarchy, " > ")))
		}
		fmt.Printf("    %s\n\n", utils.Truncate(t.PersonaResponse, 120))
	}

	return nil
}

func (c *journalCommander) showFullTurns(store vault.Store, log *zap.Logger) error {
	superjournals := journal.NewSuperjournalStore(store, log)

	turns, err := superjournals.LoadRecent(c.limit)
	if err != nil {
		return fmt.Errorf("loading superjournal: %w", err)
	}

	if len(turns) == 0 {
		fmt.Printf("\n  %s No superjournal entries yet.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render(fmt.Sprintf("Superjournal (%d most recent)", len(turns))))
	for _, t := range turns {
		fmt.Printf("  %s  %s\n\n",
			cliui.KeyStyle.Render(t.Timestamp.Format("2006-01-02 15:04")),
			cliui.NameStyle.Render(t.Persona),
		)
		fmt.Printf("  Boss: %s\n\n", t.BossText)
		fmt.Printf("  %s: %s\n\n", t.Persona, t.PersonaText)
	}

	return nil
}

// openVault resolves the vault path (flag beats config) and opens it.
func openVault(cmd *cobra.Command, flagPath, configDir string) (vault.Store, error) {
	path := flagPath
	if !cmd.Flags().Changed("vault") {
		cfger, err := config.NewConfiger(configDir)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg, err := cfger.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		path = cfg.Vault.Path
	}

	if path == "" {
		return nil, fmt.Errorf("vault path not configured (set vault.path or use --vault)")
	}

	store, err := vault.NewOS(path)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	return store, nil
}
