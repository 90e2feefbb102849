// Package indexcmder provides the index command for backfilling the
// memory driver from the journal.
package indexcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/engine"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/logger"
)

type indexCommander struct {
	vaultPath string
	configDir string
	debug     bool

	logger *zap.Logger
}

const indexLongDesc string = `Backfill the memory index from the journal.

Feeds every recorded trim to the configured memory driver so recall
covers turns that predate the current index. With the "vector" provider
this embeds each trim and stores it in the vector store; re-running is
safe, entries are upserted by filename.

Examples:
  scribe index
  scribe index --vault ./vault`

const indexShortDesc string = "Backfill the memory index from the journal"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
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

	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")

	return cmd
}

func (c *indexCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("vault") {
		cfg.Vault.Path = c.vaultPath
	}

	eng, err := engine.NewWithConfig(cfg, engine.Options{
		ConfigDir: c.configDir,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := context.Background()

	trims, err := eng.Journals.LoadAll()
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	if len(trims) == 0 {
		fmt.Printf("\n  %s No journal entries to index.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Println()
	indexed := 0
	err = cliui.Step(os.Stdout, fmt.Sprintf("Indexing %d journal entries", len(trims)), func() error {
		for _, t := range trims {
			path := journal.TrimPath(t.Timestamp)
			if err := eng.Recall.Index(ctx, path, t.IndexText()); err != nil {
				return fmt.Errorf("indexing %s: %w", path, err)
			}
			indexed++
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Indexed %d entries with the %s driver.\n\n",
		cliui.SuccessMark, indexed, cliui.NameStyle.Render(cfg.Memory.Provider))

	return nil
}
