// Package searchcmder provides the search command for recalling journal
// entries relevant to a query.
package searchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/engine"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/utils"
)

type searchCommander struct {
	topK      int
	vaultPath string
	configDir string
	debug     bool

	logger *zap.Logger
}

const searchLongDesc string = `Search the journal for turns relevant to a query.

Recall runs through the configured memory driver: "local" matches
keywords in-process, "vector" does semantic similarity over embedded
trims. Results point back at journal files in the vault.

Examples:
  scribe search "sourdough starter"
  scribe search --top-k 10 "hiking trips"`

const searchShortDesc string = "Search recorded turns"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top-k", "k", 5, "Number of results to return")
	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")

	return cmd
}

func (c *searchCommander) run(cmd *cobra.Command, query string) error {
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

	// The local driver only knows trims indexed in this process, so feed
	// it the journal before recalling.
	if cfg.Memory.Provider == "local" {
		if err := indexAll(ctx, eng); err != nil {
			return err
		}
	}

	hits, err := eng.Recall.Recall(ctx, query, c.topK)
	if err != nil {
		return fmt.Errorf("searching journal: %w", err)
	}

	if len(hits) == 0 {
		fmt.Printf("\n  %s No matches for %q.\n\n", cliui.DimStyle.Render("●"), query)
		return nil
	}

	fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render(fmt.Sprintf("%d matches for %q", len(hits), query)))
	for _, hit := range hits {
		trim, err := eng.Journals.Load(hit.Path)
		if err != nil {
			c.logger.Debug("skipping unloadable hit", zap.String("path", hit.Path), zap.Error(err))
			continue
		}

		fmt.Printf("  %s  %s  %s\n",
			cliui.KeyStyle.Render(trim.Timestamp.Format("2006-01-02 15:04")),
			cliui.NameStyle.Render(trim.Persona),
			cliui.DimStyle.Render(fmt.Sprintf("(score %.2f)", hit.Score)),
		)
		fmt.Printf("    %s\n\n", utils.Truncate(trim.PersonaResponse, 120))
	}

	return nil
}

// indexAll feeds every journal trim to the memory driver.
func indexAll(ctx context.Context, eng *engine.Engine) error {
	trims, err := eng.Journals.LoadAll()
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	for _, t := range trims {
		path := journal.TrimPath(t.Timestamp)
		if err := eng.Recall.Index(ctx, path, t.IndexText()); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
	}

	return nil
}
