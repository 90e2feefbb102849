// Package taxonomycmder provides the taxonomy command for inspecting the
// persona's evolved taxonomy.
package taxonomycmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/vault"
)

type taxonomyCommander struct {
	asJSON    bool
	vaultPath string
	configDir string
}

const taxonomyLongDesc string = `Inspect the persona's evolved taxonomy.

The taxonomy accumulates every topic, context, and dependency the model
has proposed across all recorded turns. It only ever grows; nothing is
removed or rewritten.

Examples:
  scribe taxonomy
  scribe taxonomy --json`

const taxonomyShortDesc string = "Inspect the evolved taxonomy"

func NewTaxonomyCmd() *cobra.Command {
	cmder := &taxonomyCommander{}

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: taxonomyShortDesc,
		Long:  taxonomyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&cmder.asJSON, "json", "j", false, "Print the raw taxonomy JSON")
	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")

	return cmd
}

func (c *taxonomyCommander) run(cmd *cobra.Command) error {
	store, err := openVault(cmd, c.vaultPath, c.configDir)
	if err != nil {
		return err
	}

	taxonomies := taxonomy.NewStore(store)

	if c.asJSON {
		fmt.Println(taxonomies.RawJSON())
		return nil
	}

	t, err := taxonomies.Load()
	if err != nil {
		return err
	}

	if len(t.Topics) == 0 && len(t.Contexts) == 0 && len(t.Dependencies) == 0 {
		fmt.Printf("\n  %s Taxonomy is empty. It grows as you chat.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	if len(t.Topics) > 0 {
		fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render("Topics"))
		for _, topic := range t.Topics {
			fmt.Printf("  %s\n", cliui.NameStyle.Render(topic.Name))
			for _, sub := range topic.Subcategories {
				line := sub.Name
				if len(sub.Specifics) > 0 {
					line += cliui.DimStyle.Render(" (" + strings.Join(sub.Specifics, ", ") + ")")
				}
				fmt.Printf("    %s\n", line)
			}
		}
	}

	if len(t.Contexts) > 0 {
		fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render("Contexts"))
		for _, ctx := range t.Contexts {
			fmt.Printf("  %s  %s\n",
				cliui.NameStyle.Render(ctx.Name),
				cliui.DimStyle.Render(ctx.Description),
			)
		}
	}

	if len(t.Dependencies) > 0 {
		fmt.Printf("\n  %s\n\n", cliui.HeaderStyle.Render("Dependencies"))
		for _, dep := range t.Dependencies {
			fmt.Printf("  %s %s %s\n",
				cliui.NameStyle.Render(dep.Primary),
				cliui.DimStyle.Render(dep.Relationship),
				cliui.NameStyle.Render(dep.Secondary),
			)
		}
	}

	fmt.Println()
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
