// Package scribecmder
package scribecmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/quillhq/scribe/cmd/scribe/auth"
	chatcmder "github.com/quillhq/scribe/cmd/scribe/chat"
	configcmder "github.com/quillhq/scribe/cmd/scribe/config"
	indexcmder "github.com/quillhq/scribe/cmd/scribe/index"
	initcmder "github.com/quillhq/scribe/cmd/scribe/init"
	journalcmder "github.com/quillhq/scribe/cmd/scribe/journal"
	searchcmder "github.com/quillhq/scribe/cmd/scribe/search"
	servecmder "github.com/quillhq/scribe/cmd/scribe/serve"
	taxonomycmder "github.com/quillhq/scribe/cmd/scribe/taxonomy"
	versioncmder "github.com/quillhq/scribe/cmd/version"
)

const scribeLongDesc string = `Scribe is a memory engine for conversational personas.

Every turn is recorded in a markdown vault: a compact trim in the
journal, the full exchange in the superjournal, and an evolving taxonomy
of everything the persona has discussed.

Common commands:
  scribe chat       Talk to a persona
  scribe journal    Browse recorded turns
  scribe taxonomy   Inspect the evolved taxonomy
  scribe serve      Run the HTTP API and MCP server`

const scribeShortDesc string = "Scribe - persona memory engine"

func NewScribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribe",
		Short: scribeShortDesc,
		Long:  scribeLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .scribe directory location")

	// Add subcommands
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(journalcmder.NewJournalCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(taxonomycmder.NewTaxonomyCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
