// Package chatcmder provides the chat command for interactive persona
// conversations.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/cliui"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/dotdir"
	"github.com/quillhq/scribe/pkg/engine"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/orchestrator"
)

var userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")

type chatCommander struct {
	persona   string
	model     string
	vaultPath string
	render    bool
	configDir string
	debug     bool

	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session with a persona.

Every turn is recorded in the vault: the journal gets a compact trim,
the superjournal gets the full exchange, and the taxonomy evolves with
whatever new topics came up. Only the persona's main response is shown;
the analysis and trim sections stay machine-side.

The persona and model from the last session are remembered in
.scribe/session.json, so flags are only needed to switch.

Examples:
  scribe chat --persona Ana
  scribe chat --persona Ana --model anthropic:claude-sonnet-4-5
  scribe chat --render`

const chatShortDesc string = "Interactive chat with a persona"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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

	cmd.Flags().StringVarP(&cmder.persona, "persona", "p", "", "Persona to chat with")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", `Model key ("provider:model")`)
	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")
	cmd.Flags().BoolVarP(&cmder.render, "render", "r", false, "Render replies as markdown (disables streaming)")

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
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
	if cmd.Flags().Changed("model") {
		cfg.Model.Key = c.model
	}

	// Fall back to the last session's persona and model.
	dotdirManager := dotdir.NewManager()
	session, err := dotdirManager.LoadSessionState(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session state: %w", err)
	}
	if session != nil {
		if c.persona == "" {
			c.persona = session.Persona
		}
		if !cmd.Flags().Changed("model") && session.ModelKey != "" {
			cfg.Model.Key = session.ModelKey
		}
	}

	if c.persona == "" {
		return errors.New("no persona selected: use --persona (remembered for next time)")
	}

	eng, err := engine.NewWithConfig(cfg, engine.Options{
		ConfigDir: c.configDir,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := dotdirManager.SaveSession(&dotdir.SessionState{
		Persona:   c.persona,
		ModelKey:  cfg.Model.Key,
		UpdatedAt: time.Now(),
	}, c.configDir); err != nil {
		c.logger.Warn("saving session state failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Printf("  %s %s  %s %s\n",
		cliui.KeyStyle.Render("Persona:"),
		cliui.NameStyle.Render(c.persona),
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(eng.ModelKey.String()),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		if err := c.turn(eng, input); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// turn runs one conversation turn, streaming the reply unless markdown
// rendering was requested.
func (c *chatCommander) turn(eng *engine.Engine, input string) error {
	ctx := context.Background()

	personaPrompt := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(c.persona + "> ")
	fmt.Print(personaPrompt)

	if c.render {
		result, err := eng.Orchestrator.Process(ctx, c.persona, input)
		if err != nil {
			return err
		}

		rendered, err := cliui.RenderMarkdown(result.Reply)
		if err != nil {
			// fall back to plain text
			fmt.Print(result.Reply)
			return nil
		}
		fmt.Print(rendered)
		return nil
	}

	var streamed strings.Builder
	result, err := eng.Orchestrator.ProcessStreaming(ctx, c.persona, input, orchestrator.StreamHandler{
		OnDelta: func(text string) {
			streamed.WriteString(text)
			fmt.Print(text)
		},
		OnFinal: func(text string) {
			// The stream can fall short of the parsed reply when the model
			// skipped the reply markers; print the remainder.
			if rest := strings.TrimPrefix(text, streamed.String()); rest != text {
				fmt.Print(rest)
			} else if streamed.Len() == 0 {
				fmt.Print(text)
			}
		},
	})
	if err != nil {
		return err
	}

	if result.Degraded {
		c.logger.Debug("reply recovered by fallback parse")
	}

	return nil
}
