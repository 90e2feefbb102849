// Package servecmder provides the serve command for running the HTTP API
// and MCP server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/api"
	"github.com/quillhq/scribe/api/mcp"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/engine"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/vault"
)

type ServeCommander struct {
	apiListen string
	vaultPath string
	model     string
	noMCP     bool
	configDir string
	debug     bool

	logger *zap.Logger
}

const serveLongDesc string = `Run the scribe HTTP API and MCP server.

The API exposes turn processing (POST /turn), journal browsing
(GET /journal/recent, GET /journal/search), and the taxonomy
(GET /taxonomy). The MCP server is mounted at /mcp and offers
journal_search and taxonomy_read tools to agent clients.

Examples:
  scribe serve
  scribe serve --listen :9090
  scribe serve --no-mcp`

const serveShortDesc string = "Run the scribe API and MCP server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.apiListen, "listen", "l", "", "Address for API server to listen on")
	cmd.Flags().StringVarP(&cmder.vaultPath, "vault", "v", "", "Vault path override")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", `Model key ("provider:model")`)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP server")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
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
	if cmd.Flags().Changed("listen") {
		cfg.API.Listen = c.apiListen
	}

	eng, err := engine.NewWithConfig(cfg, engine.Options{
		ConfigDir: c.configDir,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	if osVault, ok := eng.Vault.(*vault.OS); ok {
		watcher, werr := vault.Watch(osVault, vault.DirPlaybook, func(path string) {
			c.logger.Info("vault note changed outside scribe", zap.String("path", path))
		}, c.logger)
		if werr != nil {
			c.logger.Warn("vault watcher unavailable", zap.Error(werr))
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Journals:   eng.Journals,
		Taxonomies: eng.Taxonomies,
		Recall:     eng.Recall,
		Noop:       c.noMCP,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	var mcpHandler = mcpServer.Handler()
	if c.noMCP {
		mcpHandler = nil
	}

	apiServer := api.NewServer(
		api.Config{ListenAddr: cfg.API.Listen},
		eng.Orchestrator,
		eng.Journals,
		eng.Taxonomies,
		eng.Recall,
		mcpHandler,
		c.logger,
	)

	c.logger.Info("starting scribe server",
		zap.String("listen", cfg.API.Listen),
		zap.String("vault", cfg.Vault.Path),
		zap.String("model", eng.ModelKey.String()),
		zap.Bool("mcp", !c.noMCP),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
