package api

import (
	"context"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/orchestrator"
	"github.com/quillhq/scribe/pkg/taxonomy"
)

// TurnProcessor runs one conversation turn end to end. Implemented by
// the orchestrator; injected so handlers can be tested without a model.
type TurnProcessor interface {
	Process(ctx context.Context, persona, userMessage string) (*orchestrator.Result, error)
}

// Server is the HTTP API for one persona vault.
type Server struct {
	config     Config
	turns      TurnProcessor
	journals   *journal.JournalStore
	taxonomies *taxonomy.Store
	recall     memory.Driver
	logger     *zap.Logger
	app        *fiber.App
}

// NewServer creates a new API server. The recall driver and MCP handler
// are optional; pass nil to leave /journal/search and /mcp unmounted.
func NewServer(
	config Config,
	turns TurnProcessor,
	journals *journal.JournalStore,
	taxonomies *taxonomy.Store,
	recall memory.Driver,
	mcpHandler http.Handler,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:     config,
		turns:      turns,
		journals:   journals,
		taxonomies: taxonomies,
		recall:     recall,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/turn", s.handleTurn)
	app.Get("/journal/recent", s.handleJournalRecent)
	app.Get("/taxonomy", s.handleTaxonomy)

	if recall != nil {
		app.Get("/journal/search", s.handleJournalSearch)
	}

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
