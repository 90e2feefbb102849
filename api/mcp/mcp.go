// Package mcp provides an MCP (Model Context Protocol) server exposing
// journal recall and taxonomy inspection to agent clients.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/utils"
)

type Config struct {
	// Journals loads trim content for recalled paths
	Journals *journal.JournalStore

	// Taxonomies serves the persona's taxonomy to the taxonomy_read tool
	Taxonomies *taxonomy.Store

	// Recall finds the trims most relevant to a query
	Recall memory.Driver

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the journal and taxonomy tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "scribe",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Journals == nil {
		return nil, errors.New("journal store is required")
	}
	if c.Taxonomies == nil {
		return nil, errors.New("taxonomy store is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        taxonomyReadToolName,
		Description: taxonomyReadDescription,
	}, s.handleTaxonomyRead)

	// Add journal search if a recall driver is configured
	if c.Recall != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        journalSearchToolName,
			Description: journalSearchDescription,
		}, s.handleJournalSearch)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
