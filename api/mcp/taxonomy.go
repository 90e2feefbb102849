package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillhq/scribe/pkg/taxonomy"
)

var (
	taxonomyReadToolName    = "taxonomy_read"
	taxonomyReadDescription = "Read the persona's evolved taxonomy of topics, contexts, and dependencies. Use this to understand what subjects the persona has discussed and how they relate."
)

// TaxonomyReadInput represents the input arguments for the taxonomy_read tool.
type TaxonomyReadInput struct{}

// TaxonomyReadOutput represents the structured output of a taxonomy read.
type TaxonomyReadOutput struct {
	Taxonomy *taxonomy.Taxonomy `json:"taxonomy"`
}

// handleTaxonomyRead returns the persona's full taxonomy.
func (s *Server) handleTaxonomyRead(_ context.Context, _ *mcp.CallToolRequest, _ TaxonomyReadInput) (*mcp.CallToolResult, TaxonomyReadOutput, error) {
	t, err := s.config.Taxonomies.Load()
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to load taxonomy: %v", err)},
			},
		}, TaxonomyReadOutput{}, nil
	}

	output := TaxonomyReadOutput{Taxonomy: t}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize taxonomy: %v", err)},
			},
		}, TaxonomyReadOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
