package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/utils"
)

var (
	journalSearchToolName    = "journal_search"
	journalSearchDescription = "Search the persona's journal of past conversation turns. Returns the most relevant trims for the query, including topic hierarchy, keywords, and the persona's summary of each turn."
)

// SearchInput represents the input arguments for the journal_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant journal entries"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// SearchResult represents a single recalled journal trim.
type SearchResult struct {
	Path           string   `json:"path"`
	Score          float32  `json:"score"`
	Timestamp      string   `json:"timestamp"`
	TopicHierarchy []string `json:"topic_hierarchy,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
	Preview        string   `json:"preview"`
}

// SearchOutput represents the output of the journal_search tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

const previewMaxLen = 280

// handleJournalSearch processes a journal search request.
func (s *Server) handleJournalSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("MCP journal search request",
		zap.String("query", input.Query),
		zap.Int("topK", topK),
	)

	hits, err := s.config.Recall.Recall(ctx, input.Query, topK)
	if err != nil {
		logger.Error("failed to recall journal entries", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to search journal: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		trim, err := s.config.Journals.Load(hit.Path)
		if err != nil {
			logger.Warn("failed to load recalled trim",
				zap.String("path", hit.Path),
				zap.Error(err),
			)
			continue
		}

		results = append(results, SearchResult{
			Path:           hit.Path,
			Score:          hit.Score,
			Timestamp:      trim.Timestamp.Format("2006-01-02 15:04:05"),
			TopicHierarchy: trim.TopicHierarchy,
			Keywords:       trim.Keywords,
			Sentiment:      trim.Sentiment,
			Preview:        utils.Truncate(trim.PersonaResponse, previewMaxLen),
		})
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: results,
		Count:   len(results),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
