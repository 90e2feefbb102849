package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/orchestrator"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TurnRequest is the body of POST /turn.
type TurnRequest struct {
	Persona string `json:"persona"`
	Message string `json:"message"`
}

// TurnResponse is the reply to a processed turn.
type TurnResponse struct {
	Reply          string   `json:"reply"`
	TrimPath       string   `json:"trim_path,omitempty"`
	Degraded       bool     `json:"degraded"`
	TopicHierarchy []string `json:"topic_hierarchy,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
}

// TrimResponse is one journal trim in API responses.
type TrimResponse struct {
	Timestamp       time.Time `json:"timestamp"`
	Persona         string    `json:"persona"`
	BossInput       string    `json:"boss_input"`
	PersonaResponse string    `json:"persona_response"`
	TopicHierarchy  []string  `json:"topic_hierarchy,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
	Dependencies    []string  `json:"dependencies,omitempty"`
	Sentiment       string    `json:"sentiment,omitempty"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleTurn runs one conversation turn and returns the reply.
func (s *Server) handleTurn(c *fiber.Ctx) error {
	var req TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Persona == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "persona is required"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}

	result, err := s.turns.Process(c.Context(), req.Persona, req.Message)
	if err != nil {
		s.logger.Error("turn failed",
			zap.String("persona", req.Persona),
			zap.Error(err),
		)

		var transportErr orchestrator.ErrTransport
		if errors.As(err, &transportErr) {
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "model call failed"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "turn processing failed"})
	}

	return c.JSON(TurnResponse{
		Reply:          result.Reply,
		TrimPath:       result.TrimPath,
		Degraded:       result.Degraded,
		TopicHierarchy: result.Metadata.TopicHierarchy,
		Keywords:       result.Metadata.Keywords,
		Sentiment:      result.Metadata.Sentiment,
	})
}

// handleJournalRecent returns the most recent trims, newest first.
func (s *Server) handleJournalRecent(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid limit"})
		}
		limit = parsed
	}

	trims, err := s.journals.LoadRecent(limit)
	if err != nil {
		s.logger.Error("loading recent trims failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load journal"})
	}

	out := make([]TrimResponse, 0, len(trims))
	for _, t := range trims {
		out = append(out, trimResponse(t))
	}

	return c.JSON(fiber.Map{
		"count": len(out),
		"trims": out,
	})
}

// handleJournalSearch recalls the trims most relevant to a query.
func (s *Server) handleJournalSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "q parameter required"})
	}

	topK := 5
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid top_k"})
		}
		topK = parsed
	}

	hits, err := s.recall.Recall(c.Context(), query, topK)
	if err != nil {
		s.logger.Error("journal search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "search failed"})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"count":   len(hits),
		"results": hits,
	})
}

// handleTaxonomy returns the persona's full taxonomy.
func (s *Server) handleTaxonomy(c *fiber.Ctx) error {
	t, err := s.taxonomies.Load()
	if err != nil {
		s.logger.Error("loading taxonomy failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load taxonomy"})
	}

	return c.JSON(t)
}

func trimResponse(t *journal.Trim) TrimResponse {
	return TrimResponse{
		Timestamp:       t.Timestamp,
		Persona:         t.Persona,
		BossInput:       t.BossInput,
		PersonaResponse: t.PersonaResponse,
		TopicHierarchy:  t.TopicHierarchy,
		Keywords:        t.Keywords,
		Dependencies:    t.Dependencies,
		Sentiment:       t.Sentiment,
	}
}
