package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"budgetwise-go-be/rag"
)

// RagHandler serves the chatbot index and query routes.
type RagHandler struct {
	Svc *rag.Service
}

func NewRagHandler(svc *rag.Service) *RagHandler {
	return &RagHandler{Svc: svc}
}

type buildRequest struct {
	Reindex bool `json:"reindex"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Build indexes the caller's transactions. The /reindex alias always forces
// a full rebuild regardless of the body flag.
func (h *RagHandler) Build(c *fiber.Ctx) error {
	var req buildRequest
	// Empty body means reindex=false.
	_ = c.BodyParser(&req)

	reindex := req.Reindex || strings.HasSuffix(c.Path(), "/reindex")

	count, err := h.Svc.Build(c.UserContext(), userIDFromCtx(c), reindex)
	if err != nil {
		return mapRagError(err, "Failed to build index")
	}
	return c.JSON(fiber.Map{"indexed": count, "reindex": reindex})
}

func (h *RagHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.Svc.Stats())
}

func (h *RagHandler) Query(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	result, err := h.Svc.Query(c.UserContext(), userIDFromCtx(c), req.Query, req.TopK)
	if err != nil {
		return mapRagError(err, "Failed to answer question")
	}
	return c.JSON(result)
}

func (h *RagHandler) ClearMemory(c *fiber.Ctx) error {
	h.Svc.ClearMemory(userIDFromCtx(c))
	return c.JSON(fiber.Map{"message": "Conversation memory cleared"})
}

// mapRagError translates pipeline failures into HTTP statuses. Rate limiting
// gets its own status so clients can back off instead of treating it as a
// hard failure; everything upstream-or-disk gets a generic 500.
func mapRagError(err error, fallback string) error {
	switch {
	case errors.Is(err, rag.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "The AI service is rate limited, please retry shortly")
	case errors.Is(err, rag.ErrEmbedding), errors.Is(err, rag.ErrGeneration), errors.Is(err, rag.ErrIndexWrite):
		log.Printf("RAG pipeline error: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	default:
		log.Printf("Unexpected RAG error: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}
