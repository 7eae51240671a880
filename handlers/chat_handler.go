package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"nyayguru-backend/agents"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for legal question answering
type ChatHandler struct {
	orchestrator *agents.Orchestrator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *agents.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// ChatRequest represents the request body for a legal query
type ChatRequest struct {
	Query      string `json:"query" binding:"required"`
	SessionID  string `json:"session_id"`
	Language   string `json:"language"`
	Domain     string `json:"domain"`
	DocumentID string `json:"document_id"`
}

// queryOptions maps optional request fields onto pipeline options.
func (req *ChatRequest) queryOptions() []agents.QueryOption {
	var opts []agents.QueryOption
	if req.DocumentID != "" {
		opts = append(opts, agents.WithDocumentID(req.DocumentID))
	}
	return opts
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.orchestrator.ProcessQuery(c.Request.Context(), req.Query, req.Language, req.SessionID, req.Domain, req.queryOptions()...)
	if err != nil {
		status, code := queryErrorStatus(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ChatStream handles POST /api/chat/stream using server-sent events
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	events, err := h.orchestrator.ProcessQueryStreaming(c.Request.Context(), req.Query, req.Language, req.SessionID, req.Domain, req.queryOptions()...)
	if err != nil {
		status, code := queryErrorStatus(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	flusher, canFlush := c.Writer.(http.Flusher)
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		if canFlush {
			flusher.Flush()
		}
	}
}

// ListAgents handles GET /api/chat/agents
func (h *ChatHandler) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"agents": h.orchestrator.AgentInfos(),
		},
	})
}

func queryErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, agents.ErrEmptyQuery):
		return http.StatusBadRequest, "EMPTY_QUERY"
	case errors.Is(err, agents.ErrQueryTooLong):
		return http.StatusBadRequest, "QUERY_TOO_LONG"
	default:
		return http.StatusInternalServerError, "PROCESSING_FAILED"
	}
}
