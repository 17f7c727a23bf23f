// Package handler provides the HTTP handlers for the chatbot API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/biz"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/session"
	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/internal/pkg/apierrors"
)

// askTimeout bounds a single question's retrieval and generation.
const askTimeout = 60 * time.Second

// ChatHandler handles chatbot HTTP requests.
type ChatHandler struct {
	service biz.Service
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(service biz.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// NewSession opens a new conversation and returns its session ID.
func (h *ChatHandler) NewSession(c *gin.Context) {
	id, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		logger.Errorw("failed to create session", "error", err.Error())
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SessionResponse{SessionID: id})
}

// Ask answers a question within an existing session.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrInvalidRequest)
		return
	}
	if req.SessionID == "" || req.Question == "" {
		apierrors.Respond(c, apierrors.ErrInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), askTimeout)
	defer cancel()

	result, err := h.service.Ask(ctx, req.SessionID, req.Question)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			apierrors.Respond(c, apierrors.ErrSessionNotFound)
			return
		}
		if ctx.Err() == context.DeadlineExceeded {
			apierrors.Respond(c, apierrors.ErrQueryTimeout)
			return
		}
		logger.Errorw("failed to answer question", "session_id", req.SessionID, "error", err.Error())
		apierrors.Respond(c, apierrors.NewUpstreamFailure(err))
		return
	}

	c.JSON(http.StatusOK, model.AskResponse{
		SessionID: req.SessionID,
		Question:  req.Question,
		Response:  result.Answer,
		Sources:   result.Sources,
	})
}

// Inspect returns the leading snippet of an ingested PDF.
func (h *ChatHandler) Inspect(c *gin.Context) {
	name := c.Param("name")

	snippet, err := h.service.Inspect(name)
	if err != nil {
		if errors.Is(err, biz.ErrDocumentNotFound) {
			apierrors.Respond(c, apierrors.ErrDocumentNotFound)
			return
		}
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, model.InspectResponse{Content: snippet})
}

// Health reports service liveness and the ingested document count.
func (h *ChatHandler) Health(c *gin.Context) {
	count, err := h.service.DocumentCount(c.Request.Context())
	if err != nil {
		logger.Warnw("failed to read document count", "error", err.Error())
		count = 0
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:        "healthy",
		DocumentCount: count,
	})
}
