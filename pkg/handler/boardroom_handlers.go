// Boardroom HTTP handlers
package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/service"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

// maxUploadBytes caps supplementary document uploads.
const maxUploadBytes = 10 << 20 // 10 MB

// BoardroomHandler exposes the conversation API.
type BoardroomHandler struct {
	boardroom  *service.BoardroomService
	artifacts  *service.ArtifactService
	summaries  *service.SummaryService
	simulation *service.SimulationService
	logger     *slog.Logger
}

// NewBoardroomHandler creates the handler.
func NewBoardroomHandler(boardroom *service.BoardroomService, artifacts *service.ArtifactService, summaries *service.SummaryService, simulation *service.SimulationService) *BoardroomHandler {
	return &BoardroomHandler{
		boardroom:  boardroom,
		artifacts:  artifacts,
		summaries:  summaries,
		simulation: simulation,
		logger:     utils.GetLogger(),
	}
}

// RegisterRoutes registers the conversation routes.
func (h *BoardroomHandler) RegisterRoutes(r *gin.RouterGroup) {
	conversation := r.Group("/conversation")
	{
		conversation.POST("/start", h.StartConversation)
		conversation.POST("/message", h.StreamMessage)
		conversation.POST("/summary", h.Summarize)
		conversation.GET("/:sessionId", h.GetConversation)
		conversation.PATCH("/:sessionId", h.UpdateConversation)
		conversation.GET("/:sessionId/stats", h.GetStats)
		conversation.GET("/:sessionId/artifacts", h.ListArtifacts)
		conversation.POST("/:sessionId/upload", h.UploadFile)
	}

	r.GET("/conversations/recent", h.RecentConversations)
	r.POST("/artifacts/generate", h.GenerateArtifact)
	r.POST("/simulate-boardroom", h.Simulate)
}

// StartConversation opens a new board session
// POST /api/conversation/start
func (h *BoardroomHandler) StartConversation(c *gin.Context) {
	var req models.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardroom.StartConversation(c.Request.Context(), &req.Strategy)
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start conversation. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": view})
}

// StreamMessage streams advisor turns for one user message over SSE
// POST /api/conversation/message
func (h *BoardroomHandler) StreamMessage(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	chunks, err := h.boardroom.HandleUserMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	w := c.Writer
	clientGone := false

	// Drain fully even after a client disconnect so turn persistence
	// behind the channel always completes
	for chunk := range chunks {
		if clientGone {
			continue
		}
		data, err := json.Marshal(chunk)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			clientGone = true
			continue
		}
		w.Flush()
	}

	if !clientGone {
		fmt.Fprintf(w, "data: [DONE]\n\n")
		w.Flush()
	}
}

// GetConversation returns the full session state
// GET /api/conversation/:sessionId
func (h *BoardroomHandler) GetConversation(c *gin.Context) {
	view, err := h.boardroom.GetConversation(c.Param("sessionId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": view})
}

// UpdateConversation applies status/phase overrides
// PATCH /api/conversation/:sessionId
func (h *BoardroomHandler) UpdateConversation(c *gin.Context) {
	var req models.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardroom.UpdateConversation(c.Param("sessionId"), &req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": view})
}

// GetStats returns the aggregated usage counters
// GET /api/conversation/:sessionId/stats
func (h *BoardroomHandler) GetStats(c *gin.Context) {
	stats, err := h.boardroom.Stats(c.Param("sessionId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// ListArtifacts returns the session's generated charts
// GET /api/conversation/:sessionId/artifacts
func (h *BoardroomHandler) ListArtifacts(c *gin.Context) {
	artifacts, err := h.artifacts.List(c.Param("sessionId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "artifacts": artifacts})
}

// UploadFile attaches a supplementary document to the session
// POST /api/conversation/:sessionId/upload
func (h *BoardroomHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}

	fileType, ok := resolveFileType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type; expected PDF, markdown or plain text"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || int64(len(raw)) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	content := string(raw)
	if fileType == models.FileTypePDF {
		// PDFs are stored base64-encoded; text extraction happens elsewhere
		content = base64.StdEncoding.EncodeToString(raw)
	}

	view, err := h.boardroom.AttachFile(c.Param("sessionId"), &models.SupplementaryFile{
		Name:    fileHeader.Filename,
		Type:    fileType,
		Content: content,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": view})
}

// Summarize produces the executive board report for a session
// POST /api/conversation/summary
func (h *BoardroomHandler) Summarize(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	summary, err := h.summaries.Summarize(c.Request.Context(), req.SessionID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "executiveSummary": summary})
}

// RecentConversations lists the latest sessions
// GET /api/conversations/recent
func (h *BoardroomHandler) RecentConversations(c *gin.Context) {
	recent, err := h.boardroom.RecentConversations()
	if err != nil {
		h.logger.Error("failed to list recent conversations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": recent})
}

// GenerateArtifact synthesizes one chart on demand
// POST /api/artifacts/generate
func (h *BoardroomHandler) GenerateArtifact(c *gin.Context) {
	var req struct {
		SessionID    string `json:"sessionId"`
		ArtifactType string `json:"artifactType"`
		Description  string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" || req.ArtifactType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID and artifact type are required"})
		return
	}

	artifact, err := h.artifacts.Generate(c.Request.Context(), req.SessionID, req.ArtifactType, req.Description)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "artifact": artifact})
}

// Simulate runs the one-shot boardroom round
// POST /api/simulate-boardroom
func (h *BoardroomHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.simulation.Simulate(c.Request.Context(), &req.Strategy)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"responses":        result.Responses,
		"executiveSummary": result.Summary,
		"sessionId":        service.NewSessionID(),
	})
}

// writeServiceError maps service errors to HTTP statuses.
func (h *BoardroomHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrConversationCompleted),
		errors.Is(err, service.ErrInvalidUpdate),
		errors.Is(err, service.ErrInvalidStrategy),
		errors.Is(err, service.ErrArtifactTypeRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// resolveFileType maps an upload's declared content type (or extension) onto
// the stored file type.
func resolveFileType(contentType, filename string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch ct {
	case "application/pdf":
		return models.FileTypePDF, true
	case "text/markdown":
		return models.FileTypeMarkdown, true
	case "text/plain":
		return models.FileTypeText, true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.FileTypePDF, true
	case ".md", ".markdown":
		return models.FileTypeMarkdown, true
	case ".txt":
		return models.FileTypeText, true
	}
	return "", false
}
