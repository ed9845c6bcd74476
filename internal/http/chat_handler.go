package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unibot/internal/report"
	"unibot/internal/service"
)

const defaultRecentLimit = 50

// ChatHandler expone el chat y el historial de conversaciones.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

// PostMessage maneja POST /api/chat.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.chatServ.SubmitMessage(c.Request.Context(), claims.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		case errors.Is(err, service.ErrMessageTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		default:
			h.logger.Error("chat submit failed", zap.Error(err), zap.String("user_id", claims.UserID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		}
		return
	}

	c.JSON(http.StatusOK, reply)
}

// History maneja GET /api/chat/history; orden cronológico.
func (h *ChatHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	turns, err := h.chatServ.History(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("chat history failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": turns})
}

// Recent maneja GET /api/chat/recent (admin), más nuevos primero.
func (h *ChatHandler) Recent(c *gin.Context) {
	limit, ok := recentLimit(c)
	if !ok {
		return
	}
	turns, err := h.chatServ.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("chat recent failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": turns})
}

// ExportRecent maneja GET /api/chat/recent/export (admin): mismas conversaciones que Recent, en xlsx.
func (h *ChatHandler) ExportRecent(c *gin.Context) {
	limit, ok := recentLimit(c)
	if !ok {
		return
	}
	turns, err := h.chatServ.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("chat export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
		return
	}

	var buf bytes.Buffer
	if err := report.WriteConversations(&buf, turns); err != nil {
		h.logger.Error("chat export render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export conversations"})
		return
	}

	filename := fmt.Sprintf("conversations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	// el middleware ya dejó application/json y c.Data no lo pisa
	c.Header("Content-Type", report.XLSXContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, report.XLSXContentType, buf.Bytes())
}

func recentLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultRecentLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return n, true
}
