package api

import (
	"errors"
	"net/http"

	"github.com/RichardoC/padchat/internal/chat"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	chat   *chat.Service
	logger *zap.Logger
}

func NewHandler(chatService *chat.Service, logger *zap.Logger) *Handler {
	return &Handler{
		chat:   chatService,
		logger: logger,
	}
}

type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	ImageBase64    string `json:"imageBase64"`
}

type ChatResponse struct {
	ConversationID string `json:"conversationId"`
	Response       string `json:"response"`
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: chat.ImageTooLargeMessage})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	res, err := h.chat.HandleChatTurn(c.Request.Context(), chat.TurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		ImageBase64:    req.ImageBase64,
	})
	if err != nil {
		h.fail(c, err, "Failed to process chat message")
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		ConversationID: res.ConversationID,
		Response:       res.Response,
	})
}

func (h *Handler) GetConversations(c *gin.Context) {
	conversations, err := h.chat.ListConversations(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch conversations")
		return
	}

	h.logger.Debug("Retrieved conversations", zap.Int("count", len(conversations)))
	c.JSON(http.StatusOK, conversations)
}

func (h *Handler) GetConversation(c *gin.Context) {
	conversation, err := h.chat.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch conversation")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.chat.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) UpdateConversation(c *gin.Context) {
	var req UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	conversation, err := h.chat.RenameConversation(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		h.fail(c, err, "Failed to update conversation")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	if err := h.chat.DeleteConversation(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail maps err to a status code. Internal errors are logged and answered
// with the generic msg only.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	var verr *chat.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message})
	case errors.Is(err, chat.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Conversation not found"})
	default:
		h.logger.Error(msg,
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
	}
}
