package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/dtos"
)

type ChatHandler struct {
	Sessions *chat.Manager
	Logger   *zap.Logger
}

func NewChatHandler(sessions *chat.Manager, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{Sessions: sessions, Logger: logger}
}

// CreateSession is the POST /sessions endpoint
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req dtos.SessionCreationRequest
	// an empty body selects the default language
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
			return
		}
	}

	var lang chat.Language
	if req.Language != "" {
		parsed, err := chat.ParseLanguage(req.Language)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lang = parsed
	}

	session := h.Sessions.Create(lang)
	c.JSON(http.StatusCreated, dtos.NewSessionResponse(session))
}

// GetSession is the GET /sessions/:id endpoint
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dtos.NewSessionResponse(session))
}

// SendMessage is the POST /sessions/:id/messages endpoint
func (h *ChatHandler) SendMessage(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dtos.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	res, err := session.Send(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, chat.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.Logger.Error("sending message", zap.String("session_id", session.ID()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dtos.MessageResponse{
		Appended:   res.Appended,
		Field:      res.Field,
		Saved:      res.Saved,
		DocumentID: res.DocumentID,
		Session:    dtos.NewSessionResponse(session),
	})
}

// SetLanguage is the PUT /sessions/:id/language endpoint
func (h *ChatHandler) SetLanguage(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req dtos.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	lang, err := chat.ParseLanguage(req.Language)
	if err == nil {
		err = session.SetLanguage(lang)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.NewSessionResponse(session))
}

// DeleteSession is the DELETE /sessions/:id endpoint
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) lookup(c *gin.Context) (*chat.Session, bool) {
	session, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return session, true
}
