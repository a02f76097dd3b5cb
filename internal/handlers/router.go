package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	AllowOrigins []string
	// Limiter caps message sends per client; nil disables it.
	Limiter      *ClientLimiter
}

// NewRouter mounts the chat API under /api/v1.
func NewRouter(chatHandler *ChatHandler, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recover(logger))

	config := cors.DefaultConfig()
	if len(opts.AllowOrigins) == 0 || (len(opts.AllowOrigins) == 1 && opts.AllowOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = opts.AllowOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(config))

	send := []gin.HandlerFunc{chatHandler.SendMessage}
	if opts.Limiter != nil {
		send = append([]gin.HandlerFunc{opts.Limiter.Middleware()}, send...)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		api.POST("/sessions", chatHandler.CreateSession)
		api.GET("/sessions/:id", chatHandler.GetSession)
		api.DELETE("/sessions/:id", chatHandler.DeleteSession)
		api.POST("/sessions/:id/messages", send...)
		api.PUT("/sessions/:id/language", chatHandler.SetLanguage)
	}

	return r
}
