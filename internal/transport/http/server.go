package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/joinus-devs/backend-sub000/internal/auth"
	"github.com/joinus-devs/backend-sub000/internal/chat"
	"github.com/joinus-devs/backend-sub000/internal/config"
	"github.com/joinus-devs/backend-sub000/internal/store"
)

// NewServer builds the HTTP server: health, websocket gateway, auth boundary
// and the chat history read boundary.
func NewServer(hub *chat.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(logger))

	r.GET("/health", healthHandler)
	r.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	apiHandlers := NewAPIHandlers(authService, logger)
	chatHandlers := NewChatHandlers(st, cfg.HistoryPageSize, logger)

	api := r.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)

		protected := api.Group("")
		protected.Use(AuthMiddleware(authService, logger))
		protected.GET("/clubs/:club/chats", chatHandlers.GetClubChats)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
