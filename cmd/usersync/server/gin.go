package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-sync/cmd/usersync/di"
	ginrouter "user-sync/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the HTTP facade server
func SetupGinServer(c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(ginrouter.Handlers{
		User:    c.UserHandler,
		Journal: c.JournalHandler,
	}, c.RateLimiter, c.Config.Logger.ServiceName, l)

	l.Info("HTTP facade configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
