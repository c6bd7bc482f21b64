package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-sync/api/swagger"
	"user-sync/internal/adapter/gin/handler"
	"user-sync/internal/adapter/gin/middleware"
)

// Handlers groups the route handlers mounted by SetupRouter.
type Handlers struct {
	User    *handler.UserHandler
	Journal *handler.JournalHandler
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
// A nil rateLimiter disables rate limiting.
func SetupRouter(
	h Handlers,
	rateLimiter *middleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	swaggerUI := httpSwagger.Handler(httpSwagger.URL("/swagger/" + swagger.FileName))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/"+swagger.FileName {
			c.Data(http.StatusOK, "application/json", swagger.Document)
			return
		}
		swaggerUI(c.Writer, c.Request)
	})

	// API v1 routes
	v1 := router.Group("/v1", rateLimiter.Handler())
	{
		users := v1.Group("/users")
		{
			users.GET("", h.User.GetSnapshot)
			users.POST("", h.User.CreateUser)
			users.POST("/fetch", h.User.FetchUsers)
			users.PUT("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}
		v1.GET("/journal", h.Journal.ListJournal)
	}

	return router
}
