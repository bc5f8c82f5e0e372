package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"places-service/internal/adapter/gin/handler"
	"places-service/internal/adapter/gin/middleware"
	"places-service/pkg/logger"
	"places-service/pkg/metrics"
)

const probeTimeout = 2 * time.Second

// Pinger is a dependency reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries everything the router wires besides the handlers.
type Options struct {
	UploadDir   string // served read-only under /uploads/images
	CORSOrigin  string
	SwaggerFile string // empty disables /swagger
	ServiceName string
	Tokens      middleware.TokenVerifier
	Files       middleware.FileRemover
	RateLimiter *middleware.RateLimiter
	Probes      map[string]Pinger
	Log         *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(users *handler.UserHandler, places *handler.PlaceHandler, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(opts.Log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.CORS(opts.CORSOrigin))
	router.Use(middleware.ErrorHandler(opts.Files, opts.Log))
	router.Use(opts.RateLimiter.Middleware())

	if opts.UploadDir != "" {
		router.Static("/uploads/images", opts.UploadDir)
	}

	router.GET("/health", health(opts))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.SwaggerFile != "" {
		ui := httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
		router.GET("/swagger/*any", func(c *gin.Context) {
			if c.Param("any") == "/doc.json" {
				c.File(opts.SwaggerFile)
				return
			}
			ui.ServeHTTP(c.Writer, c.Request)
		})
	}

	api := router.Group("/api")
	{
		api.GET("/awake", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "awake"})
		})

		u := api.Group("/users")
		{
			u.GET("", users.ListUsers)
			u.POST("/signup", users.SignUp)
			u.POST("/login", users.LogIn)
		}

		p := api.Group("/places")
		{
			p.GET("/:pid", places.GetPlace)
			p.GET("/user/:uid", places.ListPlacesByUser)

			protected := p.Group("", middleware.Auth(opts.Tokens, opts.Log))
			protected.POST("", places.CreatePlace)
			protected.PATCH("/:pid", places.UpdatePlace)
			protected.DELETE("/:pid", places.DeletePlace)
		}
	}

	router.NoRoute(middleware.NotFound())

	return router
}

func health(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		status, code := "healthy", http.StatusOK
		checks := make(gin.H, len(opts.Probes))
		for name, p := range opts.Probes {
			if err := p.Ping(ctx); err != nil {
				opts.Log.Warn("health probe failed", zap.String("probe", name), zap.Error(err))
				checks[name] = "down"
				status, code = "unhealthy", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "up"
		}

		c.JSON(code, gin.H{
			"status":  status,
			"service": opts.ServiceName,
			"checks":  checks,
		})
	}
}
