package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"places-service/internal/adapter/gin/handler"
	"places-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	users *handler.UserHandler,
	places *handler.PlaceHandler,
	opts router.Options,
	addr string,
	environment string,
	l *zap.Logger,
) *http.Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.SetupRouter(users, places, opts)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
