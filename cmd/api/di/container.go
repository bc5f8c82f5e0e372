package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"places-service/cmd/api/infrastructure"
	"places-service/internal/adapter/cache"
	"places-service/internal/adapter/db/postgres"
	"places-service/internal/adapter/geocode"
	"places-service/internal/adapter/gin/handler"
	"places-service/internal/adapter/gin/middleware"
	"places-service/internal/adapter/gin/router"
	"places-service/internal/adapter/repository/cached"
	"places-service/internal/adapter/storage"
	"places-service/internal/config"
	"places-service/internal/usecase/place"
	"places-service/internal/usecase/user"
	redisclient "places-service/pkg/redis"
	"places-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DB           *gorm.DB
	RedisClient  *redisclient.Client
	Images       *storage.LocalImageStore
	Tokens       *security.TokenService
	UserUC       *user.Usecase
	PlaceUC      *place.Usecase
	RateLimiter  *middleware.RateLimiter
	UserHandler  *handler.UserHandler
	PlaceHandler *handler.PlaceHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	images, err := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.MaxBytes, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}
	c.Images = images

	// placeCache stays a nil interface without Redis.
	var placeCache cache.PlaceCache
	if rdb != nil {
		placeCache = cache.NewRedisPlaceCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
	}

	userRepo := postgres.NewUserRepoPG(db, l)
	placeRepo := cached.NewCachedPlaceRepository(postgres.NewPlaceRepoPG(db, l), placeCache, l)

	c.Tokens = security.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTTTLHours)*time.Hour)
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)

	c.UserUC = user.New(userRepo, hasher, c.Tokens, l)
	c.PlaceUC = place.New(
		placeRepo,
		userRepo,
		postgres.NewTransactor(db, l),
		newGeocoder(cfg.Geocoder, l),
		images,
		placeCache,
		l,
	)

	c.RateLimiter = middleware.NewRateLimiter(
		rdb.Raw(),
		middleware.RateLimiterConfig{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.BurstCapacity,
		},
		l,
	)

	c.UserHandler = handler.NewUserHandler(c.UserUC, images, l)
	c.PlaceHandler = handler.NewPlaceHandler(c.PlaceUC, images, l)

	return c, nil
}

func newGeocoder(cfg config.GeocoderConfig, l *zap.Logger) place.Geocoder {
	if cfg.Provider == config.GeocoderStatic {
		l.Info("using static geocoder", zap.Float64("lat", cfg.StaticLat), zap.Float64("lng", cfg.StaticLng))
		return geocode.NewStatic(cfg.StaticLat, cfg.StaticLng)
	}
	return geocode.NewGoogle(nil, cfg.BaseURL, cfg.APIKey, time.Duration(cfg.TimeoutSeconds)*time.Second, l)
}

// RouterOptions returns the router wiring backed by this container.
func (c *Container) RouterOptions() router.Options {
	probes := map[string]router.Pinger{"database": postgres.NewProbe(c.DB)}
	if c.RedisClient != nil {
		probes["redis"] = c.RedisClient
	}

	return router.Options{
		UploadDir:   c.Images.Dir(),
		CORSOrigin:  c.Config.App.CORSAllowedOrigin,
		SwaggerFile: c.Config.App.SwaggerFile,
		ServiceName: c.Config.Logger.ServiceName,
		Tokens:      c.Tokens,
		Files:       c.Images,
		RateLimiter: c.RateLimiter,
		Probes:      probes,
		Log:         c.Logger,
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
