// Package server assembles repositories, services and handlers into the
// HTTP engine.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"piq/internal/config"
	"piq/internal/logging"
	"piq/internal/middleware"
	"piq/internal/modules/auth"
	"piq/internal/modules/image"
	"piq/internal/modules/post"
	"piq/internal/modules/review"
	"piq/internal/modules/user"
	"piq/internal/pkg/jwt"
	"piq/internal/repository"
	"piq/internal/storage"
)

// TokenStore is the refresh token store as the whole application needs it.
type TokenStore interface {
	auth.RefreshTokenStore
	Ping(ctx context.Context) error
}

type Deps struct {
	Config   *config.Config
	Logger   logging.Logger
	DB       *gorm.DB
	Tokens   TokenStore
	Uploader storage.Uploader
}

type Server struct {
	Engine *gin.Engine
	Auth   *auth.Service
}

func New(d Deps) *Server {
	cfg := d.Config

	users := repository.NewUserRepository(d.DB)
	posts := repository.NewPostRepository(d.DB)
	reviews := repository.NewReviewRepository(d.DB)
	images := repository.NewImageRepository(d.DB)

	codec := jwt.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	issuer := jwt.NewIssuer(codec, cfg.Auth.JWTAccessTTL, cfg.Auth.RefreshTTL)
	validator := jwt.NewValidator(codec)

	authService := auth.NewService(users, d.Tokens, issuer, validator, d.Logger.With("module", "auth"), cfg.Auth.RotateOnReissue)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Path:     cfg.Auth.CookiePath,
		MaxAge:   cfg.Auth.RefreshTTL,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: cfg.Auth.SameSite(),
	})

	userHandler := user.NewHandler(user.NewService(users, images, d.Tokens, d.Uploader, d.Logger.With("module", "user")))
	postHandler := post.NewHandler(post.NewService(posts))
	reviewHandler := review.NewHandler(review.NewService(reviews, users))
	imageHandler := image.NewHandler(image.NewService(images, d.Uploader, d.Logger.With("module", "image")))

	public := middleware.DefaultPublicPaths()

	r := gin.New()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.ErrorLogger(d.Logger))
	r.Use(middleware.Authenticate(validator, users, public))
	r.Use(middleware.RequireAuthenticated(public))

	r.GET("/health", healthHandler(d.DB, d.Tokens))

	if local, ok := d.Uploader.(*storage.LocalUploader); ok {
		r.Static("/uploads", local.BaseDir())
	}

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		userHandler.RegisterRoutes(v1)
		postHandler.RegisterRoutes(v1)
		reviewHandler.RegisterRoutes(v1)
		imageHandler.RegisterRoutes(v1)
	}

	return &Server{Engine: r, Auth: authService}
}
