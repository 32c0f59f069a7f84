package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/inkpress/blog-platform/docs"
	"github.com/inkpress/blog-platform/internal/api/handler"
	"github.com/inkpress/blog-platform/internal/api/middleware"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/core/service"
	"github.com/inkpress/blog-platform/internal/core/token"
	mongodb "github.com/inkpress/blog-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpress/blog-platform/internal/infrastructure/db/redis"
	"github.com/inkpress/blog-platform/internal/infrastructure/storage"
)

// RouterConfig carries the shared infrastructure the routes are built on.
type RouterConfig struct {
	DB      *mongo.Database
	Redis   *goredis.Client
	Issuer  *token.Issuer
	Mail    ports.MailQueue
	Uploads *storage.Store

	// BaseURL prefixes stored filenames when responses resolve them to URLs.
	BaseURL      string
	AvatarDir    string
	PostImageDir string

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(cfg.DB)
	roleRepo := mongodb.NewRoleRepository(cfg.DB)
	permRepo := mongodb.NewPermissionRepository(cfg.DB)
	postRepo := mongodb.NewPostRepository(cfg.DB)
	commentRepo := mongodb.NewCommentRepository(cfg.DB)
	categoryRepo := mongodb.NewCategoryRepository(cfg.DB)

	// The durable blacklist lives in Mongo; Redis fronts it so the hot
	// refresh path rarely touches the database.
	blacklist := redisdb.NewRevocationCache(cfg.Redis, mongodb.NewBlacklistRepository(cfg.DB), cfg.Issuer.RefreshTTL())

	// --- Services ---
	authService := service.NewAuthService(userRepo, roleRepo, permRepo, blacklist, cfg.Issuer, cfg.Mail, cfg.BaseURL, cfg.Log)
	userService := service.NewUserService(userRepo, roleRepo, cfg.Log)
	roleService := service.NewRoleService(roleRepo, permRepo, cfg.Log)
	permService := service.NewPermissionService(permRepo, cfg.Log)
	postService := service.NewPostService(postRepo, commentRepo, categoryRepo, cfg.Log)
	commentService := service.NewCommentService(commentRepo, postRepo, cfg.Log)
	categoryService := service.NewCategoryService(categoryRepo, postRepo, cfg.Log)
	statsService := service.NewStatsService(userRepo, postRepo, commentRepo, categoryRepo, roleRepo, cfg.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, cfg.Issuer.RefreshTTL())
	userHandler := handler.NewUserHandler(userService, cfg.Uploads, cfg.BaseURL)
	postHandler := handler.NewPostHandler(postService, cfg.Uploads, cfg.BaseURL)
	commentHandler := handler.NewCommentHandler(commentService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	roleHandler := handler.NewRoleHandler(roleService)
	permHandler := handler.NewPermissionHandler(permService)
	statsHandler := handler.NewStatsHandler(statsService)

	authn := middleware.Auth(cfg.Issuer)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	postOwner := middleware.OwnResource(func(ctx context.Context, id string) (string, error) {
		post, err := postRepo.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		return post.AuthorID, nil
	})
	commentOwner := middleware.OwnResource(func(ctx context.Context, id string) (string, error) {
		comment, err := commentRepo.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		return comment.AuthorID, nil
	})

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/verify-email/:token", authHandler.VerifyEmail)
	e.POST("/auth/resend-verification", authHandler.ResendVerification)
	e.POST("/auth/signin", authHandler.Signin)
	e.POST("/auth/signout", authHandler.Signout, authn)
	e.POST("/auth/refresh-token", authHandler.Refresh)
	e.POST("/auth/request-reset-password", authHandler.RequestPasswordReset)
	e.POST("/auth/reset-password/:token", authHandler.ResetPassword)

	// --- Posts ---
	e.GET("/posts", postHandler.List)
	e.GET("/posts/:id", postHandler.Get)
	e.POST("/posts", postHandler.Create, authn, middleware.RequirePermission(domain.ActionCreate, domain.ResourcePost, roleService))
	e.PUT("/posts/:id", postHandler.Update, authn, middleware.RequirePermission(domain.ActionUpdate, domain.ResourcePost, roleService), postOwner)
	e.DELETE("/posts/:id", postHandler.Delete, authn, middleware.RequirePermission(domain.ActionDelete, domain.ResourcePost, roleService), postOwner)

	// --- Comments ---
	e.GET("/posts/:id/comments", commentHandler.ListByPost)
	e.POST("/posts/:id/comments", commentHandler.Create, authn, middleware.RequirePermission(domain.ActionCreate, domain.ResourceComment, roleService))
	e.PUT("/comments/:id", commentHandler.Update, authn, middleware.RequirePermission(domain.ActionUpdate, domain.ResourceComment, roleService), commentOwner)
	e.DELETE("/comments/:id", commentHandler.Delete, authn, middleware.RequirePermission(domain.ActionDelete, domain.ResourceComment, roleService), commentOwner)

	// --- Categories ---
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id", categoryHandler.Get)
	e.POST("/categories", categoryHandler.Create, authn, middleware.RequirePermission(domain.ActionCreate, domain.ResourceCategory, roleService))
	e.PUT("/categories/:id", categoryHandler.Update, authn, middleware.RequirePermission(domain.ActionUpdate, domain.ResourceCategory, roleService))
	e.DELETE("/categories/:id", categoryHandler.Delete, authn, middleware.RequirePermission(domain.ActionDelete, domain.ResourceCategory, roleService))

	// --- Users ---
	e.GET("/users", userHandler.List, authn, adminOnly)
	e.GET("/users/:id", userHandler.Get, authn, middleware.OwnUser())
	e.PUT("/users/:id", userHandler.Update, authn, middleware.OwnUser())
	e.DELETE("/users/:id", userHandler.Delete, authn, adminOnly)

	// --- Roles / permissions (admin) ---
	e.POST("/roles", roleHandler.Create, authn, adminOnly)
	e.GET("/roles", roleHandler.List, authn, adminOnly)
	e.GET("/roles/:id", roleHandler.Get, authn, adminOnly)
	e.PUT("/roles/:id", roleHandler.Update, authn, adminOnly)
	e.DELETE("/roles/:id", roleHandler.Delete, authn, adminOnly)

	e.POST("/permissions", permHandler.Create, authn, adminOnly)
	e.GET("/permissions", permHandler.List, authn, adminOnly)
	e.DELETE("/permissions/:id", permHandler.Delete, authn, adminOnly)

	// --- Stats (admin) ---
	e.GET("/stats", statsHandler.Collect, authn, adminOnly)

	// --- Uploads served as static files ---
	e.Static("/uploads/avatars", cfg.AvatarDir)
	e.Static("/uploads/posts", cfg.PostImageDir)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through the
// application logger.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
