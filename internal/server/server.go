package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"msgboard/config"
	"msgboard/internal/handler"
	"msgboard/internal/middleware"
	"msgboard/internal/transport/cookie"
	"msgboard/internal/transport/httpdto"
	"msgboard/internal/websocket"
	"msgboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Home     gin.HandlerFunc
	Auth     *handler.AuthHandler
	Messages *handler.MessageHandler
	Static   gin.HandlerFunc
	// Feed is nil when the live feed is disabled.
	Feed *websocket.Handler
}

// Dependencies are the request-scoped collaborators the middleware chain needs.
type Dependencies struct {
	Sessions middleware.SessionResolver
	Codec    *cookie.Codec
	// Limiter may be nil, which disables rate limiting.
	Limiter middleware.RateLimiter
	// Health checks backing stores. Nil means always healthy.
	Health func(ctx context.Context) error
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true

	s := &Server{
		engine: engine,
		config: cfg,
		logger: l,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler is the complete HTTP surface: method override in front of the
// router. Both the long-running server and the serverless adapter use it.
func (s *Server) Handler() http.Handler {
	return middleware.MethodOverride(s.engine)
}

func (s *Server) SetupRoutes(handlers *Handlers, deps Dependencies) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	s.engine.Use(middleware.SessionMiddleware(deps.Sessions, deps.Codec, s.logger))

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, httpdto.NewErrorResponse("method not allowed", "METHOD_NOT_ALLOWED"))
	})
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	})

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.GET("/", handlers.Home)
	if handlers.Static != nil {
		s.engine.GET("/static/*filepath", handlers.Static)
		s.engine.HEAD("/static/*filepath", handlers.Static)
	}

	auth := s.engine.Group("/auth")
	{
		auth.POST("/register", middleware.AuthRateLimitMiddleware(deps.Limiter, false), handlers.Auth.Register)
		auth.POST("/login", middleware.AuthRateLimitMiddleware(deps.Limiter, true), handlers.Auth.Login)
		auth.GET("/logout", handlers.Auth.Logout)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	messages := s.engine.Group("/messages")
	{
		messages.GET("", handlers.Messages.List)
		messages.POST("", middleware.MessageRateLimitMiddleware(deps.Limiter), handlers.Messages.Create)
		messages.GET("/:id", handlers.Messages.GetByID)
		messages.DELETE("/:id", handlers.Messages.Delete)
		messages.PUT("/:id", handlers.Messages.Update)
		messages.PATCH("/:id", handlers.Messages.Update)
	}

	if handlers.Feed != nil {
		s.engine.GET("/ws/feed", middleware.RequireSession(), handlers.Feed.Connect)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
