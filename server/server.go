package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/auth"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/config"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/middleware"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/pkg/feed"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/provider"
)

// App represents the settlement service application
type App struct {
	engine      *gin.Engine
	config      *config.Config
	logger      zerolog.Logger
	runtime     *Runtime
	registry    *game.Registry
	players     provider.PlayerProvider
	feedService *feed.Service
	gameHandler *GameHandler
	feedHandler *FeedHandler
	httpServer  *http.Server
	onShutdown  []func()
}

// Options holds server configuration options
type Options struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Runtime  *Runtime
	Registry *game.Registry
	Players  provider.PlayerProvider
	Feed     *feed.Service
}

// Router is an alias for gin.Engine for convenience
type Router = gin.Engine

// New creates a new settlement service application
func New(opts Options) *App {
	// Configure decimal.Decimal to marshal as JSON number instead of string
	// WARNING: This may cause precision loss for decimals with many digits when
	// unmarshaled by clients using IEEE 754 double-precision (e.g., JavaScript)
	decimal.MarshalJSONWithoutQuotes = true

	if opts.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	app := &App{
		engine:      engine,
		config:      opts.Config,
		logger:      opts.Logger,
		runtime:     opts.Runtime,
		registry:    opts.Registry,
		players:     opts.Players,
		feedService: opts.Feed,
	}

	app.gameHandler = NewGameHandler(app)
	if app.feedService != nil {
		app.feedHandler = NewFeedHandler(app, app.feedService)
	}

	return app
}

// UseCommonMiddlewares adds common middlewares to the application
func (a *App) UseCommonMiddlewares() {
	// Recovery middleware (must be first)
	a.engine.Use(middleware.Recovery(a.logger))
	a.engine.Use(middleware.TraceID())
	a.engine.Use(middleware.Logging(a.logger))

	if a.config.Server.EnableCORS {
		a.engine.Use(middleware.CORS())
	}
}

// UseMiddleware adds a custom middleware
func (a *App) UseMiddleware(m gin.HandlerFunc) {
	a.engine.Use(m)
}

// RegisterHealthCheck adds health check endpoints
func (a *App) RegisterHealthCheck() {
	a.engine.GET("/health", a.healthCheck)
	a.engine.GET("/api/health", a.healthCheck)
}

func (a *App) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   a.config.Environment,
		"games":     len(a.registry.All()),
	})
}

// RegisterGameRoutes registers the settlement API routes
//
// Routes registered:
//   - POST /api/game/init     -> GameHandler.Init
//   - POST /api/game/play     -> GameHandler.Play
//   - POST /api/game/verify   -> GameHandler.Verify (public)
//   - GET  /api/games         -> GameHandler.Games (public)
//   - GET  /api/feed/updates    -> FeedHandler.StreamUpdates (SSE, public)
//   - GET  /api/feed/updates/ws -> FeedHandler.StreamUpdatesWebSocket (public)
func (a *App) RegisterGameRoutes() {
	api := a.engine.Group("/api")
	{
		// Verification and discovery need no session
		api.POST("/game/verify", a.gameHandler.Verify)
		api.GET("/games", a.gameHandler.Games)

		authed := api.Group("/game")
		authed.Use(auth.JWTMiddleware(a.config.JWT.Secret, a.logger))
		{
			authed.POST("/init", a.gameHandler.Init)
			authed.POST("/play", a.gameHandler.Play)
		}

		if a.feedHandler != nil {
			api.GET("/feed/updates", a.feedHandler.StreamUpdates)
			api.GET("/feed/updates/ws", a.feedHandler.StreamUpdatesWebSocket)
		}
	}

	a.logger.Info().Msg("Settlement routes registered: /api/game")
}

// Router returns the Gin engine for custom route registration
func (a *App) Router() *gin.Engine {
	return a.engine
}

// Group creates a route group
func (a *App) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return a.engine.Group(path, handlers...)
}

// AuthGroup creates a route group with JWT authentication
func (a *App) AuthGroup(path string) *gin.RouterGroup {
	return a.engine.Group(path, auth.JWTMiddleware(a.config.JWT.Secret, a.logger))
}

// OnShutdown registers a function to be called on shutdown
func (a *App) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

// Run starts the HTTP server
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.config.Server.Port)

	a.httpServer = &http.Server{
		Addr:         addr,
		Handler:      a.engine,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	go func() {
		a.logger.Info().
			Int("port", a.config.Server.Port).
			Str("environment", a.config.Environment).
			Msg("Starting HTTP server")

		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	return a.waitForShutdown()
}

// RunWithContext starts the HTTP server with context
func (a *App) RunWithContext(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.config.Server.Port)

	a.httpServer = &http.Server{
		Addr:         addr,
		Handler:      a.engine,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info().
			Int("port", a.config.Server.Port).
			Str("environment", a.config.Environment).
			Msg("Starting HTTP server")

		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errChan:
		return err
	}
}

func (a *App) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return a.shutdown()
}

func (a *App) shutdown() error {
	a.logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, fn := range a.onShutdown {
		fn()
	}

	if a.feedService != nil {
		a.feedService.Stop()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	a.logger.Info().Msg("Server shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger
func (a *App) Logger() zerolog.Logger {
	return a.logger
}
