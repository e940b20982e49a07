package wire

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/config"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/db/redis"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/ledger"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/logging"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/pkg/feed"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/provider"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/random"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/server"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/settle"
)

// ProvideLogger provides a zerolog.Logger
func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Logging)
}

// ProvideRedisClient provides a Redis client
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	return redis.New(cfg.Redis)
}

// ProvideSeedVault provides the randomness seed vault. Redis-backed in
// production, in-memory otherwise.
func ProvideSeedVault(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) random.SeedVault {
	if cfg.Randomness.Vault == "redis" && redisClient != nil {
		return provider.NewRedisVault(redisClient, cfg.Randomness.SeedTTL, logger)
	}
	return random.NewMemoryVault()
}

// ProvideStrategy provides the randomness strategy
func ProvideStrategy(vault random.SeedVault, logger zerolog.Logger) random.Strategy {
	return random.NewProvablyFair(vault, logger)
}

// ProvideBridge provides the balance ledger bridge selected by config
func ProvideBridge(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) ledger.Bridge {
	switch cfg.Ledger.Backend {
	case "http":
		return ledger.NewHTTPLedger(cfg.Ledger, logger)
	case "redis":
		return ledger.NewRedisLedger(redisClient, cfg.Randomness.TxnTTL, logger)
	default:
		return ledger.NewMemoryLedger()
	}
}

// ProvideEngine provides the grid engine adapter
func ProvideEngine() game.EngineAdapter {
	return game.NewReelEngine()
}

// ProvideResolver provides the settlement resolver
func ProvideResolver(bridge ledger.Bridge, logger zerolog.Logger) *settle.Resolver {
	return settle.NewResolver(bridge, logger)
}

// ProvideFeedService provides the live settlement feed, nil when disabled
func ProvideFeedService(cfg *config.Config, logger zerolog.Logger) *feed.Service {
	if !cfg.Feed.Enabled {
		return nil
	}
	return feed.NewService(feed.ServiceConfig{
		FlushInterval: cfg.Feed.FlushInterval,
		RecentSize:    cfg.Feed.BufferSize,
		Logger:        logger,
	})
}

// ProvidePlayerProvider provides the JWT-backed player resolver
func ProvidePlayerProvider(logger zerolog.Logger) provider.PlayerProvider {
	return provider.NewJWTPlayerProvider(logger)
}

// ProvideRuntime provides the game runtime orchestrator
func ProvideRuntime(
	registry *game.Registry,
	strategy random.Strategy,
	bridge ledger.Bridge,
	engine game.EngineAdapter,
	resolver *settle.Resolver,
	events provider.EventPublisher,
	feedSvc *feed.Service,
	logger zerolog.Logger,
) *server.Runtime {
	return server.NewRuntime(server.RuntimeConfig{
		Registry: registry,
		Strategy: strategy,
		Bridge:   bridge,
		Engine:   engine,
		Resolver: resolver,
		Events:   events,
		Feed:     feedSvc,
		Logger:   logger,
	})
}

// ProvideServerOptions provides server options
func ProvideServerOptions(
	cfg *config.Config,
	logger zerolog.Logger,
	runtime *server.Runtime,
	registry *game.Registry,
	players provider.PlayerProvider,
	feedSvc *feed.Service,
) server.Options {
	return server.Options{
		Config:   cfg,
		Logger:   logger,
		Runtime:  runtime,
		Registry: registry,
		Players:  players,
		Feed:     feedSvc,
	}
}

// ProvideApp provides the main application
func ProvideApp(opts server.Options) *server.App {
	return server.New(opts)
}

// ConfigSet is the wire provider set for configuration
var ConfigSet = wire.NewSet(
	config.Load,
)

// LoggingSet is the wire provider set for logging
var LoggingSet = wire.NewSet(
	ProvideLogger,
)

// RedisSet is the wire provider set for Redis
var RedisSet = wire.NewSet(
	ProvideRedisClient,
)

// SettlementSet wires the randomness, ledger and settlement components
var SettlementSet = wire.NewSet(
	ProvideSeedVault,
	ProvideStrategy,
	ProvideBridge,
	ProvideEngine,
	ProvideResolver,
	ProvideFeedService,
	ProvidePlayerProvider,
	ProvideRuntime,
)

// ServerSet is the wire provider set for server
var ServerSet = wire.NewSet(
	ProvideServerOptions,
	ProvideApp,
)

// DefaultSet is the default wire provider set including all common providers
var DefaultSet = wire.NewSet(
	LoggingSet,
	SettlementSet,
	ServerSet,
)

// FullSet includes all providers including Redis
var FullSet = wire.NewSet(
	DefaultSet,
	RedisSet,
)
