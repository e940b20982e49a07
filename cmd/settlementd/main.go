package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/config"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/db/redis"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/events/kafka"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/provider"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/server"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/wire"
)

var version = getVersion()

// getVersion returns the module version from build info
func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "settlementd",
		Short: "Provably-fair slot settlement service",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/config.yaml", "path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the settlement HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configFile)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := wire.ProvideLogger(cfg)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = wire.ProvideRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	registry := game.NewRegistry()
	gameCfg, err := game.LoadSlotConfigFromDir(cfg.Games.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load game config: %w", err)
	}
	registry.Register(&game.GameDefinition{
		StudioID: cfg.Environment,
		GameID:   "slots",
		Config:   gameCfg,
	})

	var events provider.EventPublisher = provider.NoopEventPublisher{}
	var producer *kafka.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducerWithConfig(kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		topic := cfg.Kafka.Topics["round_settled"]
		if topic == "" {
			topic = "round-settled"
		}
		events = provider.NewKafkaEventPublisher(producer, topic, logger)
	}

	vault := wire.ProvideSeedVault(cfg, redisClient, logger)
	strategy := wire.ProvideStrategy(vault, logger)
	bridge := wire.ProvideBridge(cfg, redisClient, logger)
	engine := wire.ProvideEngine()
	resolver := wire.ProvideResolver(bridge, logger)
	feedSvc := wire.ProvideFeedService(cfg, logger)
	players := wire.ProvidePlayerProvider(logger)
	runtime := wire.ProvideRuntime(registry, strategy, bridge, engine, resolver, events, feedSvc, logger)

	app := wire.ProvideApp(wire.ProvideServerOptions(cfg, logger, runtime, registry, players, feedSvc))
	app.UseCommonMiddlewares()
	app.RegisterHealthCheck()
	app.RegisterGameRoutes()
	app.RegisterSwagger(server.SwaggerInfo{
		Title:       "Slot Settlement API",
		Description: "Provably-fair slot settlement service",
		Version:     version,
	}, nil)

	if producer != nil {
		app.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close kafka producer")
			}
		})
	}
	if redisClient != nil {
		app.OnShutdown(func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close redis client")
			}
		})
	}

	return app.Run()
}
