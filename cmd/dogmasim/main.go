// Command dogmasim runs card activations against a seeded table and prints
// what every effect did.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/innovationgame/innovation-server-go/internal/config"
	"github.com/innovationgame/innovation-server-go/internal/game"
	"github.com/innovationgame/innovation-server-go/internal/game/catalog"
	"github.com/innovationgame/innovation-server-go/internal/game/rules"
	"github.com/innovationgame/innovation-server-go/internal/repository"
)

var (
	configPath  string
	facesFromDB bool
	version     = "dev" // set via ldflags during build
)

var rootCmd = &cobra.Command{
	Use:           "dogmasim",
	Short:         "Simulate Innovation card activations",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&facesFromDB, "faces-from-db", false, "load card faces from the database instead of YAML")
	rootCmd.AddCommand(activateCmd, cardsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dogmasim: %v\n", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", zap.Int("cards", cat.Len()))
	return &env{cfg: cfg, logger: logger, catalog: cat}, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	switch {
	case facesFromDB:
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		faces, err := repository.NewCardRepository(db.Pool(), logger).LoadFaces(ctx)
		if err != nil {
			return nil, err
		}
		list, err := catalog.FaceCards(faces)
		if err != nil {
			return nil, err
		}
		return catalog.New(list)
	case cfg.Catalog.FacesPath != "":
		list, err := catalog.LoadFaces(cfg.Catalog.FacesPath)
		if err != nil {
			return nil, err
		}
		return catalog.New(list)
	default:
		return catalog.Base()
	}
}

func engineOptions(cfg *config.Config) game.Options {
	return game.Options{
		Rules: rules.Options{
			MaxDepth:         cfg.Engine.MaxDepth,
			MaxRepeat:        cfg.Engine.MaxRepeat,
			DecisionAttempts: cfg.Engine.DecisionAttempts,
		},
		MaxAge:       cfg.Engine.MaxAge,
		StartingHand: cfg.Engine.StartingHand,
		Replay: game.ReplayOptions{
			Enabled:   cfg.Replay.Enabled,
			MaxStates: cfg.Replay.MaxStates,
			Dir:       cfg.Replay.Dir,
		},
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
