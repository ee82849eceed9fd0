package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/config"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/constants"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/database"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/dedup"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/retry"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/service"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/tracing"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/agno"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/circuitbreaker"
	"github.com/seongon-agency/lark-agent-agno-backend/pkg/lark"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes sensitive information)")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("larkagent %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting larkagent")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.Info("Verbose logging enabled - sensitive information will be logged")
	} else if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			if level > logrus.InfoLevel {
				level = logrus.InfoLevel
			}
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	tracingManager := tracing.NewManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	// Initialize the conversation store with exponential backoff retry
	var db *database.Database
	backoff := retry.NewBackoff(retry.BackoffConfig{
		InitialDelay: constants.DefaultBackoffInitialMs * time.Millisecond,
		MaxDelay:     constants.DefaultBackoffMaxMs * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  constants.DefaultDatabaseRetryAttempts,
		Jitter:       true,
	})

	err = backoff.Retry(ctx, func() error {
		var initErr error
		db, initErr = database.New(cfg.Database.Path)
		if initErr != nil {
			logger.Warnf("Failed to initialize database: %v", initErr)
		}
		return initErr
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database after retries: %w", err)
	}
	defer db.Close()

	agentClient := agno.NewClient(
		cfg.Agent.BaseURL,
		buildSystemPrompt(cfg.Agent.SystemPrompt, cfg.Agent.BaseID),
		time.Duration(cfg.Agent.TimeoutSec)*time.Second,
		logger,
	)

	// Refuse to launch against an unreachable or unconfigured agent.
	if err := agentClient.CheckConnection(ctx); err != nil {
		return fmt.Errorf("agent service check failed: %w", err)
	}
	logger.WithField("url", cfg.Agent.BaseURL).Info("Agent service is reachable")

	sender := lark.NewClient(cfg.Lark.AppID, cfg.Lark.AppSecret, logger)

	breaker := circuitbreaker.New(
		"agent",
		constants.DefaultAgentFailureThreshold,
		constants.DefaultAgentRecoveryTimeoutSec*time.Second,
		logger,
	)

	cache := dedup.New(time.Duration(cfg.Dedup.WindowMinutes) * time.Minute)

	bridge := service.NewBridge(db, agentClient, sender, cache, breaker, cfg.HistoryTurns, logger)

	scheduler := service.NewScheduler(bridge, cfg.RetentionDays, cfg.Server.CleanupIntervalHours, logger)
	go scheduler.Start(ctx)

	server := NewServer(cfg, bridge, logger)
	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultGracefulShutdownSec*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	logger.Info("Server shutdown completed")
	return nil
}

// buildSystemPrompt appends the Lark Base board identity so the agent's
// task-management tools operate on the right board.
func buildSystemPrompt(prompt, baseID string) string {
	if baseID == "" {
		return prompt
	}
	if prompt == "" {
		return fmt.Sprintf("You operate on the Lark Base board %s.", baseID)
	}
	return fmt.Sprintf("%s\n\nYou operate on the Lark Base board %s.", prompt, baseID)
}
