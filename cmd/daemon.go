package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/alert-bot/internal/adapters/channel/fifo"
	"github.com/bnema/alert-bot/internal/adapters/liveness/pidfile"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/application"
	"github.com/bnema/alert-bot/internal/logging"
	"github.com/bnema/alert-bot/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDaemonCmd(app *app) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the alert daemon in the foreground",
		Long:  "daemon creates the channel, writes the pid file and dispatches every record it reads until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.runDaemon(ctx, cmd.ErrOrStderr(), debug)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "log at debug level")

	return cmd
}

func (a *app) runDaemon(ctx context.Context, logOut io.Writer, debug bool) error {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg := loaded.config
	if debug {
		cfg.Tool.Logging.Level = "DEBUG"
	}

	logger, err := logging.New(cfg.Tool.Logging, logOut)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pid, err := pidfile.Create(cfg.Tool.PIDFile)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer func() {
		if removeErr := pid.Remove(); removeErr != nil {
			logger.Warn("could not remove pid file", zap.String("path", pid.Path()), zap.Error(removeErr))
		}
	}()

	channel, err := fifo.Acquire(cfg.Tool.ChannelPath)
	if err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	defer func() {
		if releaseErr := channel.Release(); releaseErr != nil {
			logger.Warn("could not remove channel", zap.String("path", channel.Path()), zap.Error(releaseErr))
		}
	}()

	registry, err := a.newRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}

	resolver, err := a.paramResolver(loaded)
	if err != nil {
		return err
	}

	report, err := application.NewHandlerFactory(registry, resolver, logger).Create(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create handlers: %w", err)
	}

	collector := metrics.NewCollector()
	if cfg.Tool.MetricsAddr != "" {
		listener, err := net.Listen("tcp", cfg.Tool.MetricsAddr)
		if err != nil {
			return fmt.Errorf("listen for metrics: %w", err)
		}
		go func() {
			if err := collector.Serve(ctx, listener, logger); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("daemon started",
		zap.Int("pid", os.Getpid()),
		zap.String("config", loaded.repo.Path()),
		zap.String("channel", channel.Path()),
		zap.Strings("handlers", report.Created),
		zap.Int("skipped", len(report.Skipped)),
	)

	daemon := application.NewDaemon(registry, cfg.Tool.DefaultHandlers, channel, wire.JSONLines{},
		application.WithLogger(logger),
		application.WithRecorder(collector),
	)
	if err := daemon.Run(ctx); err != nil {
		return err
	}

	logger.Info("daemon stopped")
	return nil
}
