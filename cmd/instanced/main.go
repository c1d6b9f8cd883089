package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"instanced/internal/config"
	"instanced/internal/httpapi"
	"instanced/internal/hub"
	"instanced/internal/lifecycle"
	"instanced/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var flagCfg config.Config
	var corsOrigins string

	root := &cobra.Command{
		Use:           "instanced",
		Short:         "Instance lifecycle service with a broadcast event stream",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flagCfg, corsOrigins)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	f := root.Flags()
	f.StringVar(&configPath, "config", "", "Path to a .yaml, .json or .toml config file")
	f.StringVar(&flagCfg.Addr, "addr", "", "HTTP listen address, e.g. :7070 (defaults INSTANCED_ADDR, PORT or :7070)")
	f.IntVar(&flagCfg.CommitDelayMS, "commit-delay-ms", 0, "Delay between accepting and committing a command (default 1000)")
	f.StringVar(&flagCfg.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	f.StringVar(&flagCfg.LogFormat, "log-format", "", "Log format: console|json")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (default *)")
	f.IntVar(&flagCfg.SubscriberBuffer, "subscriber-buffer", 0, "Per-subscriber outbound message buffer")
	f.Int64Var(&flagCfg.MaxMessageBytes, "max-message-bytes", 0, "Maximum inbound WebSocket message size")
	f.IntVar(&flagCfg.ShutdownTimeoutMS, "shutdown-timeout-ms", 0, "Graceful shutdown budget")
	return root
}

// resolveConfig layers defaults < config file < environment < flags.
func resolveConfig(cmd *cobra.Command, path string, flagCfg config.Config, corsOrigins string) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(envCfg)
	if cmd.Flags().Changed("cors-origins") {
		flagCfg.CORSOrigins = splitCSV(corsOrigins)
	}
	return cfg.Merge(flagCfg), nil
}

func newLogger(cfg config.Config, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
	}
	var out io.Writer = w
	switch cfg.LogFormat {
	case "json":
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format: %s", cfg.LogFormat)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// run wires registry, hub, scheduler and HTTP server and blocks until ctx is done.
func run(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	log, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}

	events := hub.New(hub.Config{BufferSize: cfg.SubscriberBuffer, Logger: &log})
	sched := lifecycle.New(lifecycle.Config{
		Registry:    registry.New(),
		Publisher:   events,
		CommitDelay: cfg.CommitDelay(),
		Logger:      &log,
	})

	httpapi.SetLogger(log)
	httpapi.SetRequestLogLevel(requestLevel(cfg.LogLevel))
	httpapi.SetMaxMessageBytes(cfg.MaxMessageBytes)
	httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(sched, events),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Dur("commit_delay", cfg.CommitDelay()).Msg("instanced listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	// Stop accepting commands first, then end the streams so Shutdown does
	// not wait on long-lived connections.
	if err := sched.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("scheduler close")
	}
	cancelBase()
	events.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

// requestLevel maps the process log level onto the HTTP layer's per-request levels.
func requestLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return "debug"
	case "error", "fatal", "panic":
		return "error"
	case "disabled":
		return "off"
	default:
		return "info"
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
