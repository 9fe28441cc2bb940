package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/zombie-dashboard/internal/config"
	"github.com/DoyleJ11/zombie-dashboard/internal/httpapi"
	"github.com/DoyleJ11/zombie-dashboard/internal/hub"
	"github.com/DoyleJ11/zombie-dashboard/internal/journal"
	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/prefs"
	"github.com/DoyleJ11/zombie-dashboard/internal/shell"
	"github.com/DoyleJ11/zombie-dashboard/internal/simapi"
)

func main() {
	var configPath, addr string

	root := &cobra.Command{
		Use:          "zombie-dashboard",
		Short:        "Serve the zombie building dashboard",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := run(cmd.Context(), cfg, log); err != nil {
				log.Error("server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "YAML config file")
	root.Flags().StringVar(&addr, "addr", "", "Listen address (overrides DASH_ADDR)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(parent context.Context, cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := journal.Open(cfg.DatabaseURL, cfg.JournalSize)
	if err != nil {
		return err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}

	var p *prefs.Store
	if cfg.PrefsApp != "" {
		p = prefs.Open(cfg.PrefsApp, log)
	} else {
		p = prefs.New(nil, log)
	}

	client := simapi.NewClient(cfg.APIBaseURL, simapi.WithTimeout(cfg.RequestTimeout), simapi.WithLogger(log))
	h := hub.NewHub(ctx, func(ctx context.Context, code string, release func(*shell.Shell)) *shell.Shell {
		return shell.New(ctx, client,
			shell.WithID(code),
			shell.WithJournal(store),
			shell.WithLogger(log),
			shell.WithPollInterval(cfg.PollInterval),
			shell.WithIdleTimeout(cfg.SessionIdle, release))
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(httpapi.Deps{Hub: h, Journal: store, Prefs: p, Log: log}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return multierr.Combine(srv.Shutdown(shutdownCtx), h.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
