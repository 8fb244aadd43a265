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

	"opinio/internal/app"
	"opinio/internal/config"
	"opinio/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	Addr     string
	APIHost  string
	Fragment string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the engine behind the HTTP control API",
		Example: "  opinio serve --addr :8090 --api-host http://localhost:8080",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if opts.Addr != "" {
				cfg.Addr = opts.Addr
			}
			if opts.APIHost != "" {
				cfg.APIHost = opts.APIHost
			}
			return serve(cmd.Context(), cfg, opts.Fragment)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "HTTP listen address (defaults OPINIO_ADDR or "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.APIHost, "api-host", "", "Backend base URL (defaults OPINIO_API_HOST or "+config.DefaultAPIHost+")")
	cmd.Flags().StringVar(&opts.Fragment, "fragment", "#/about", "Location fragment the engine boots at")
	return cmd
}

func serve(parent context.Context, cfg config.Config, fragment string) error {
	if parent == nil {
		parent = context.Background()
	}
	log, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	a, err := app.New(app.Options{
		APIHost:          cfg.APIHost,
		HTTPTimeout:      cfg.HTTPTimeout(),
		StatusClearDelay: cfg.StatusClearDelay(),
		MaxInFlight:      cfg.MaxInflightEffects,
		EffectMaxWait:    cfg.EffectMaxWait(),
		GithubClientID:   cfg.GithubClientID,
		OAuthRedirectURL: cfg.OAuthRedirectURL,
		Logger:           &log,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetDispatchTimeout(cfg.HTTPTimeout())
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	if err := a.Boot(ctx, fragment); err != nil {
		log.Warn().Err(err).Str("fragment", fragment).Msg("boot")
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(a), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("api_host", cfg.APIHost).Msg("opinio listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	a.Close()
	if err := a.Drain(sctx); err != nil {
		log.Warn().Err(err).Msg("drain")
	}
	return nil
}
