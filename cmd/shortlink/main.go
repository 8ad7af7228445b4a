package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/geo"
	"github.com/vadimbarashkov/shortlink/internal/logsink"
	"github.com/vadimbarashkov/shortlink/internal/registry"
	"github.com/vadimbarashkov/shortlink/internal/service"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/vadimbarashkov/shortlink/internal/api/http"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("shortlink", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  cfg.Env != config.EnvProd,
	})

	urlRegistry := registry.New()
	resolver := geo.NewResolver(cfg.Geo.Endpoint, cfg.Geo.Timeout)
	sink := logsink.New(cfg.LogSink.Endpoint, cfg.LogSink.Token, cfg.LogSink.Timeout, logger.Logger)
	urlSvc := service.NewURLService(urlRegistry, resolver, cfg.ShortCodeLength, cfg.DefaultValidity)

	r := myhttp.NewRouter(logger, urlSvc, sink, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}
