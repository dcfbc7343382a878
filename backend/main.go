package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banglaixanh/backend/global"
	"banglaixanh/backend/initialize"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config yaml")
	flag.Parse()

	app, err := initialize.Build(*configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("build app")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              app.Cfg.HTTP.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		t := time.NewTicker(app.Cfg.Storage.LinkTTL)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				app.Sweep()
			}
		}
	}()

	go func() {
		global.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			global.Logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		global.Logger.Error().Err(err).Msg("shutdown")
	}
	global.Logger.Info().Msg("server stopped")
}
