// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(ctx))
}

func newLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// serve runs the game server until ctx is cancelled.
func serve(ctx context.Context, cfg *Config) error {
	logger := newLogger(cfg)

	var actions game.ActionPublisher
	if cfg.redisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.redisAddr, cfg.redisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		actions = cache.NewPublisher(rdb, cfg.historianQueue)
		logger.Infof("Publishing action log to redis %s (queue %s)", cfg.redisAddr, cfg.historianQueue)
	} else {
		logger.Info("No redis address configured, action log disabled")
	}

	gs := handlers.NewGameServer(logger, actions)
	gs.PublicURL = cfg.publicURL

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           handlers.NewRouter(gs, cfg.staticDir),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
		// Sockets hang off the request context; cancelling it on shutdown closes them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
