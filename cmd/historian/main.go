// cmd/historian/main.go drains the action log queue the game server publishes to
// and archives it in Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	if os.Getenv("VERBOSE") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatalf("historian exited: %v", err)
	}
	logger.Info("Historian shutdown complete.")
}

func run(ctx context.Context, logger *logrus.Logger) error {
	pool, err := database.Connect(ctx, database.ConnString())
	if err != nil {
		return err
	}
	defer pool.Close()

	store := database.NewActionStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	rdb, err := cache.ConnectRedis(ctx, getEnv("REDIS_ADDR", "localhost:6379"), getEnvInt("REDIS_DB", 0))
	if err != nil {
		return err
	}
	defer rdb.Close()

	cfg := historian.DefaultConfig()
	cfg.BatchSize = getEnvInt("HISTORIAN_BATCH_SIZE", cfg.BatchSize)
	cfg.FlushInterval = time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", int(cfg.FlushInterval/time.Millisecond))) * time.Millisecond
	cfg.Inactivity = time.Duration(getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", int(cfg.Inactivity/time.Second))) * time.Second

	queue := cache.NewQueue(rdb, getEnv("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName))
	return historian.New(queue, store, cfg, logger).Run(ctx)
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
