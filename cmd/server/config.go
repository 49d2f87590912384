package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	redisAddr      string
	redisDB        int
	historianQueue string
	staticDir      string
	publicURL      string
	verbose        bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.redisDB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.redisDB)
	}
	if c.redisAddr != "" && c.historianQueue == "" {
		return errors.New("--historian-queue-name must not be empty when --redis-addr is set")
	}
	if c.publicURL != "" {
		u, err := url.Parse(c.publicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public url: %q", c.publicURL)
		}
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "uno-server",
		Short:         "Realtime four-player card game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3000, "port to listen on (env: PORT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for the action log; empty disables it (env: REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: REDIS_DB)")
	fs.StringVar(&cfg.historianQueue, "historian-queue-name", cache.DefaultQueueName, "redis list the action log is pushed to (env: HISTORIAN_QUEUE_NAME)")
	fs.StringVar(&cfg.staticDir, "static-dir", "", "directory holding the browser client, served at / (env: STATIC_DIR)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "URL encoded in /qr.png; defaults to the request host (env: PUBLIC_URL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug output (env: VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
