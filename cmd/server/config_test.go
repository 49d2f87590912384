package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BIND", "REDIS_ADDR", "HISTORIAN_QUEUE_NAME"} {
		t.Setenv(key, "")
	}
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, 3000, cfg.port)
	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, "uno_actions", cfg.historianQueue)
	assert.Empty(t, cfg.redisAddr)
	assert.NoError(t, cfg.validate())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "4100")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("HISTORIAN_QUEUE_NAME", "actions")
	t.Setenv("VERBOSE", "true")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, 4100, cfg.port)
	assert.Equal(t, "redis:6379", cfg.redisAddr)
	assert.Equal(t, "actions", cfg.historianQueue)
	assert.True(t, cfg.verbose)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "4100")
	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "5000"}))
	assert.Equal(t, 5000, cfg.port)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Config{port: 3000, historianQueue: "q"}, true},
		{"port too low", Config{port: 0}, false},
		{"port too high", Config{port: 70000}, false},
		{"negative redis db", Config{port: 3000, redisDB: -1}, false},
		{"redis without queue", Config{port: 3000, redisAddr: "r:6379"}, false},
		{"public url", Config{port: 3000, publicURL: "https://uno.example.com"}, true},
		{"relative public url", Config{port: 3000, publicURL: "uno.example.com"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, "info", newLogger(&Config{}).GetLevel().String())
	assert.Equal(t, "debug", newLogger(&Config{verbose: true}).GetLevel().String())
}
