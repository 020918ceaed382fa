package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  grid_width: 20
  grid_height: 12
  difficulty: 3
ai:
  iterations: 6
  exploration:
    easy: 0.5
server:
  grpc_server:
    port: 8080
cache:
  backend: redis
  redis:
    addr: "redis:6379"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 20, c.Game.GridWidth)
	assert.Equal(t, 12, c.Game.GridHeight)
	assert.Equal(t, 3, c.Game.Difficulty)
	assert.Equal(t, 6, c.AI.Iterations)
	assert.Equal(t, 0.5, c.AI.Exploration.Easy)
	assert.Equal(t, 8080, c.Server.GRPCServer.Port)
	assert.Equal(t, CacheBackendRedis, c.Cache.Backend)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.Equal(t, configFile, ConfigFilePath())

	// untouched keys keep their defaults
	assert.Equal(t, 100, c.Game.MaxScore)
	assert.Equal(t, "rwb:field:", c.Cache.Redis.KeyPrefix)
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 16, c.Game.GridWidth)
	assert.Equal(t, 16, c.Game.GridHeight)
	assert.Equal(t, 1, c.Game.Difficulty)
	assert.Equal(t, []float64{0.05, 0.15, 0.25, 0.35}, c.Game.WaterChances)
	assert.Equal(t, 3, c.Game.StartInset)
	assert.Equal(t, 4, c.Game.MaxPlayers)
	assert.Equal(t, 50, c.AI.MaxIterations)
	assert.Equal(t, 3, c.AI.Iterations)
	assert.Equal(t, 0.0, c.AI.Exploration.Hard)
	assert.Equal(t, 50051, c.Server.GRPCServer.Port)
	assert.Equal(t, CacheBackendMemory, c.Cache.Backend)
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("RWB_AI_ITERATIONS", "8")
	t.Setenv("RWB_SERVER_GRPC_SERVER_PORT", "9090")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 8, c.AI.Iterations)
	assert.Equal(t, 9090, c.Server.GRPCServer.Port)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	Set("game.max_score", 250)
	Set("ai.workers", 2)

	c := Get()
	assert.Equal(t, 250, c.Game.MaxScore)
	assert.Equal(t, 2, c.AI.Workers)
	assert.Equal(t, 250, GetInt("game.max_score"))
	assert.Equal(t, "console", GetString("server.log_format"))
	assert.Equal(t, 0.3, GetFloat64("ai.exploration.easy"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(baseConfig, []byte(`
game:
  grid_width: 12
server:
  grpc_server:
    port: 50051
`), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.prod.yaml"), []byte(`
game:
  grid_width: 24
server:
  log_level: "error"
  grpc_server:
    port: 8080
`), 0644))

	t.Chdir(tmpDir)

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 24, c.Game.GridWidth)
	assert.Equal(t, 8080, c.Server.GRPCServer.Port)
	assert.Equal(t, "error", c.Server.LogLevel)
}

func TestValidate(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))
	base := *Get()

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"grid too small", func(c *Config) { c.Game.GridWidth = 9 }},
		{"no score", func(c *Config) { c.Game.MaxScore = 0 }},
		{"difficulty out of range", func(c *Config) { c.Game.Difficulty = 4 }},
		{"missing water chance", func(c *Config) { c.Game.WaterChances = []float64{0.1, 0.2} }},
		{"water chance above one", func(c *Config) { c.Game.WaterChances = []float64{0.1, 0.2, 0.3, 1.2} }},
		{"negative iterations", func(c *Config) { c.AI.Iterations = -1 }},
		{"no iteration cap", func(c *Config) { c.AI.MaxIterations = 0 }},
		{"iterations above cap", func(c *Config) { c.AI.Iterations = c.AI.MaxIterations + 1 }},
		{"exploration above one", func(c *Config) { c.AI.Exploration.Easy = 1.1 }},
		{"bad port", func(c *Config) { c.Server.GRPCServer.Port = 70000 }},
		{"no games", func(c *Config) { c.Server.GRPCServer.MaxGames = 0 }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheBackendRedis; c.Cache.Redis.Addr = "" }},
	}

	assert.NoError(t, Validate(&base))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Game.WaterChances = append([]float64(nil), base.Game.WaterChances...)
			tt.modify(&c)
			assert.Error(t, Validate(&c))
		})
	}
}

func TestWatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("ai:\n  iterations: 4\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	changed := make(chan struct{}, 4)
	WatchConfig(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)

	require.NoError(t, os.WriteFile(configFile, []byte("ai:\n  iterations: 7\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-changed:
			if Get().AI.Iterations == 7 {
				return
			}
		case <-deadline:
			t.Fatal("config change was not picked up")
		}
	}
}
