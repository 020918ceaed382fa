package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game   GameConfig   `mapstructure:"game"`
	AI     AIConfig     `mapstructure:"ai"`
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// GameConfig holds board and scoring settings
type GameConfig struct {
	GridWidth    int       `mapstructure:"grid_width"`
	GridHeight   int       `mapstructure:"grid_height"`
	MaxScore     int       `mapstructure:"max_score"`
	Difficulty   int       `mapstructure:"difficulty"`
	WaterChances []float64 `mapstructure:"water_chances"`
	StartInset   int       `mapstructure:"start_inset"`
	MaxPlayers   int       `mapstructure:"max_players"`
}

// AIConfig holds solver and opponent settings
type AIConfig struct {
	Iterations    int               `mapstructure:"iterations"`
	MaxIterations int               `mapstructure:"max_iterations"` // cap on client-requested sweeps
	Workers       int               `mapstructure:"workers"`
	Exploration   ExplorationConfig `mapstructure:"exploration"`
}

// ExplorationConfig is the chance of a random legal move per AI controller
type ExplorationConfig struct {
	Easy float64 `mapstructure:"easy"`
	Hard float64 `mapstructure:"hard"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	LogLevel   string           `mapstructure:"log_level"`
	LogFormat  string           `mapstructure:"log_format"`
	GRPCServer GRPCServerConfig `mapstructure:"grpc_server"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	MaxGames              int    `mapstructure:"max_games"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// CacheConfig selects where solved fields are kept
type CacheConfig struct {
	Backend    string      `mapstructure:"backend"` // memory or redis
	MemorySize int         `mapstructure:"memory_size"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.grid_width", 16)
	v.SetDefault("game.grid_height", 16)
	v.SetDefault("game.max_score", 100)
	v.SetDefault("game.difficulty", 1)
	v.SetDefault("game.water_chances", []float64{0.05, 0.15, 0.25, 0.35})
	v.SetDefault("game.start_inset", 3)
	v.SetDefault("game.max_players", 4)

	// AI defaults
	v.SetDefault("ai.iterations", 3)
	v.SetDefault("ai.max_iterations", 50)
	v.SetDefault("ai.workers", 0)
	v.SetDefault("ai.exploration.easy", 0.3)
	v.SetDefault("ai.exploration.hard", 0.0)

	// Server defaults
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.grpc_server.host", "0.0.0.0")
	v.SetDefault("server.grpc_server.port", 50051)
	v.SetDefault("server.grpc_server.max_games", 100)
	v.SetDefault("server.grpc_server.enable_reflection", true)
	v.SetDefault("server.grpc_server.graceful_shutdown_delay", 5)

	// Cache defaults
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.memory_size", 64)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.ttl_seconds", 3600)
	v.SetDefault("cache.redis.key_prefix", "rwb:field:")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/rwb")
	}

	v.SetEnvPrefix("RWB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist falls back to defaults too
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A reload that fails
// validation is reported to onError and the previous config is kept.
func WatchConfig(onChange func(), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.GridWidth < 10 || c.Game.GridHeight < 10 {
		return fmt.Errorf("game grid must be at least 10x10, got %dx%d", c.Game.GridWidth, c.Game.GridHeight)
	}
	if c.Game.MaxScore <= 0 {
		return fmt.Errorf("game.max_score must be positive")
	}
	if c.Game.Difficulty < 0 || c.Game.Difficulty > 3 {
		return fmt.Errorf("game.difficulty must be between 0 and 3")
	}
	if len(c.Game.WaterChances) != 4 {
		return fmt.Errorf("game.water_chances must list one chance per difficulty, got %d", len(c.Game.WaterChances))
	}
	for i, p := range c.Game.WaterChances {
		if p < 0 || p > 1 {
			return fmt.Errorf("game.water_chances[%d] must be between 0 and 1", i)
		}
	}
	if c.Game.StartInset < 0 {
		return fmt.Errorf("game.start_inset must be non-negative")
	}
	if c.Game.MaxPlayers < 1 {
		return fmt.Errorf("game.max_players must be at least 1")
	}

	if c.AI.Iterations < 0 {
		return fmt.Errorf("ai.iterations must be non-negative")
	}
	if c.AI.MaxIterations < 1 {
		return fmt.Errorf("ai.max_iterations must be at least 1")
	}
	if c.AI.Iterations > c.AI.MaxIterations {
		return fmt.Errorf("ai.iterations %d exceeds ai.max_iterations %d", c.AI.Iterations, c.AI.MaxIterations)
	}
	if c.AI.Workers < 0 {
		return fmt.Errorf("ai.workers must be non-negative")
	}
	if c.AI.Exploration.Easy < 0 || c.AI.Exploration.Easy > 1 {
		return fmt.Errorf("ai.exploration.easy must be between 0 and 1")
	}
	if c.AI.Exploration.Hard < 0 || c.AI.Exploration.Hard > 1 {
		return fmt.Errorf("ai.exploration.hard must be between 0 and 1")
	}

	if c.Server.GRPCServer.Port <= 0 || c.Server.GRPCServer.Port > 65535 {
		return fmt.Errorf("server.grpc_server.port must be between 1 and 65535")
	}
	if c.Server.GRPCServer.MaxGames <= 0 {
		return fmt.Errorf("server.grpc_server.max_games must be positive")
	}
	if c.Server.GRPCServer.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc_server.graceful_shutdown_delay must be non-negative")
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
		if c.Cache.MemorySize <= 0 {
			return fmt.Errorf("cache.memory_size must be positive")
		}
	case CacheBackendRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr must be set for the redis backend")
		}
		if c.Cache.Redis.TTLSeconds < 0 {
			return fmt.Errorf("cache.redis.ttl_seconds must be non-negative")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.Cache.Backend)
	}

	return nil
}
