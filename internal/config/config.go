package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Redis    RedisConfig     `mapstructure:"redis"`
	JWT      JWTConfig       `mapstructure:"jwt"`
	Admin    AdminSeedConfig `mapstructure:"admin"`
	Solver   SolverConfig    `mapstructure:"solver"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty disables the result cache
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type AdminSeedConfig struct {
	DefaultUsername string `mapstructure:"defaultUsername"`
	DefaultPassword string `mapstructure:"defaultPassword"`
}

type SolverConfig struct {
	Workers  int           `mapstructure:"workers"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
	Persist  bool          `mapstructure:"persist"`
	MaxBatch int           `mapstructure:"maxBatch"`
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "psychic.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("admin.defaultUsername", "admin")
	v.SetDefault("admin.defaultPassword", "")
	v.SetDefault("solver.workers", 8)
	v.SetDefault("solver.cacheTTL", "24h")
	v.SetDefault("solver.persist", true)
	v.SetDefault("solver.maxBatch", 1000)
}

// Load reads a YAML file; PSYCHIC_* environment variables override keys,
// e.g. PSYCHIC_REDIS_ADDR for redis.addr. Only keys with a default are
// picked up from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("psychic")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in defaults without reading a file.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Unable to build default config, %v", err)
	}
	return cfg
}

func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
	GlobalConfig = cfg
}
