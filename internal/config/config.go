package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Play     Play   `yaml:"play"`
}

// Redis is optional: with an empty host the server keeps sessions in memory.
type Redis struct {
	Host string        `yaml:"host" env:"REDIS_HOST"`
	Port string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL  time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// Play configures the local terminal game.
type Play struct {
	Skin string `yaml:"skin" env:"TTT_SKIN" env-default:"plain"`
	X    string `yaml:"x" env:"TTT_PLAYER_X" env-default:"human"`
	O    string `yaml:"o" env:"TTT_PLAYER_O" env-default:"random"`
	Seed uint64 `yaml:"seed" env:"TTT_SEED"`
}

// Load reads path when it exists and applies environment overrides on top.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) Enabled() bool {
	return that.Host != ""
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
