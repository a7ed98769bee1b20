package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	InterfaceConsole = "console"
	InterfaceHTTP    = "http"
)

type Config struct {
	LogLevel  string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Interface string `yaml:"interface" env:"INTERFACE" env-default:"console"`
	HTTPPort  string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Game      Game   `yaml:"game"`
	Voice     Voice  `yaml:"voice"`
	Redis     Redis  `yaml:"redis"`
}

// Game - settings of the first game; the console can change them later.
type Game struct {
	Mode       string `yaml:"mode" env:"GAME_MODE" env-default:"pvc"`
	Difficulty string `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"hard"`
	HumanMark  string `yaml:"human-mark" env:"GAME_HUMAN_MARK" env-default:"x"`
}

type Voice struct {
	Timeout time.Duration `yaml:"timeout" env:"VOICE_TIMEOUT" env-default:"5s"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load configuration from the yml file at path, or from the
// environment alone when the file does not exist. A .env file in the
// working directory is applied first if present.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
