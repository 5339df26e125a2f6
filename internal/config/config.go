package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string `yaml:"log-level" env:"SNAKES_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log-format" env:"SNAKES_LOG_FORMAT" env-default:"text"`
	Server    Server `yaml:"server"`
	Player    Player `yaml:"player"`
	Redis     Redis  `yaml:"redis"`
}

type Server struct {
	URL              string        `yaml:"url" env:"SNAKES_SERVER_URL"`
	HandshakeTimeout time.Duration `yaml:"handshake-timeout" env:"SNAKES_HANDSHAKE_TIMEOUT" env-default:"10s"`
	SendBuffer       int           `yaml:"send-buffer" env:"SNAKES_SEND_BUFFER" env-default:"16"`
	StrictEvents     bool          `yaml:"strict-events" env:"SNAKES_STRICT_EVENTS" env-default:"false"`
}

type Player struct {
	Name     string `yaml:"name" env:"SNAKES_PLAYER_NAME"`
	Profile  string `yaml:"profile" env:"SNAKES_PROFILE" env-default:"default"`
	Strategy string `yaml:"strategy" env:"SNAKES_STRATEGY" env-default:"clockwise"`
}

// Redis configures the optional transcript of every frame. It is disabled when Addr is empty.
type Redis struct {
	Addr   string `yaml:"addr" env:"SNAKES_REDIS_ADDR"`
	Stream string `yaml:"stream" env:"SNAKES_REDIS_STREAM" env-default:"snakes:transcript"`
}

// Load reads the yml file at path and applies environment overrides.
// A missing file is not an error; the configuration then comes from the environment alone.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); path == "" || errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Server.HandshakeTimeout <= 0 {
		return nil, fmt.Errorf("handshake-timeout must be positive, got %s", config.Server.HandshakeTimeout)
	}
	if config.Server.SendBuffer < 1 {
		return nil, fmt.Errorf("send-buffer must be at least 1, got %d", config.Server.SendBuffer)
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
