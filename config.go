package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is read from the YAML file, then overridden by MINITWEET_* variables.
type Config struct {
	Shell           string     `yaml:"shell"`
	Backend         string     `yaml:"backend"`
	PasswordHashing string     `yaml:"password_hashing"`
	LogLevel        string     `yaml:"log_level"`
	LogFile         string     `yaml:"log_file"`
	Web             WebConfig  `yaml:"web"`
	AMQP            AMQPConfig `yaml:"amqp"`
}

type WebConfig struct {
	Addr          string `yaml:"addr"`
	SessionSecret string `yaml:"session_secret"`
	PerPage       int    `yaml:"per_page"`
}

// AMQPConfig enables the event publisher when URL is set.
type AMQPConfig struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

func defaultConfig() Config {
	return Config{
		Shell:           "console",
		Backend:         "memory",
		PasswordHashing: "plain",
		LogLevel:        "warn",
		Web: WebConfig{
			Addr:          ":5000",
			SessionSecret: "development key",
			PerPage:       30,
		},
		AMQP: AMQPConfig{
			Queue: "tweet_events",
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// loadDotEnv exports the variables in path unless they are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Shell, "MINITWEET_SHELL")
	set(&c.Backend, "MINITWEET_BACKEND")
	set(&c.PasswordHashing, "MINITWEET_PASSWORD_HASHING")
	set(&c.LogLevel, "MINITWEET_LOG_LEVEL")
	set(&c.LogFile, "MINITWEET_LOG_FILE")
	set(&c.Web.Addr, "MINITWEET_ADDR")
	set(&c.Web.SessionSecret, "MINITWEET_SECRET")
	set(&c.AMQP.URL, "MINITWEET_AMQP_URL")
	set(&c.AMQP.Queue, "MINITWEET_AMQP_QUEUE")

	if v := getenv("MINITWEET_PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MINITWEET_PER_PAGE: %w", err)
		}
		c.Web.PerPage = n
	}
	return nil
}

// Validate rejects values main cannot act on.
func (c Config) Validate() error {
	var errs []error
	switch c.Shell {
	case "console", "web":
	default:
		errs = append(errs, fmt.Errorf("shell must be console or web, got %q", c.Shell))
	}
	switch c.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("backend must be memory or sqlite, got %q", c.Backend))
	}
	switch c.PasswordHashing {
	case "plain", "bcrypt":
	default:
		errs = append(errs, fmt.Errorf("password_hashing must be plain or bcrypt, got %q", c.PasswordHashing))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Web.PerPage <= 0 {
		errs = append(errs, fmt.Errorf("web.per_page must be positive, got %d", c.Web.PerPage))
	}
	if c.Shell == "web" && c.Web.SessionSecret == "" {
		errs = append(errs, errors.New("web.session_secret must be set"))
	}
	return errors.Join(errs...)
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// setupLogger returns a text logger on stderr, or on LogFile when set.
// The returned closer is nil when logging to stderr.
func setupLogger(c Config) (*slog.Logger, io.Closer, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if c.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}
