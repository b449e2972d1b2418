package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

func main() {
	configPath := flag.String("config", "minitweet.yaml", "Path to YAML config file")
	envPath := flag.String("env", ".env", "Path to a .env file with MINITWEET_* variables")
	shell := flag.String("shell", "", "Front end to run: console or web")
	backend := flag.String("backend", "", "Feed backend: memory or sqlite")
	addr := flag.String("addr", "", "Listen address for the web shell")
	flag.Parse()

	cfg, err := loadSettings(*configPath, *envPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *shell != "" {
		cfg.Shell = *shell
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *addr != "" {
		cfg.Web.Addr = *addr
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSettings(configPath, envPath string, getenv func(string) string) (Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return Config{}, err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cfg Config, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, logFile, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	f, cleanup, err := openFeed(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Shell == "console" {
		return newConsole(f, stdin, stdout, logger).run()
	}

	srv, err := newServer(f, cfg.Web, logger)
	if err != nil {
		return err
	}
	logger.Info("listening", "addr", cfg.Web.Addr)
	fmt.Fprintf(stdout, "Listening on %s\n", cfg.Web.Addr)
	err = http.ListenAndServe(cfg.Web.Addr, srv.routes())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
