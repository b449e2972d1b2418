package main

import (
	"fmt"
	"log/slog"

	"minitweet/feed"
)

// sqliteDSN keeps the SQLite backend in memory; nothing outlives the process.
const sqliteDSN = ":memory:"

// openFeed builds the configured backend and wraps it with the event
// publisher when AMQP is configured. The returned cleanup is never nil.
func openFeed(cfg Config, logger *slog.Logger) (feed.Feed, func(), error) {
	creds, err := feed.CredentialsFor(cfg.PasswordHashing)
	if err != nil {
		return nil, nil, err
	}

	var f feed.Feed
	var closers []func() error
	switch cfg.Backend {
	case "sqlite":
		store, err := feed.OpenSQLStore(sqliteDSN, feed.WithCredentials(creds))
		if err != nil {
			return nil, nil, err
		}
		f = store
		closers = append(closers, store.Close)
	case "memory":
		f = feed.NewStore(feed.WithCredentials(creds))
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.AMQP.URL != "" {
		pub, err := NewRabbitPublisher(cfg.AMQP)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		f = &publishingFeed{Feed: f, pub: pub, logger: logger}
		closers = append(closers, pub.Close)
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup failed", "error", err)
			}
		}
	}
	logger.Info("feed ready", "backend", cfg.Backend, "password_hashing", cfg.PasswordHashing,
		"events", cfg.AMQP.URL != "")
	return f, cleanup, nil
}
