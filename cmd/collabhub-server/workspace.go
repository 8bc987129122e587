package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/notifier"
	"github.com/good-yellow-bee/collabhub/internal/seed"
	"github.com/good-yellow-bee/collabhub/internal/storage"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// coordinatorConfig converts the workspace timings.
func (c *WorkspaceConfig) coordinatorConfig() coordinator.Config {
	return coordinator.Config{
		TypingWindow:   duration(c.TypingWindow),
		ReplyDelay:     duration(c.ReplyDelay),
		UploadInterval: duration(c.UploadInterval),
		UploadStep:     c.UploadStep,
		CurrentWeek:    c.CurrentWeek,
		TotalWeeks:     c.TotalWeeks,
	}
}

// loadSeed returns the configured seed file, or the built-in workspace.
func loadSeed(path string) (store.Seed, error) {
	if path == "" {
		return seed.Default(), nil
	}
	s, err := seed.Load(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("load seed: %w", err)
	}
	return s, nil
}

// restoreSeed prefers a saved snapshot over the fallback seed.
func restoreSeed(ctx context.Context, db *storage.SQLiteStorage, fallback store.Seed) (store.Seed, bool, error) {
	saved, err := db.Load(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return fallback, false, nil
	}
	if err != nil {
		return store.Seed{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	return saved, true, nil
}

// buildDispatcher registers the enabled outbound channels. Email goes to the
// current user's address unless recipients are configured.
func buildDispatcher(cfg NotificationsConfig, st *store.Store) (*notifier.Dispatcher, error) {
	d := notifier.NewDispatcherWithRateLimit(cfg.RateLimit.rateLimit())

	if cfg.Slack.Enabled {
		slack, err := notifier.NewSlackNotifier(cfg.Slack.SlackConfig)
		if err != nil {
			return nil, err
		}
		d.Register(slack)
	}

	if cfg.Email.Enabled {
		email, err := notifier.NewEmailNotifier(cfg.Email.EmailConfig, func() []string {
			if u := st.CurrentUser(); u.Email != "" {
				return []string{u.Email}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		d.Register(email)
	}

	return d, nil
}
