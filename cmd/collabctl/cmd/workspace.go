package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/seed"
	"github.com/good-yellow-bee/collabhub/internal/shell"
	"github.com/good-yellow-bee/collabhub/internal/storage"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// session is one command's workspace: the shell plus, with --db, the
// snapshot it was loaded from.
type session struct {
	*shell.Shell
	db      *storage.SQLiteStorage
	version uint64
}

// openSession builds the workspace from the snapshot in --db when one has
// been saved, and from the seed otherwise.
func openSession(ctx context.Context, cfg coordinator.Config) (*session, error) {
	initial := seed.Default()
	if seedPath != "" {
		var err error
		initial, err = seed.Load(seedPath)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
	}

	var db *storage.SQLiteStorage
	if dbPath != "" {
		db = storage.NewSQLiteStorage(dbPath)
		if err := db.Open(); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		saved, err := db.Load(ctx)
		switch {
		case err == nil:
			initial = saved
		case errors.Is(err, storage.ErrNoSnapshot):
		default:
			db.Close()
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}

	st := store.New(initial)
	return &session{Shell: shell.New(st, cfg), db: db, version: st.Version()}, nil
}

// withSession opens a session, runs fn, and saves the workspace when fn
// changed it and --db is set.
func withSession(cmd *cobra.Command, cfg coordinator.Config, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(ctx, s); err != nil {
		return err
	}
	return s.save(ctx, cmd)
}

func (s *session) save(ctx context.Context, cmd *cobra.Command) error {
	st := s.Store()
	if st.Version() == s.version {
		return nil
	}
	if s.db == nil {
		PrintVerbose(cmd, "No --db given; changes are discarded.")
		return nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.db.Save(saveCtx, st.Export()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	PrintVerbose(cmd, "Saved workspace to %s", s.db.Path())
	return nil
}

func (s *session) close() {
	s.Close()
	if s.db != nil {
		s.db.Close()
	}
}
