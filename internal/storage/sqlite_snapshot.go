package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// snapshotTables are cleared before every save, in this order.
var snapshotTables = []string{
	"notifications", "messages", "milestones", "files", "tasks", "projects", "users", "workspace",
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Save replaces the stored snapshot with seed in a single transaction.
func (s *SQLiteStorage) Save(ctx context.Context, seed store.Seed) (err error) {
	start := time.Now()
	defer func() { observe("save", start, err) }()

	if s.db == nil {
		return fmt.Errorf("database not open")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range snapshotTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	current := seed.CurrentUser
	if current == nil {
		current = &models.User{}
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO workspace (id, current_user_json, password_hash, saved_at) VALUES (1, ?, ?, ?)",
		string(currentJSON), seed.PasswordHash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}

	if err = insertAll(ctx, tx, "users", `
		INSERT INTO users (id, position, name, email, role, phone, university, avatar, online)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Users, func(pos int, u *models.User) ([]any, error) {
			return []any{u.ID, pos, u.Name, u.Email, u.Role, u.Phone, u.University, u.Avatar, u.Online}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "projects", `
		INSERT INTO projects (id, position, title, description, progress, deadline, team_json, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Projects, func(pos int, p *models.Project) ([]any, error) {
			team, err := encodeJSON(p.Team)
			if err != nil {
				return nil, err
			}
			return []any{p.ID, pos, p.Title, p.Description, p.Progress, p.Deadline, team, string(p.Status), p.CreatedAt}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "tasks", `
		INSERT INTO tasks (id, position, title, description, project_id, assignee_id, priority, status,
			due_date, subtasks_json, comments_json, attachments_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Tasks, func(pos int, t *models.Task) ([]any, error) {
			subtasks, err := encodeJSON(t.Subtasks)
			if err != nil {
				return nil, err
			}
			comments, err := encodeJSON(t.Comments)
			if err != nil {
				return nil, err
			}
			attachments, err := encodeJSON(t.Attachments)
			if err != nil {
				return nil, err
			}
			return []any{t.ID, pos, t.Title, t.Description, t.ProjectID, t.AssigneeID, string(t.Priority), string(t.Status),
				t.DueDate, subtasks, comments, attachments}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "files", `
		INSERT INTO files (id, position, name, type, size, uploader_id, upload_date, project_id, version, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Files, func(pos int, f *models.File) ([]any, error) {
			return []any{f.ID, pos, f.Name, f.Type, f.Size, f.UploaderID, f.UploadDate, f.ProjectID, f.Version, f.URL}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "milestones", `
		INSERT INTO milestones (id, position, title, week, status, project_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seed.Milestones, func(pos int, m *models.Milestone) ([]any, error) {
			return []any{m.ID, pos, m.Title, m.Week, string(m.Status), m.ProjectID}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "messages", `
		INSERT INTO messages (id, position, user_id, text, timestamp, attachments_json, reactions_json, thread_id, pinned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Messages, func(pos int, m *models.Message) ([]any, error) {
			attachments, err := encodeJSON(m.Attachments)
			if err != nil {
				return nil, err
			}
			reactions, err := encodeJSON(m.Reactions)
			if err != nil {
				return nil, err
			}
			return []any{m.ID, pos, m.UserID, m.Text, m.Timestamp, attachments, reactions, m.ThreadID, m.Pinned}, nil
		}); err != nil {
		return err
	}

	if err = insertAll(ctx, tx, "notifications", `
		INSERT INTO notifications (id, position, type, title, description, timestamp, read, link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seed.Notifications, func(pos int, n *models.Notification) ([]any, error) {
			return []any{n.ID, pos, string(n.Type), n.Title, n.Description, n.Timestamp, n.Read, n.Link}, nil
		}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrNoSnapshot when Save has never
// completed.
func (s *SQLiteStorage) Load(ctx context.Context) (seed store.Seed, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNoSnapshot) {
			observe("load", start, nil)
			return
		}
		observe("load", start, err)
	}()

	if s.db == nil {
		return store.Seed{}, fmt.Errorf("database not open")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Seed{}, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	var currentJSON string
	err = tx.QueryRowContext(ctx, "SELECT current_user_json, password_hash FROM workspace WHERE id = 1").
		Scan(&currentJSON, &seed.PasswordHash)
	if err == sql.ErrNoRows {
		return store.Seed{}, ErrNoSnapshot
	}
	if err != nil {
		return store.Seed{}, fmt.Errorf("get workspace: %w", err)
	}
	seed.CurrentUser = &models.User{}
	if err = json.Unmarshal([]byte(currentJSON), seed.CurrentUser); err != nil {
		return store.Seed{}, fmt.Errorf("decode current user: %w", err)
	}

	seed.Users, err = queryAll(ctx, tx, "users", `
		SELECT id, name, email, role, phone, university, avatar, online
		FROM users ORDER BY position`,
		func(rows *sql.Rows) (*models.User, error) {
			u := &models.User{}
			err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone, &u.University, &u.Avatar, &u.Online)
			return u, err
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Projects, err = queryAll(ctx, tx, "projects", `
		SELECT id, title, description, progress, deadline, team_json, status, created_at
		FROM projects ORDER BY position`,
		func(rows *sql.Rows) (*models.Project, error) {
			p := &models.Project{}
			var team string
			if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Progress, &p.Deadline, &team, &p.Status, &p.CreatedAt); err != nil {
				return nil, err
			}
			return p, decodeJSON(team, &p.Team)
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Tasks, err = queryAll(ctx, tx, "tasks", `
		SELECT id, title, description, project_id, assignee_id, priority, status, due_date,
			subtasks_json, comments_json, attachments_json
		FROM tasks ORDER BY position`,
		func(rows *sql.Rows) (*models.Task, error) {
			t := &models.Task{}
			var subtasks, comments, attachments string
			if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssigneeID, &t.Priority, &t.Status,
				&t.DueDate, &subtasks, &comments, &attachments); err != nil {
				return nil, err
			}
			if err := decodeJSON(subtasks, &t.Subtasks); err != nil {
				return nil, err
			}
			if err := decodeJSON(comments, &t.Comments); err != nil {
				return nil, err
			}
			return t, decodeJSON(attachments, &t.Attachments)
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Files, err = queryAll(ctx, tx, "files", `
		SELECT id, name, type, size, uploader_id, upload_date, project_id, version, url
		FROM files ORDER BY position`,
		func(rows *sql.Rows) (*models.File, error) {
			f := &models.File{}
			err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Size, &f.UploaderID, &f.UploadDate, &f.ProjectID, &f.Version, &f.URL)
			return f, err
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Milestones, err = queryAll(ctx, tx, "milestones", `
		SELECT id, title, week, status, project_id
		FROM milestones ORDER BY position`,
		func(rows *sql.Rows) (*models.Milestone, error) {
			m := &models.Milestone{}
			err := rows.Scan(&m.ID, &m.Title, &m.Week, &m.Status, &m.ProjectID)
			return m, err
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Messages, err = queryAll(ctx, tx, "messages", `
		SELECT id, user_id, text, timestamp, attachments_json, reactions_json, thread_id, pinned
		FROM messages ORDER BY position`,
		func(rows *sql.Rows) (*models.Message, error) {
			m := &models.Message{}
			var attachments, reactions string
			if err := rows.Scan(&m.ID, &m.UserID, &m.Text, &m.Timestamp, &attachments, &reactions, &m.ThreadID, &m.Pinned); err != nil {
				return nil, err
			}
			if err := decodeJSON(attachments, &m.Attachments); err != nil {
				return nil, err
			}
			return m, decodeJSON(reactions, &m.Reactions)
		})
	if err != nil {
		return store.Seed{}, err
	}

	seed.Notifications, err = queryAll(ctx, tx, "notifications", `
		SELECT id, type, title, description, timestamp, read, link
		FROM notifications ORDER BY position`,
		func(rows *sql.Rows) (*models.Notification, error) {
			n := &models.Notification{}
			err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Description, &n.Timestamp, &n.Read, &n.Link)
			return n, err
		})
	if err != nil {
		return store.Seed{}, err
	}

	return seed, nil
}

// SavedAt returns when the stored snapshot was written, or ErrNoSnapshot.
func (s *SQLiteStorage) SavedAt(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, fmt.Errorf("database not open")
	}
	var savedAt time.Time
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM workspace WHERE id = 1").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get saved_at: %w", err)
	}
	return savedAt, nil
}

func insertAll[T any](ctx context.Context, tx *sql.Tx, table, query string, items []*T, args func(pos int, v *T) ([]any, error)) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i, it := range items {
		if it == nil {
			continue
		}
		values, err := args(i, it)
		if err != nil {
			return fmt.Errorf("encode %s row %d: %w", table, i, err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func queryAll[T any](ctx context.Context, q querier, table, query string, scan func(*sql.Rows) (*T, error)) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON[T any](s string, dst *T) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}
