package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// Load reads and validates a seed file.
func Load(path string) (store.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return store.Seed{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates seed YAML. A plain-text password is hashed.
func Parse(data []byte) (store.Seed, error) {
	f, err := decode(data)
	if err != nil {
		return store.Seed{}, err
	}

	s := f.Seed
	if s.PasswordHash == "" && f.Password != "" {
		hash, err := store.HashPassword(f.Password)
		if err != nil {
			return store.Seed{}, fmt.Errorf("hash password: %w", err)
		}
		s.PasswordHash = hash
	}
	return s, nil
}

func decode(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := Validate(f.Seed); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks that every entity has a unique id, every enum holds a known
// value, and every cross reference resolves.
func Validate(s store.Seed) error {
	users, err := index("users", s.Users, func(u *models.User) string { return u.ID })
	if err != nil {
		return err
	}
	projects, err := index("projects", s.Projects, func(p *models.Project) string { return p.ID })
	if err != nil {
		return err
	}
	if _, err := index("tasks", s.Tasks, func(t *models.Task) string { return t.ID }); err != nil {
		return err
	}
	if _, err := index("files", s.Files, func(f *models.File) string { return f.ID }); err != nil {
		return err
	}
	if _, err := index("milestones", s.Milestones, func(m *models.Milestone) string { return m.ID }); err != nil {
		return err
	}
	if _, err := index("messages", s.Messages, func(m *models.Message) string { return m.ID }); err != nil {
		return err
	}
	if _, err := index("notifications", s.Notifications, func(n *models.Notification) string { return n.ID }); err != nil {
		return err
	}

	if s.CurrentUser == nil || s.CurrentUser.ID == "" {
		return fmt.Errorf("current_user: id is required")
	}
	if !users[s.CurrentUser.ID] {
		return fmt.Errorf("current_user: unknown user %q", s.CurrentUser.ID)
	}

	for i, p := range s.Projects {
		if !p.Status.IsValid() {
			return fmt.Errorf("projects[%d]: invalid status %q", i, p.Status)
		}
		for _, id := range p.Team {
			if !users[id] {
				return fmt.Errorf("projects[%d]: unknown team member %q", i, id)
			}
		}
	}

	for i, t := range s.Tasks {
		if !t.Status.IsValid() {
			return fmt.Errorf("tasks[%d]: invalid status %q", i, t.Status)
		}
		if !t.Priority.IsValid() {
			return fmt.Errorf("tasks[%d]: invalid priority %q", i, t.Priority)
		}
		if !users[t.AssigneeID] {
			return fmt.Errorf("tasks[%d]: unknown assignee %q", i, t.AssigneeID)
		}
		if !projects[t.ProjectID] {
			return fmt.Errorf("tasks[%d]: unknown project %q", i, t.ProjectID)
		}
		seen := make(map[string]bool, len(t.Subtasks))
		for _, st := range t.Subtasks {
			if st.ID == "" || seen[st.ID] {
				return fmt.Errorf("tasks[%d]: missing or duplicate subtask id %q", i, st.ID)
			}
			seen[st.ID] = true
		}
	}

	for i, f := range s.Files {
		if !users[f.UploaderID] {
			return fmt.Errorf("files[%d]: unknown uploader %q", i, f.UploaderID)
		}
		if !projects[f.ProjectID] {
			return fmt.Errorf("files[%d]: unknown project %q", i, f.ProjectID)
		}
	}

	for i, m := range s.Milestones {
		if !m.Status.IsValid() {
			return fmt.Errorf("milestones[%d]: invalid status %q", i, m.Status)
		}
		if !projects[m.ProjectID] {
			return fmt.Errorf("milestones[%d]: unknown project %q", i, m.ProjectID)
		}
	}

	for i, m := range s.Messages {
		if !users[m.UserID] {
			return fmt.Errorf("messages[%d]: unknown author %q", i, m.UserID)
		}
	}

	for i, n := range s.Notifications {
		if !n.Type.IsValid() {
			return fmt.Errorf("notifications[%d]: invalid type %q", i, n.Type)
		}
	}

	return nil
}

func index[T any](name string, items []*T, id func(*T) string) (map[string]bool, error) {
	ids := make(map[string]bool, len(items))
	for i, it := range items {
		if it == nil {
			return nil, fmt.Errorf("%s[%d]: empty entry", name, i)
		}
		key := id(it)
		if key == "" {
			return nil, fmt.Errorf("%s[%d]: id is required", name, i)
		}
		if ids[key] {
			return nil, fmt.Errorf("%s[%d]: duplicate id %q", name, i, key)
		}
		ids[key] = true
	}
	return ids, nil
}
