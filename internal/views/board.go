package views

import (
	"sort"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// Scope narrows the task board by assignee.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine"
	ScopeTeam Scope = "team"
)

// ParseScope converts a string to Scope. "my" is accepted for mine; anything
// unknown means all.
func ParseScope(s string) Scope {
	switch s {
	case "mine", "my":
		return ScopeMine
	case "team":
		return ScopeTeam
	default:
		return ScopeAll
	}
}

// BoardQuery narrows the task board.
type BoardQuery struct {
	Scope         Scope
	CurrentUserID string
}

// Column is one board partition.
type Column struct {
	Status models.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Tasks  []*models.Task    `json:"tasks"`
}

// Board partitions tasks into the three fixed columns by exact status.
// Tasks with any other status appear in no column.
func Board(tasks []*models.Task, q BoardQuery) []Column {
	cols := make([]Column, len(models.BoardColumns))
	index := make(map[models.TaskStatus]int, len(cols))
	for i, st := range models.BoardColumns {
		cols[i] = Column{Status: st, Title: st.Title(), Tasks: []*models.Task{}}
		index[st] = i
	}

	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok || !inScope(t, q) {
			continue
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

func inScope(t *models.Task, q BoardQuery) bool {
	switch q.Scope {
	case ScopeMine:
		return t.AssigneeID == q.CurrentUserID
	case ScopeTeam:
		return t.AssigneeID != q.CurrentUserID
	default:
		return true
	}
}

// SortStable returns a copy of tasks ordered by due date then id. Tasks
// whose due dates do not parse sort last; equal keys keep input order.
func SortStable(tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := models.ParseDate(out[i].DueDate)
		dj, jok := models.ParseDate(out[j].DueDate)
		switch {
		case iok != jok:
			return iok
		case iok && !di.Equal(dj):
			return di.Before(dj)
		}
		return idLess(out[i].ID, out[j].ID)
	})
	return out
}

// idLess orders numeric ids numerically and falls back to string order.
func idLess(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
