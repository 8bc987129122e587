// Package views holds the derived projections over store collections.
//
// Every function is pure: it reads the slices it is given, never modifies
// them, and returns entries in their original relative order.
package views

import (
	"strings"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// All is the filter value that disables a status or type filter.
const All = "all"

// ProjectQuery narrows the dashboard project list.
type ProjectQuery struct {
	Search string `json:"search"`
	Status string `json:"status"` // All, empty, or a models.ProjectStatus
}

// FilterProjects returns projects whose title or description contains the
// search text (case-insensitive) and whose status matches.
func FilterProjects(projects []*models.Project, q ProjectQuery) []*models.Project {
	search := strings.ToLower(q.Search)
	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if !matchesFilter(q.Status, string(p.Status)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FileQuery narrows the file list.
type FileQuery struct {
	Search string `json:"search"`
	Type   string `json:"type"` // All, empty, or a file extension
}

// FilterFiles returns files whose name contains the search text
// (case-insensitive) and whose type matches exactly.
func FilterFiles(files []*models.File, q FileQuery) []*models.File {
	search := strings.ToLower(q.Search)
	out := make([]*models.File, 0, len(files))
	for _, f := range files {
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		if !matchesFilter(q.Type, f.Type) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FileTypes lists the distinct file types in first-seen order.
func FileTypes(files []*models.File) []string {
	seen := make(map[string]bool, len(files))
	var out []string
	for _, f := range files {
		if f.Type == "" || seen[f.Type] {
			continue
		}
		seen[f.Type] = true
		out = append(out, f.Type)
	}
	return out
}

// IsTaskOverdue reports whether the task's due date is before now and the
// task is not completed. Unparseable dates are never overdue.
func IsTaskOverdue(t *models.Task, now time.Time) bool {
	return t.Status != models.TaskStatusCompleted && isPast(t.DueDate, now)
}

// IsProjectOverdue applies the same rule to a project deadline.
func IsProjectOverdue(p *models.Project, now time.Time) bool {
	return p.Status != models.ProjectStatusCompleted && isPast(p.Deadline, now)
}

// OnlineUsers returns the users currently flagged online.
func OnlineUsers(users []*models.User) []*models.User {
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.Online {
			out = append(out, u)
		}
	}
	return out
}

// TeamMembers resolves user ids to users in id order, dropping unknown ids.
func TeamMembers(users []*models.User, ids []string) []*models.User {
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func matchesFilter(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

func isPast(date string, now time.Time) bool {
	d, ok := models.ParseDate(date)
	if !ok {
		return false
	}
	return d.Before(now)
}
