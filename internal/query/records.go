package query

import (
	"time"

	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// TaskRecord exposes a task's TaskFields values.
func TaskRecord(t *models.Task, now time.Time) map[string]any {
	due, _ := models.ParseDate(t.DueDate)
	return map[string]any{
		"id":             t.ID,
		"title":          t.Title,
		"description":    t.Description,
		"project_id":     t.ProjectID,
		"assignee_id":    t.AssigneeID,
		"priority":       string(t.Priority),
		"status":         string(t.Status),
		"due_date":       due,
		"overdue":        views.IsTaskOverdue(t, now),
		"subtasks_total": len(t.Subtasks),
		"subtasks_done":  t.CompletedSubtasks(),
		"comments":       len(t.Comments),
		"attachments":    stringsOrEmpty(t.Attachments),
	}
}

// FileRecord exposes a file's FileFields values.
func FileRecord(f *models.File) map[string]any {
	uploaded, _ := models.ParseDate(f.UploadDate)
	return map[string]any{
		"id":          f.ID,
		"name":        f.Name,
		"type":        f.Type,
		"uploader_id": f.UploaderID,
		"project_id":  f.ProjectID,
		"upload_date": uploaded,
		"version":     f.Version,
	}
}

// ProjectRecord exposes a project's ProjectFields values.
func ProjectRecord(p *models.Project, now time.Time) map[string]any {
	deadline, _ := models.ParseDate(p.Deadline)
	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"status":      string(p.Status),
		"progress":    p.Progress,
		"deadline":    deadline,
		"overdue":     views.IsProjectOverdue(p, now),
		"team":        stringsOrEmpty(p.Team),
	}
}

// Filter returns the items whose record matches q, in input order.
func Filter[T any](items []T, q *ParsedQuery, record func(T) map[string]any) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		ok, err := q.Match(record(it))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
