package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func taskID(t *models.Task) string { return t.ID }

// Task returns the task with the given id.
func (s *Store) Task(id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.Tasks, id, taskID)
	if i < 0 {
		return nil, notFound(KindTask, id)
	}
	return s.state.Tasks[i], nil
}

// CreateTask appends a new task. Status defaults to todo, priority to medium
// and the project to the default project.
func (s *Store) CreateTask(params CreateTaskParams) (*models.Task, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.Task
	err := s.mutate(func() (Change, error) {
		if indexOf(s.state.Users, params.AssigneeID, userID) < 0 {
			return Change{}, invalid("assignee_id", "references unknown user "+params.AssigneeID)
		}
		projID := params.ProjectID
		if projID == "" {
			projID = defaultProjectID
		}
		if indexOf(s.state.Projects, projID, projectID) < 0 {
			return Change{}, invalid("project_id", "references unknown project "+projID)
		}

		t := &models.Task{
			ID:          s.nextID(KindTask),
			Title:       strings.TrimSpace(params.Title),
			Description: params.Description,
			ProjectID:   projID,
			AssigneeID:  params.AssigneeID,
			Priority:    params.Priority,
			Status:      params.Status,
			DueDate:     params.DueDate,
			Subtasks:    []models.SubTask{},
			Comments:    []models.Comment{},
			Attachments: append([]string{}, params.Attachments...),
		}
		if t.Priority == "" {
			t.Priority = models.PriorityMedium
		}
		if t.Status == "" {
			t.Status = models.TaskStatusTodo
		}
		for _, title := range params.Subtasks {
			if strings.TrimSpace(title) == "" {
				continue
			}
			t.Subtasks = append(t.Subtasks, models.SubTask{ID: newChildID("st"), Title: strings.TrimSpace(title)})
		}

		s.state.Tasks = appendOne(s.state.Tasks, t)
		created = t
		return Change{Kind: KindTask, Op: OpCreate, ID: t.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTask replaces the task with a shallow merge of its fields and upd and
// returns the new task collection. Every other task keeps its identity.
func (s *Store) UpdateTask(id string, upd TaskUpdate) ([]*models.Task, error) {
	if err := validateTaskUpdate(upd); err != nil {
		return nil, err
	}

	var out []*models.Task
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Tasks, id, taskID)
		if i < 0 {
			return Change{}, notFound(KindTask, id)
		}
		if upd.AssigneeID != nil && indexOf(s.state.Users, *upd.AssigneeID, userID) < 0 {
			return Change{}, invalid("assignee_id", "references unknown user "+*upd.AssigneeID)
		}
		if upd.ProjectID != nil && indexOf(s.state.Projects, *upd.ProjectID, projectID) < 0 {
			return Change{}, invalid("project_id", "references unknown project "+*upd.ProjectID)
		}

		t := mergeTask(s.state.Tasks[i], upd)
		s.state.Tasks = replaceAt(s.state.Tasks, i, t)
		out = s.state.Tasks
		return Change{Kind: KindTask, Op: OpUpdate, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetTaskStatus moves a task to another board column. Any column may move to
// any other; nothing else on the task changes.
func (s *Store) SetTaskStatus(id string, status models.TaskStatus) ([]*models.Task, error) {
	return s.UpdateTask(id, TaskUpdate{Status: &status})
}

// ToggleSubtask flips one subtask's completed flag and returns the updated
// task. Sibling subtasks and the task status are untouched.
func (s *Store) ToggleSubtask(taskID, subtaskID string) (*models.Task, error) {
	return s.editTask(taskID, func(t *models.Task) error {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].Completed = !t.Subtasks[i].Completed
				return nil
			}
		}
		return notFound(KindSubTask, subtaskID)
	})
}

// AddSubtask appends a new unchecked subtask to a task.
func (s *Store) AddSubtask(taskID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	return s.editTask(taskID, func(t *models.Task) error {
		t.Subtasks = append(t.Subtasks, models.SubTask{ID: newChildID("st"), Title: title})
		return nil
	})
}

// AddComment appends a comment authored by userID.
func (s *Store) AddComment(taskID, userID, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("text", "is required")
	}
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	return s.editTask(taskID, func(t *models.Task) error {
		t.Comments = append(t.Comments, models.Comment{
			ID:        newChildID("c"),
			UserID:    userID,
			Text:      text,
			Timestamp: s.timestamp(),
		})
		return nil
	})
}

// editTask applies fn to a clone of the task and swaps the clone in.
func (s *Store) editTask(id string, fn func(*models.Task) error) (*models.Task, error) {
	var updated *models.Task
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Tasks, id, taskID)
		if i < 0 {
			return Change{}, notFound(KindTask, id)
		}
		t := s.state.Tasks[i].Clone()
		if err := fn(t); err != nil {
			return Change{}, err
		}
		s.state.Tasks = replaceAt(s.state.Tasks, i, t)
		updated = t
		return Change{Kind: KindTask, Op: OpUpdate, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validateTaskUpdate(upd TaskUpdate) error {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return invalid("title", "is required")
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return invalid("status", "must be one of: todo inprogress completed")
	}
	if upd.Priority != nil && !upd.Priority.IsValid() {
		return invalid("priority", "must be one of: low medium high")
	}
	if upd.DueDate != nil {
		if _, ok := models.ParseDate(*upd.DueDate); !ok {
			return invalid("due_date", "must be a date (YYYY-MM-DD)")
		}
	}
	if upd.AssigneeID != nil && *upd.AssigneeID == "" {
		return invalid("assignee_id", "is required")
	}
	return nil
}

func mergeTask(orig *models.Task, upd TaskUpdate) *models.Task {
	t := orig.Clone()
	if upd.Title != nil {
		t.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.ProjectID != nil {
		t.ProjectID = *upd.ProjectID
	}
	if upd.AssigneeID != nil {
		t.AssigneeID = *upd.AssigneeID
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.DueDate != nil {
		t.DueDate = *upd.DueDate
	}
	if upd.Subtasks != nil {
		t.Subtasks = append([]models.SubTask{}, (*upd.Subtasks)...)
	}
	if upd.Comments != nil {
		t.Comments = append([]models.Comment{}, (*upd.Comments)...)
	}
	if upd.Attachments != nil {
		t.Attachments = append([]string{}, (*upd.Attachments)...)
	}
	return t
}

// newChildID returns an id for entries nested inside a task.
func newChildID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}
