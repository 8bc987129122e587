package coordinator

import (
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// TaskDraft is the create-task form.
type TaskDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	AssigneeID  string          `json:"assignee_id"`
	DueDate     string          `json:"due_date"`
	ProjectID   string          `json:"project_id"`
	Subtasks    []string        `json:"subtasks"`
}

func newTaskDraft() TaskDraft {
	return TaskDraft{Priority: models.PriorityMedium}
}

// TaskBoard coordinates the kanban board and the task detail view.
type TaskBoard struct {
	base

	scope        views.Scope
	dialogOpen   bool
	draft        TaskDraft
	selectedID   string
	commentDraft string
}

// NewTaskBoard creates the task board coordinator.
func NewTaskBoard(st *store.Store, cfg Config) *TaskBoard {
	b := &TaskBoard{scope: views.ScopeAll, draft: newTaskDraft()}
	b.init(st, cfg, "tasks")
	return b
}

// SetScope sets the all/mine/team filter.
func (b *TaskBoard) SetScope(scope views.Scope) {
	b.mu.Lock()
	b.scope = scope
	b.mu.Unlock()
}

// Scope returns the current filter.
func (b *TaskBoard) Scope() views.Scope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scope
}

// Board returns the three columns for the current filter.
func (b *TaskBoard) Board() []views.Column {
	return b.BoardFor(b.Scope())
}

// BoardFor returns the columns for scope without changing the board filter.
func (b *TaskBoard) BoardFor(scope views.Scope) []views.Column {
	snap := b.store.Snapshot()
	return views.Board(snap.Tasks, views.BoardQuery{Scope: scope, CurrentUserID: snap.CurrentUser.ID})
}

// Overdue reports whether the task is past due and not completed.
func (b *TaskBoard) Overdue(t *models.Task) bool {
	return views.IsTaskOverdue(t, b.cfg.Now())
}

// OpenCreate opens the create dialog.
func (b *TaskBoard) OpenCreate() {
	b.mu.Lock()
	b.dialogOpen = true
	b.mu.Unlock()
}

// CloseCreate closes the create dialog and keeps the draft.
func (b *TaskBoard) CloseCreate() {
	b.mu.Lock()
	b.dialogOpen = false
	b.mu.Unlock()
}

// DialogOpen reports whether the create dialog is open.
func (b *TaskBoard) DialogOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dialogOpen
}

// Draft returns the create form.
func (b *TaskBoard) Draft() TaskDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

// SetDraft replaces the create form. An empty priority means medium.
func (b *TaskBoard) SetDraft(draft TaskDraft) {
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	b.mu.Lock()
	b.draft = draft
	b.mu.Unlock()
}

// SubmitTask creates a todo task from the draft and resets the form.
func (b *TaskBoard) SubmitTask() (*models.Task, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, f := range []struct{ name, value string }{
		{"title", b.draft.Title},
		{"assignee_id", b.draft.AssigneeID},
		{"due_date", b.draft.DueDate},
	} {
		if err := required(f.name, f.value); err != nil {
			return nil, err
		}
	}

	t, err := b.store.CreateTask(store.CreateTaskParams{
		Title:       b.draft.Title,
		Description: b.draft.Description,
		ProjectID:   b.draft.ProjectID,
		AssigneeID:  b.draft.AssigneeID,
		Priority:    b.draft.Priority,
		Status:      models.TaskStatusTodo,
		DueDate:     b.draft.DueDate,
		Subtasks:    b.draft.Subtasks,
	})
	if err != nil {
		return nil, err
	}

	b.draft = newTaskDraft()
	b.dialogOpen = false
	return t, nil
}

// Select opens the detail view for a task.
func (b *TaskBoard) Select(id string) error {
	if _, err := b.store.Task(id); err != nil {
		return err
	}
	b.mu.Lock()
	if b.selectedID != id {
		b.commentDraft = ""
	}
	b.selectedID = id
	b.mu.Unlock()
	return nil
}

// ClearSelection closes the detail view.
func (b *TaskBoard) ClearSelection() {
	b.mu.Lock()
	b.selectedID = ""
	b.commentDraft = ""
	b.mu.Unlock()
}

// Selected returns the selected task as currently stored, so nested lists
// such as comments are never stale.
func (b *TaskBoard) Selected() (*models.Task, bool) {
	b.mu.Lock()
	id := b.selectedID
	b.mu.Unlock()
	if id == "" {
		return nil, false
	}
	t, err := b.store.Task(id)
	if err != nil {
		return nil, false
	}
	return t, true
}

func (b *TaskBoard) selected() (string, error) {
	if err := b.checkOpen(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selectedID == "" {
		return "", ErrNoSelection
	}
	return b.selectedID, nil
}

// SetStatus moves the selected task to another column.
func (b *TaskBoard) SetStatus(status models.TaskStatus) (*models.Task, error) {
	id, err := b.selected()
	if err != nil {
		return nil, err
	}
	if _, err := b.store.SetTaskStatus(id, status); err != nil {
		return nil, err
	}
	return b.store.Task(id)
}

// ToggleSubtask flips one subtask of the selected task.
func (b *TaskBoard) ToggleSubtask(subtaskID string) (*models.Task, error) {
	id, err := b.selected()
	if err != nil {
		return nil, err
	}
	return b.store.ToggleSubtask(id, subtaskID)
}

// SetCommentDraft sets the pending comment text.
func (b *TaskBoard) SetCommentDraft(text string) {
	b.mu.Lock()
	b.commentDraft = text
	b.mu.Unlock()
}

// CommentDraft returns the pending comment text.
func (b *TaskBoard) CommentDraft() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commentDraft
}

// AddComment posts the comment draft on the selected task as the current
// user and clears the draft.
func (b *TaskBoard) AddComment() (*models.Task, error) {
	id, err := b.selected()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := required("text", b.commentDraft); err != nil {
		return nil, err
	}
	t, err := b.store.AddComment(id, b.currentUserID(), b.commentDraft)
	if err != nil {
		return nil, err
	}
	b.commentDraft = ""
	return t, nil
}
