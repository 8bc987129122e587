package models

// TaskStatus is one of the three board columns.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// BoardColumns lists the task statuses in board order.
var BoardColumns = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted}

// IsValid reports whether s is a board column.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Title returns the column heading for the status.
func (s TaskStatus) Title() string {
	switch s {
	case TaskStatusTodo:
		return "To-Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Priority represents task urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a string to Priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// SubTask is a checklist entry on a task. Toggling a subtask never changes
// the parent task's status.
type SubTask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Comment is an append-only note on a task.
type Comment struct {
	ID        string `json:"id" yaml:"id"`
	UserID    string `json:"user_id" yaml:"user_id"`
	Text      string `json:"text" yaml:"text"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Task is a unit of work on the board.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	ProjectID   string     `json:"project_id" yaml:"project_id"`
	AssigneeID  string     `json:"assignee_id" yaml:"assignee_id"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Status      TaskStatus `json:"status" yaml:"status"`
	DueDate     string     `json:"due_date" yaml:"due_date"`
	Subtasks    []SubTask  `json:"subtasks" yaml:"subtasks"`
	Comments    []Comment  `json:"comments" yaml:"comments"`
	Attachments []string   `json:"attachments" yaml:"attachments"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Subtasks = copySlice(t.Subtasks)
	c.Comments = copySlice(t.Comments)
	c.Attachments = copySlice(t.Attachments)
	return &c
}

// copySlice copies s, keeping a nil slice nil and an empty slice empty.
func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// CompletedSubtasks returns the number of checked subtasks.
func (t *Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			n++
		}
	}
	return n
}
