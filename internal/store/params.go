package store

import "github.com/good-yellow-bee/collabhub/internal/models"

// CreateProjectParams holds the inputs for a new project.
type CreateProjectParams struct {
	Title       string               `json:"title" validate:"notblank"`
	Description string               `json:"description"`
	Progress    int                  `json:"progress"`
	Deadline    string               `json:"deadline" validate:"required,date"`
	Team        []string             `json:"team"`
	Status      models.ProjectStatus `json:"status" validate:"omitempty,oneof=ongoing completed archived"`
	CreatedAt   string               `json:"created_at"`
}

// ProjectUpdate lists project fields to change. Nil fields are kept.
type ProjectUpdate struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Progress    *int                  `json:"progress,omitempty"`
	Deadline    *string               `json:"deadline,omitempty"`
	Team        *[]string             `json:"team,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
}

// CreateTaskParams holds the inputs for a new task.
type CreateTaskParams struct {
	Title       string            `json:"title" validate:"notblank"`
	Description string            `json:"description"`
	ProjectID   string            `json:"project_id"`
	AssigneeID  string            `json:"assignee_id" validate:"required"`
	Priority    models.Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      models.TaskStatus `json:"status" validate:"omitempty,oneof=todo inprogress completed"`
	DueDate     string            `json:"due_date" validate:"required,date"`
	Subtasks    []string          `json:"subtasks"` // subtask titles
	Attachments []string          `json:"attachments"`
}

// TaskUpdate lists task fields to change. Nil fields are kept; the merge is
// shallow, so a non-nil slice replaces the whole list.
type TaskUpdate struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	ProjectID   *string            `json:"project_id,omitempty"`
	AssigneeID  *string            `json:"assignee_id,omitempty"`
	Priority    *models.Priority   `json:"priority,omitempty"`
	Status      *models.TaskStatus `json:"status,omitempty"`
	DueDate     *string            `json:"due_date,omitempty"`
	Subtasks    *[]models.SubTask  `json:"subtasks,omitempty"`
	Comments    *[]models.Comment  `json:"comments,omitempty"`
	Attachments *[]string          `json:"attachments,omitempty"`
}

// CreateFileParams holds the metadata of an uploaded file.
type CreateFileParams struct {
	Name       string `json:"name" validate:"notblank"`
	Type       string `json:"type" validate:"required"`
	Size       string `json:"size" validate:"required"`
	UploaderID string `json:"uploader_id" validate:"required"`
	UploadDate string `json:"upload_date" validate:"required,date"`
	ProjectID  string `json:"project_id"`
	Version    int    `json:"version" validate:"min=0"`
	URL        string `json:"url"`
}

// CreateMilestoneParams holds the inputs for a new milestone.
type CreateMilestoneParams struct {
	Title     string                 `json:"title" validate:"notblank"`
	Week      int                    `json:"week" validate:"required,min=1"`
	Status    models.MilestoneStatus `json:"status" validate:"omitempty,oneof=completed inprogress pending overdue"`
	ProjectID string                 `json:"project_id"`
}

// SendMessageParams holds the inputs for a chat message.
type SendMessageParams struct {
	UserID      string            `json:"user_id" validate:"required"`
	Text        string            `json:"text" validate:"notblank"`
	Timestamp   string            `json:"timestamp"`
	Attachments []string          `json:"attachments"`
	Reactions   []models.Reaction `json:"reactions"`
	ThreadID    string            `json:"thread_id"`
	Pinned      bool              `json:"pinned"`
}

// CreateNotificationParams holds the inputs for a notification.
type CreateNotificationParams struct {
	Type        models.NotificationType `json:"type" validate:"required,oneof=task file message deadline"`
	Title       string                  `json:"title" validate:"notblank"`
	Description string                  `json:"description"`
	Timestamp   string                  `json:"timestamp"`
	Link        string                  `json:"link"`
}

// UserUpdate lists current-user fields to change. Nil fields are kept.
type UserUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *string `json:"role,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	University *string `json:"university,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Online     *bool   `json:"online,omitempty"`
}

const defaultProjectID = "1"
