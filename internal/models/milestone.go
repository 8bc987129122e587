package models

// MilestoneStatus represents the state of a timeline milestone.
type MilestoneStatus string

const (
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusInProgress MilestoneStatus = "inprogress"
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusOverdue    MilestoneStatus = "overdue"
)

// IsValid reports whether s is a known milestone status.
func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusCompleted, MilestoneStatusInProgress, MilestoneStatusPending, MilestoneStatusOverdue:
		return true
	}
	return false
}

// ParseMilestoneStatus converts a string to MilestoneStatus, defaulting to pending.
func ParseMilestoneStatus(s string) MilestoneStatus {
	switch s {
	case "completed":
		return MilestoneStatusCompleted
	case "inprogress":
		return MilestoneStatusInProgress
	case "overdue":
		return MilestoneStatusOverdue
	default:
		return MilestoneStatusPending
	}
}

// Milestone is a week-indexed checkpoint on the project timeline.
type Milestone struct {
	ID        string          `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	Week      int             `json:"week" yaml:"week"`
	Status    MilestoneStatus `json:"status" yaml:"status"`
	ProjectID string          `json:"project_id" yaml:"project_id"`
}

// Clone returns a copy of the milestone.
func (m *Milestone) Clone() *Milestone {
	c := *m
	return &c
}
