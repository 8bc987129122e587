package models

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusOngoing, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// ParseProjectStatus converts a string to ProjectStatus.
func ParseProjectStatus(s string) ProjectStatus {
	switch s {
	case "completed":
		return ProjectStatusCompleted
	case "archived":
		return ProjectStatusArchived
	default:
		return ProjectStatusOngoing
	}
}

// Project is a unit of collaborative work owning tasks, files and milestones.
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Progress    int           `json:"progress" yaml:"progress"` // 0-100, not enforced
	Deadline    string        `json:"deadline" yaml:"deadline"`
	Team        []string      `json:"team" yaml:"team"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	CreatedAt   string        `json:"created_at" yaml:"created_at"`
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	c.Team = copySlice(p.Team)
	return &c
}

// HasMember reports whether userID is on the project team.
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.Team {
		if id == userID {
			return true
		}
	}
	return false
}
