package store

import (
	"strings"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func projectID(p *models.Project) string { return p.ID }

// Project returns the project with the given id.
func (s *Store) Project(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.Projects, id, projectID)
	if i < 0 {
		return nil, notFound(KindProject, id)
	}
	return s.state.Projects[i], nil
}

// CreateProject appends a new project. Progress defaults to 0, status to
// ongoing and the creation timestamp to now.
func (s *Store) CreateProject(params CreateProjectParams) (*models.Project, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.Project
	err := s.mutate(func() (Change, error) {
		if i := s.unknownUser(params.Team); i >= 0 {
			return Change{}, invalid("team", "references unknown user "+params.Team[i])
		}

		p := &models.Project{
			ID:          s.nextID(KindProject),
			Title:       strings.TrimSpace(params.Title),
			Description: params.Description,
			Progress:    params.Progress,
			Deadline:    params.Deadline,
			Team:        append([]string{}, params.Team...),
			Status:      params.Status,
			CreatedAt:   params.CreatedAt,
		}
		if p.Status == "" {
			p.Status = models.ProjectStatusOngoing
		}
		if p.CreatedAt == "" {
			p.CreatedAt = s.timestamp()
		}

		s.state.Projects = appendOne(s.state.Projects, p)
		created = p
		return Change{Kind: KindProject, Op: OpCreate, ID: p.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProject merges upd into the project and returns the new collection.
func (s *Store) UpdateProject(id string, upd ProjectUpdate) ([]*models.Project, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if upd.Deadline != nil {
		if _, ok := models.ParseDate(*upd.Deadline); !ok {
			return nil, invalid("deadline", "must be a date (YYYY-MM-DD)")
		}
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, invalid("status", "must be one of: ongoing completed archived")
	}

	var out []*models.Project
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Projects, id, projectID)
		if i < 0 {
			return Change{}, notFound(KindProject, id)
		}
		if upd.Team != nil {
			if j := s.unknownUser(*upd.Team); j >= 0 {
				return Change{}, invalid("team", "references unknown user "+(*upd.Team)[j])
			}
		}

		p := s.state.Projects[i].Clone()
		if upd.Title != nil {
			p.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Progress != nil {
			p.Progress = *upd.Progress
		}
		if upd.Deadline != nil {
			p.Deadline = *upd.Deadline
		}
		if upd.Team != nil {
			p.Team = append([]string{}, (*upd.Team)...)
		}
		if upd.Status != nil {
			p.Status = *upd.Status
		}

		s.state.Projects = replaceAt(s.state.Projects, i, p)
		out = s.state.Projects
		return Change{Kind: KindProject, Op: OpUpdate, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// unknownUser returns the index of the first id that is not a known user, or
// -1 when all are known. Must be called with s.mu held.
func (s *Store) unknownUser(ids []string) int {
	for i, id := range ids {
		if indexOf(s.state.Users, id, userID) < 0 {
			return i
		}
	}
	return -1
}
