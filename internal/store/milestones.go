package store

import (
	"strings"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

// CreateMilestone appends a milestone to the timeline.
func (s *Store) CreateMilestone(params CreateMilestoneParams) (*models.Milestone, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.Milestone
	err := s.mutate(func() (Change, error) {
		projID := params.ProjectID
		if projID == "" {
			projID = defaultProjectID
		}
		if indexOf(s.state.Projects, projID, projectID) < 0 {
			return Change{}, invalid("project_id", "references unknown project "+projID)
		}

		m := &models.Milestone{
			ID:        s.nextID(KindMilestone),
			Title:     strings.TrimSpace(params.Title),
			Week:      params.Week,
			Status:    params.Status,
			ProjectID: projID,
		}
		if m.Status == "" {
			m.Status = models.MilestoneStatusPending
		}

		s.state.Milestones = appendOne(s.state.Milestones, m)
		created = m
		return Change{Kind: KindMilestone, Op: OpCreate, ID: m.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
