package api

import (
	"net/http"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
)

// TimelineResponse is the ten-week timeline.
type TimelineResponse struct {
	CurrentWeek int                `json:"current_week"`
	TotalWeeks  int                `json:"total_weeks"`
	Progress    float64            `json:"progress"`
	Completed   int                `json:"completed"`
	Weeks       []coordinator.Week `json:"weeks"`
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	t := s.shell.Timeline
	OK(w, TimelineResponse{
		CurrentWeek: t.CurrentWeek(),
		TotalWeeks:  t.TotalWeeks(),
		Progress:    t.Progress(),
		Completed:   t.Completed(),
		Weeks:       t.Weeks(),
	})
}

func (s *Server) listMilestones(w http.ResponseWriter, r *http.Request) {
	OK(w, s.shell.Timeline.Milestones())
}

// createMilestone submits the milestone form. Week defaults to 1.
func (s *Server) createMilestone(w http.ResponseWriter, r *http.Request) {
	draft := coordinator.MilestoneDraft{Week: 1}
	if err := decodeJSON(w, r, &draft); err != nil {
		JSONError(w, err)
		return
	}

	t := s.shell.Timeline
	t.OpenCreate()
	t.SetDraft(draft)
	m, err := t.SubmitMilestone()
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, m)
}
