package coordinator

import (
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// MilestoneDraft is the create-milestone form.
type MilestoneDraft struct {
	Title     string                 `json:"title"`
	Week      int                    `json:"week"`
	Status    models.MilestoneStatus `json:"status"`
	ProjectID string                 `json:"project_id"`
}

func newMilestoneDraft() MilestoneDraft {
	return MilestoneDraft{Week: 1, Status: models.MilestoneStatusPending}
}

// WeekPhase places a week relative to the current week.
type WeekPhase string

const (
	WeekPast    WeekPhase = "past"
	WeekCurrent WeekPhase = "current"
	WeekFuture  WeekPhase = "future"
)

// Week is one column of the timeline.
type Week struct {
	Number     int                 `json:"number"`
	Phase      WeekPhase           `json:"phase"`
	Milestones []*models.Milestone `json:"milestones"`
}

// Timeline coordinates the milestone timeline.
type Timeline struct {
	base

	dialogOpen bool
	draft      MilestoneDraft
}

// NewTimeline creates the timeline coordinator.
func NewTimeline(st *store.Store, cfg Config) *Timeline {
	t := &Timeline{draft: newMilestoneDraft()}
	t.init(st, cfg, "timeline")
	return t
}

// Milestones returns every milestone in insertion order.
func (t *Timeline) Milestones() []*models.Milestone {
	return t.store.Snapshot().Milestones
}

// Progress returns the completed share of milestones as a percentage.
func (t *Timeline) Progress() float64 {
	return views.TimelineProgress(t.Milestones())
}

// Completed returns the number of completed milestones.
func (t *Timeline) Completed() int {
	return views.CompletedMilestones(t.Milestones())
}

// CurrentWeek returns the week marked as current.
func (t *Timeline) CurrentWeek() int {
	return t.cfg.CurrentWeek
}

// TotalWeeks returns the number of weeks on the timeline.
func (t *Timeline) TotalWeeks() int {
	return t.cfg.TotalWeeks
}

// Weeks lays the milestones out by week.
func (t *Timeline) Weeks() []Week {
	byWeek := views.MilestonesByWeek(t.Milestones())
	out := make([]Week, t.cfg.TotalWeeks)
	for i := range out {
		n := i + 1
		phase := WeekFuture
		switch {
		case n < t.cfg.CurrentWeek:
			phase = WeekPast
		case n == t.cfg.CurrentWeek:
			phase = WeekCurrent
		}
		ms := byWeek[n]
		if ms == nil {
			ms = []*models.Milestone{}
		}
		out[i] = Week{Number: n, Phase: phase, Milestones: ms}
	}
	return out
}

// OpenCreate opens the create dialog.
func (t *Timeline) OpenCreate() {
	t.mu.Lock()
	t.dialogOpen = true
	t.mu.Unlock()
}

// CloseCreate closes the create dialog and keeps the draft.
func (t *Timeline) CloseCreate() {
	t.mu.Lock()
	t.dialogOpen = false
	t.mu.Unlock()
}

// DialogOpen reports whether the create dialog is open.
func (t *Timeline) DialogOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dialogOpen
}

// Draft returns the create form.
func (t *Timeline) Draft() MilestoneDraft {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// SetDraft replaces the create form.
func (t *Timeline) SetDraft(draft MilestoneDraft) {
	t.mu.Lock()
	t.draft = draft
	t.mu.Unlock()
}

// SubmitMilestone creates a milestone from the draft and resets the form.
func (t *Timeline) SubmitMilestone() (*models.Milestone, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := required("title", t.draft.Title); err != nil {
		return nil, err
	}
	if t.draft.Week < 1 || t.draft.Week > t.cfg.TotalWeeks {
		return nil, &store.ValidationError{Field: "week", Reason: "must be between 1 and the last timeline week"}
	}

	m, err := t.store.CreateMilestone(store.CreateMilestoneParams{
		Title:     t.draft.Title,
		Week:      t.draft.Week,
		Status:    t.draft.Status,
		ProjectID: t.draft.ProjectID,
	})
	if err != nil {
		return nil, err
	}

	t.draft = newMilestoneDraft()
	t.dialogOpen = false
	return m, nil
}
