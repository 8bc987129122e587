package views

import "github.com/good-yellow-bee/collabhub/internal/models"

// CompletedMilestones returns the number of completed milestones.
func CompletedMilestones(milestones []*models.Milestone) int {
	n := 0
	for _, m := range milestones {
		if m.Status == models.MilestoneStatusCompleted {
			n++
		}
	}
	return n
}

// TimelineProgress returns the completed share of milestones as a
// percentage. An empty timeline has zero progress.
func TimelineProgress(milestones []*models.Milestone) float64 {
	if len(milestones) == 0 {
		return 0
	}
	return float64(CompletedMilestones(milestones)) / float64(len(milestones)) * 100
}

// MilestonesByWeek groups milestones by week, keeping insertion order within
// a week.
func MilestonesByWeek(milestones []*models.Milestone) map[int][]*models.Milestone {
	out := make(map[int][]*models.Milestone)
	for _, m := range milestones {
		out[m.Week] = append(out[m.Week], m)
	}
	return out
}
