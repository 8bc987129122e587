package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

var (
	currentWeek     int
	milestoneTitle  string
	milestoneWeek   int
	milestoneStatus string
	milestoneProj   string
)

// timelineCmd shows the week-by-week timeline
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the project timeline",
	Long: `Show milestones placed on the weeks of the semester, with the share
of completed milestones.

Examples:
  # Show the timeline with week 7 as the current week
  collabctl timeline --week 7

  # Add a milestone
  collabctl timeline add --title "Usability test" --week 6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{CurrentWeek: currentWeek}, func(ctx context.Context, s *session) error {
			tl := s.Timeline
			weeks := tl.Weeks()

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, struct {
					CurrentWeek int                `json:"current_week"`
					TotalWeeks  int                `json:"total_weeks"`
					Progress    float64            `json:"progress"`
					Completed   int                `json:"completed"`
					Weeks       []coordinator.Week `json:"weeks"`
				}{tl.CurrentWeek(), tl.TotalWeeks(), tl.Progress(), tl.Completed(), weeks})
			}

			fmt.Fprintf(out, "\nWeek %d of %d  |  %d/%d milestones completed (%.0f%%)\n",
				tl.CurrentWeek(), tl.TotalWeeks(), tl.Completed(), len(tl.Milestones()), tl.Progress())
			printRule(out, 60)
			for _, w := range weeks {
				marker := "  "
				if w.Phase == coordinator.WeekCurrent {
					marker = "> "
				}
				titles := make([]string, 0, len(w.Milestones))
				for _, m := range w.Milestones {
					titles = append(titles, fmt.Sprintf("%s [%s]", m.Title, m.Status))
				}
				fmt.Fprintf(out, "%sWeek %-2d  %s\n", marker, w.Number, strings.Join(titles, ", "))
			}
			return nil
		})
	},
}

var timelineAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a milestone",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			tl := s.Timeline
			tl.OpenCreate()
			tl.SetDraft(coordinator.MilestoneDraft{
				Title:     milestoneTitle,
				Week:      milestoneWeek,
				Status:    models.ParseMilestoneStatus(milestoneStatus),
				ProjectID: milestoneProj,
			})
			m, err := tl.SubmitMilestone()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, m)
			}
			fmt.Fprintf(out, "Milestone %s added to week %d (%s).\n", m.ID, m.Week, m.Status)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.AddCommand(timelineAddCmd)

	timelineCmd.Flags().IntVar(&currentWeek, "week", 0, "current week (default 5)")

	timelineAddCmd.Flags().StringVar(&milestoneTitle, "title", "", "milestone title (required)")
	timelineAddCmd.Flags().IntVar(&milestoneWeek, "week", 1, "week number")
	timelineAddCmd.Flags().StringVar(&milestoneStatus, "status", "pending", "pending, inprogress, completed or overdue")
	timelineAddCmd.Flags().StringVar(&milestoneProj, "project", "", "project id (default: the first project)")
}
