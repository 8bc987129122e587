package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/query"
)

var (
	projectSearch      string
	projectStatus      string
	projectWhere       string
	projectTitle       string
	projectDescription string
	projectDeadline    string
	projectTeam        string
)

// projectsCmd represents the projects command group
var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Project dashboard commands",
	Long: `Commands for the project dashboard.

Examples:
  # List ongoing projects
  collabctl projects list --status ongoing

  # Projects that are behind schedule
  collabctl projects list --where 'overdue or progress < 50'

  # Create a project
  collabctl projects create --title "Thesis" --deadline 2026-03-01 --team 1,2`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List projects matching the search text and status filter.

--where takes an expression over: id, title, description, status,
progress, deadline, overdue, team.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			d := s.Dashboard
			d.SetSearch(projectSearch)
			if err := d.SetStatusFilter(projectStatus); err != nil {
				return err
			}

			now := time.Now()
			projects, err := applyWhere(d.Projects(), query.NewQueryDSL(query.ProjectFields), projectWhere,
				func(p *models.Project) map[string]any { return query.ProjectRecord(p, now) })
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}

			fmt.Fprintf(out, "\n%-4s  %-30s  %-10s  %-8s  %-10s  %-7s  %s\n",
				"ID", "TITLE", "STATUS", "PROGRESS", "DEADLINE", "OVERDUE", "TEAM")
			printRule(out, 90)
			for _, p := range projects {
				fmt.Fprintf(out, "%-4s  %-30s  %-10s  %7d%%  %-10s  %-7s  %d\n",
					p.ID,
					truncate(p.Title, 30),
					p.Status,
					p.Progress,
					p.Deadline,
					checkmark(d.Overdue(p)),
					len(p.Team),
				)
			}
			fmt.Fprintf(out, "\nTotal: %d project(s)\n", len(projects))
			return nil
		})
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show project details and team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			p, err := s.Store().Project(args[0])
			if err != nil {
				return err
			}
			team := s.Dashboard.Team(p)

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, struct {
					*models.Project
					Members []*models.User `json:"members"`
				}{p, team})
			}

			fmt.Fprintf(out, "\nProject: %s\n", p.Title)
			fmt.Fprintf(out, "  ID:          %s\n", p.ID)
			fmt.Fprintf(out, "  Status:      %s\n", p.Status)
			fmt.Fprintf(out, "  Progress:    %d%%\n", p.Progress)
			fmt.Fprintf(out, "  Deadline:    %s\n", p.Deadline)
			if s.Dashboard.Overdue(p) {
				fmt.Fprintln(out, "  Overdue:     yes")
			}
			if p.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", p.Description)
			}
			fmt.Fprintf(out, "\nTeam (%d):\n", len(team))
			for _, u := range team {
				fmt.Fprintf(out, "  %-3s %-24s %s\n", u.Initials(), u.Name, u.Role)
			}
			return nil
		})
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			d := s.Dashboard
			d.OpenCreate()
			d.SetDraft(coordinator.ProjectDraft{
				Title:       projectTitle,
				Description: projectDescription,
				Deadline:    projectDeadline,
				Team:        splitList(projectTeam),
			})
			p, err := d.SubmitProject()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, p)
			}
			fmt.Fprintf(out, "\nProject created successfully:\n")
			fmt.Fprintf(out, "  ID:       %s\n", p.ID)
			fmt.Fprintf(out, "  Title:    %s\n", p.Title)
			fmt.Fprintf(out, "  Deadline: %s\n", p.Deadline)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsCreateCmd)

	projectsListCmd.Flags().StringVar(&projectSearch, "search", "", "match title or description (case-insensitive)")
	projectsListCmd.Flags().StringVar(&projectStatus, "status", "all", "all, ongoing, completed or archived")
	projectsListCmd.Flags().StringVar(&projectWhere, "where", "", "filter expression")

	projectsCreateCmd.Flags().StringVar(&projectTitle, "title", "", "project title (required)")
	projectsCreateCmd.Flags().StringVar(&projectDescription, "description", "", "project description")
	projectsCreateCmd.Flags().StringVar(&projectDeadline, "deadline", "", "deadline as YYYY-MM-DD (required)")
	projectsCreateCmd.Flags().StringVar(&projectTeam, "team", "", "comma-separated member user ids")
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
