package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/query"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

var (
	taskScope       string
	taskWhere       string
	taskTitle       string
	taskDescription string
	taskPriority    string
	taskAssignee    string
	taskDue         string
	taskProject     string
	taskSubtasks    string
)

// tasksCmd represents the tasks command group
var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Task board commands",
	Long: `Commands for the kanban task board.

Examples:
  # Show my tasks
  collabctl tasks board --scope mine

  # High priority work that is running late
  collabctl tasks board --where 'priority == "high" and overdue'

  # Move a task and leave a comment
  collabctl tasks status 2 inprogress
  collabctl tasks comment 2 "Interviews start Monday"`,
}

var tasksBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the task board",
	Long: `Show the three board columns (To-Do, In Progress, Completed).

--where takes an expression over: id, title, description, project_id,
assignee_id, priority, status, due_date, overdue, subtasks_total,
subtasks_done, comments, attachments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			b := s.Tasks
			b.SetScope(views.ParseScope(taskScope))

			now := time.Now()
			dsl := query.NewQueryDSL(query.TaskFields)
			record := func(t *models.Task) map[string]any { return query.TaskRecord(t, now) }

			cols := b.Board()
			for i := range cols {
				tasks, err := applyWhere(cols[i].Tasks, dsl, taskWhere, record)
				if err != nil {
					return err
				}
				cols[i].Tasks = tasks
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, cols)
			}

			st := s.Store()
			for _, col := range cols {
				fmt.Fprintf(out, "\n%s (%d)\n", col.Title, len(col.Tasks))
				printRule(out, 80)
				for _, t := range col.Tasks {
					late := ""
					if b.Overdue(t) {
						late = " OVERDUE"
					}
					fmt.Fprintf(out, "%-4s  %-32s  %-6s  %-18s  %s%s\n",
						t.ID,
						truncate(t.Title, 32),
						t.Priority,
						truncate(userName(st, t.AssigneeID), 18),
						t.DueDate,
						late,
					)
				}
			}
			return nil
		})
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details, subtasks and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Tasks.Select(args[0]); err != nil {
				return err
			}
			t, _ := s.Tasks.Selected()
			printTask(cmd, s.Store(), t)
			return nil
		})
	},
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			b := s.Tasks
			b.OpenCreate()
			b.SetDraft(coordinator.TaskDraft{
				Title:       taskTitle,
				Description: taskDescription,
				Priority:    models.Priority(taskPriority),
				AssigneeID:  taskAssignee,
				DueDate:     taskDue,
				ProjectID:   taskProject,
				Subtasks:    splitList(taskSubtasks),
			})
			t, err := b.SubmitTask()
			if err != nil {
				return err
			}
			printTask(cmd, s.Store(), t)
			return nil
		})
	},
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move a task to todo, inprogress or completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Tasks.Select(args[0]); err != nil {
				return err
			}
			t, err := s.Tasks.SetStatus(models.TaskStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s.\n", t.ID, t.Status)
			return nil
		})
	},
}

var tasksSubtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Add or toggle subtasks",
}

var tasksSubtaskAddCmd = &cobra.Command{
	Use:   "add TASK_ID TITLE",
	Short: "Add a subtask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			t, err := s.Store().AddSubtask(args[0], args[1])
			if err != nil {
				return err
			}
			printTask(cmd, s.Store(), t)
			return nil
		})
	},
}

var tasksSubtaskToggleCmd = &cobra.Command{
	Use:   "toggle TASK_ID SUBTASK_ID",
	Short: "Toggle a subtask's completion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Tasks.Select(args[0]); err != nil {
				return err
			}
			t, err := s.Tasks.ToggleSubtask(args[1])
			if err != nil {
				return err
			}
			printTask(cmd, s.Store(), t)
			return nil
		})
	},
}

var tasksCommentCmd = &cobra.Command{
	Use:   "comment TASK_ID TEXT",
	Short: "Comment on a task as the current user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			b := s.Tasks
			if err := b.Select(args[0]); err != nil {
				return err
			}
			b.SetCommentDraft(args[1])
			t, err := b.AddComment()
			if err != nil {
				return err
			}
			printTask(cmd, s.Store(), t)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksBoardCmd, tasksShowCmd, tasksCreateCmd, tasksStatusCmd, tasksSubtaskCmd, tasksCommentCmd)
	tasksSubtaskCmd.AddCommand(tasksSubtaskAddCmd, tasksSubtaskToggleCmd)

	tasksBoardCmd.Flags().StringVar(&taskScope, "scope", "all", "all, mine or team")
	tasksBoardCmd.Flags().StringVar(&taskWhere, "where", "", "filter expression")

	tasksCreateCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	tasksCreateCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	tasksCreateCmd.Flags().StringVar(&taskPriority, "priority", "medium", "low, medium or high")
	tasksCreateCmd.Flags().StringVar(&taskAssignee, "assignee", "", "assignee user id (required)")
	tasksCreateCmd.Flags().StringVar(&taskDue, "due", "", "due date as YYYY-MM-DD (required)")
	tasksCreateCmd.Flags().StringVar(&taskProject, "project", "", "project id (default: the first project)")
	tasksCreateCmd.Flags().StringVar(&taskSubtasks, "subtasks", "", "comma-separated subtask titles")
}

func printTask(cmd *cobra.Command, st *store.Store, t *models.Task) {
	out := cmd.OutOrStdout()
	if GetOutput() == "json" {
		printJSON(out, t)
		return
	}

	fmt.Fprintf(out, "\nTask %s: %s\n", t.ID, t.Title)
	fmt.Fprintf(out, "  Status:   %s\n", t.Status)
	fmt.Fprintf(out, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(out, "  Assignee: %s\n", userName(st, t.AssigneeID))
	fmt.Fprintf(out, "  Due:      %s\n", t.DueDate)
	if t.Description != "" {
		fmt.Fprintf(out, "  %s\n", t.Description)
	}
	if len(t.Subtasks) > 0 {
		fmt.Fprintf(out, "\nSubtasks (%d/%d):\n", t.CompletedSubtasks(), len(t.Subtasks))
		for _, sub := range t.Subtasks {
			fmt.Fprintf(out, "  [%s] %-8s %s\n", checkmark(sub.Completed), sub.ID, sub.Title)
		}
	}
	if len(t.Comments) > 0 {
		fmt.Fprintf(out, "\nComments (%d):\n", len(t.Comments))
		for _, c := range t.Comments {
			fmt.Fprintf(out, "  %s (%s): %s\n", userName(st, c.UserID), c.Timestamp, c.Text)
		}
	}
}
