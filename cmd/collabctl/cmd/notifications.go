package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

var notificationFilter string

// notificationsCmd represents the notifications command group
var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Notification commands",
	Long: `Commands for the notification list.

Examples:
  # Unread notifications
  collabctl notifications list --filter unread

  # Mark everything read
  collabctl --db ./workspace.db notifications read-all`,
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			n := s.Notifications
			if err := n.SetFilter(notificationFilter); err != nil {
				return err
			}
			visible := n.Visible()

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, visible)
			}
			if len(visible) == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}

			fmt.Fprintf(out, "\n%-4s  %-4s  %-8s  %-36s  %s\n", "ID", "NEW", "TYPE", "TITLE", "WHEN")
			printRule(out, 80)
			for _, notif := range visible {
				fmt.Fprintf(out, "%-4s  %-4s  %-8s  %-36s  %s\n",
					notif.ID,
					checkmark(!notif.Read),
					notif.Type,
					truncate(notif.Title, 36),
					n.When(notif),
				)
			}
			printSummary(cmd, n)
			return nil
		})
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Notifications.MarkRead(args[0]); err != nil {
				return err
			}
			printSummary(cmd, s.Notifications)
			return nil
		})
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Notifications.MarkAllRead(); err != nil {
				return err
			}
			printSummary(cmd, s.Notifications)
			return nil
		})
	},
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Notifications.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification %s deleted.\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsReadAllCmd, notificationsDeleteCmd)

	notificationsListCmd.Flags().StringVar(&notificationFilter, "filter", "all", "all, unread, task, file, message or deadline")
}

// printSummary writes the unread count and the per-type counts.
func printSummary(cmd *cobra.Command, n *coordinator.Notifications) {
	out := cmd.OutOrStdout()
	if GetOutput() == "json" {
		printJSON(out, struct {
			Unread int                             `json:"unread"`
			ByType map[models.NotificationType]int `json:"by_type"`
		}{n.UnreadCount(), n.CountByType()})
		return
	}

	counts := n.CountByType()
	fmt.Fprintf(out, "\nUnread: %d", n.UnreadCount())
	for _, t := range models.NotificationTypes {
		fmt.Fprintf(out, "  %s: %d", t, counts[t])
	}
	fmt.Fprintln(out)
}
