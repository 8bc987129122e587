package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
)

var (
	chatLimit    int
	replyTimeout = 5 * time.Second
	replyPoll    = 50 * time.Millisecond
	replyDelay   time.Duration
)

// chatCmd represents the chat command group
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Team chat and assistant commands",
	Long: `Commands for the team chat and the study assistant.

Examples:
  # Show the last 10 messages
  collabctl chat list --limit 10

  # Post a message
  collabctl --db ./workspace.db chat send "Draft is in the shared folder"

  # Ask the assistant
  collabctl chat ask "how do I plan the deadline?"`,
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show chat messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			msgs := s.Chat.Messages()
			if chatLimit > 0 && len(msgs) > chatLimit {
				msgs = msgs[len(msgs)-chatLimit:]
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, msgs)
			}

			st := s.Store()
			fmt.Fprintf(out, "\n%d member(s) online\n", s.Chat.OnlineCount())
			printRule(out, 60)
			for _, m := range msgs {
				fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp, userName(st, m.UserID), m.Text)
			}
			return nil
		})
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send TEXT",
	Short: "Post a message as the current user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			s.Chat.SetDraft(args[0])
			m, err := s.Chat.Send()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, m)
			}
			fmt.Fprintf(out, "Message %s sent at %s.\n", m.ID, m.Timestamp)
			for _, id := range s.Chat.Typing() {
				fmt.Fprintf(out, "%s is typing...\n", userName(s.Store(), id))
			}
			return nil
		})
	},
}

var chatAskCmd = &cobra.Command{
	Use:   "ask QUERY",
	Short: "Ask the study assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{ReplyDelay: replyDelay}, func(ctx context.Context, s *session) error {
			c := s.Chat
			if err := c.Ask(args[0]); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, replyTimeout)
			defer cancel()
			ticker := time.NewTicker(replyPoll)
			defer ticker.Stop()
			for c.Pending() > 0 {
				select {
				case <-ctx.Done():
					return fmt.Errorf("assistant did not reply: %w", ctx.Err())
				case <-ticker.C:
				}
			}

			entries := c.Assistant()
			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-4s %s\n", string(e.Role)+":", e.Text)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatListCmd, chatSendCmd, chatAskCmd)

	chatListCmd.Flags().IntVar(&chatLimit, "limit", 0, "show only the last N messages (0 = all)")
	chatAskCmd.Flags().DurationVar(&replyDelay, "delay", time.Second, "assistant reply delay")
}
