package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
)

var (
	profileName       string
	profileEmail      string
	profileRole       string
	profilePhone      string
	profileUniversity string
)

// profileCmd represents the profile command group
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Current user profile commands",
	Long: `Commands for the current user's profile.

Examples:
  # Show the profile
  collabctl profile show

  # Change the phone number
  collabctl --db ./workspace.db profile update --phone "+1 555 0100"

  # Change the password (prompts for current, new and confirmation)
  collabctl --db ./workspace.db profile passwd`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile and preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			printProfile(cmd, s.Profile.User(), s.Profile.Preferences())
			return nil
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update profile fields. Only the flags given are changed. The name must
not be blank and the email must be well formed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			p := s.Profile
			p.BeginEdit()
			draft := p.Draft()

			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"name":       &draft.Name,
				"email":      &draft.Email,
				"role":       &draft.Role,
				"phone":      &draft.Phone,
				"university": &draft.University,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = v
				}
			}

			if err := p.SetDraft(draft); err != nil {
				p.Cancel()
				return err
			}
			u, err := p.Save()
			if err != nil {
				p.Cancel()
				return err
			}
			printProfile(cmd, u, p.Preferences())
			return nil
		})
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar URL",
	Short: "Set the avatar image (URL or data URI)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if _, err := s.Profile.SetAvatar(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Avatar updated.")
			return nil
		})
	},
}

var profilePasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password",
	Long: `Change the password. The new password must be at least 8 characters
and match its confirmation. Prompts are read without echo on a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			pr := newPrompter(cmd)
			current, err := pr.secret("Current password: ")
			if err != nil {
				return err
			}
			next, err := pr.secret("New password: ")
			if err != nil {
				return err
			}
			confirm, err := pr.secret("Confirm new password: ")
			if err != nil {
				return err
			}

			if err := s.Profile.ChangePassword(current, next, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profileAvatarCmd, profilePasswdCmd)

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "email address")
	profileUpdateCmd.Flags().StringVar(&profileRole, "role", "", "role in the team")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "phone number")
	profileUpdateCmd.Flags().StringVar(&profileUniversity, "university", "", "university")
}

func printProfile(cmd *cobra.Command, u *models.User, prefs coordinator.Preferences) {
	out := cmd.OutOrStdout()
	if GetOutput() == "json" {
		printJSON(out, struct {
			User        *models.User            `json:"user"`
			Preferences coordinator.Preferences `json:"preferences"`
		}{u, prefs})
		return
	}

	fmt.Fprintf(out, "\n%s (%s)\n", u.Name, u.Initials())
	fmt.Fprintf(out, "  Email:      %s\n", u.Email)
	fmt.Fprintf(out, "  Role:       %s\n", u.Role)
	fmt.Fprintf(out, "  Phone:      %s\n", u.Phone)
	fmt.Fprintf(out, "  University: %s\n", u.University)

	fmt.Fprintf(out, "\nPreferences:\n")
	for _, p := range []struct {
		name string
		on   bool
	}{
		{"dark mode", prefs.DarkMode},
		{"email", prefs.EmailNotifications},
		{"push", prefs.PushNotifications},
		{"task reminders", prefs.TaskReminders},
		{"task assignments", prefs.TaskAssignments},
		{"file uploads", prefs.FileUploads},
		{"deadline alerts", prefs.DeadlineAlerts},
		{"chat messages", prefs.ChatMessages},
	} {
		fmt.Fprintf(out, "  [%s] %s\n", checkmark(p.on), p.name)
	}
}

// prompter reads answers from the command's input. On a terminal secrets
// are read without echo.
type prompter struct {
	out io.Writer
	tty *os.File
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	p := &prompter{out: cmd.ErrOrStderr()}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = f
		return p
	}
	p.in = bufio.NewReader(in)
	return p
}

func (p *prompter) secret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.tty != nil {
		b, err := term.ReadPassword(int(p.tty.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
