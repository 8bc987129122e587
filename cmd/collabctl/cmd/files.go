package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/query"
)

var (
	fileSearch         string
	fileType           string
	fileWhere          string
	uploadSize         int64
	uploadProject      string
	uploadInterval     time.Duration
	uploadPollInterval = 50 * time.Millisecond
)

// filesCmd represents the files command group
var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"file"},
	Short:   "Shared file commands",
	Long: `Commands for the shared file list.

Examples:
  # List PDF files
  collabctl files list --type pdf

  # Files above version 1 in project 2
  collabctl files list --where 'version > 1 and project_id == "2"'

  # Simulate an upload into project 1
  collabctl --db ./workspace.db files upload report.pdf --size 2500000 --project 1`,
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files",
	Long: `List files matching the search text and type filter.

--where takes an expression over: id, name, type, uploader_id,
upload_date, project_id, version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			fs := s.Files
			fs.SetSearch(fileSearch)
			fs.SetTypeFilter(fileType)

			files, err := applyWhere(fs.Files(), query.NewQueryDSL(query.FileFields), fileWhere, query.FileRecord)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if GetOutput() == "json" {
				return printJSON(out, files)
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No files found.")
				return nil
			}

			st := s.Store()
			fmt.Fprintf(out, "\n%-4s  %-30s  %-5s  %-9s  %-18s  %-10s  %s\n",
				"ID", "NAME", "TYPE", "SIZE", "UPLOADER", "DATE", "VER")
			printRule(out, 92)
			for _, f := range files {
				fmt.Fprintf(out, "%-4s  %-30s  %-5s  %-9s  %-18s  %-10s  %d\n",
					f.ID,
					truncate(f.Name, 30),
					f.Type,
					f.Size,
					truncate(userName(st, f.UploaderID), 18),
					f.UploadDate,
					f.Version,
				)
			}
			fmt.Fprintf(out, "\nTotal: %d file(s)\n", len(files))
			return nil
		})
	},
}

var filesUploadCmd = &cobra.Command{
	Use:   "upload NAME",
	Short: "Simulate uploading a file",
	Long: `Simulate uploading a file. Progress advances every --interval and the
file is recorded once it reaches 100%. Interrupting the command cancels
the upload and records nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := coordinator.Config{UploadInterval: uploadInterval}
		return withSession(cmd, cfg, func(ctx context.Context, s *session) error {
			up, err := s.Files.StartUpload(ctx, coordinator.FileInfo{
				Name:      args[0],
				Size:      uploadSize,
				ProjectID: uploadProject,
			})
			if err != nil {
				return err
			}

			jsonOut := GetOutput() == "json"
			out := cmd.OutOrStdout()
			ticker := time.NewTicker(uploadPollInterval)
			defer ticker.Stop()

			last := -1
		wait:
			for {
				select {
				case <-up.Done():
					break wait
				case <-ctx.Done():
					up.Cancel()
					break wait
				case <-ticker.C:
					if p := up.Progress(); p != last && !jsonOut {
						fmt.Fprintf(out, "\rUploading %s... %3d%%", args[0], p)
						last = p
					}
				}
			}

			status := up.Status()
			if jsonOut {
				return printJSON(out, status)
			}
			fmt.Fprintf(out, "\rUploading %s... %3d%%\n", args[0], status.Progress)
			if status.State != coordinator.UploadCompleted {
				if status.Error != "" {
					return fmt.Errorf("upload %s: %s", status.State, status.Error)
				}
				return fmt.Errorf("upload %s", status.State)
			}
			fmt.Fprintf(out, "Stored as file %s (%s, %s)\n", status.File.ID, status.File.Type, status.File.Size)
			return nil
		})
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			if err := s.Files.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "File %s deleted.\n", args[0])
			return nil
		})
	},
}

var filesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the file types present",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, coordinator.Config{}, func(ctx context.Context, s *session) error {
			types := s.Files.Types()
			if GetOutput() == "json" {
				return printJSON(cmd.OutOrStdout(), types)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesListCmd, filesUploadCmd, filesDeleteCmd, filesTypesCmd)

	filesListCmd.Flags().StringVar(&fileSearch, "search", "", "match file name (case-insensitive)")
	filesListCmd.Flags().StringVar(&fileType, "type", "all", "file type, or all")
	filesListCmd.Flags().StringVar(&fileWhere, "where", "", "filter expression")

	filesUploadCmd.Flags().Int64Var(&uploadSize, "size", 1<<20, "file size in bytes")
	filesUploadCmd.Flags().StringVar(&uploadProject, "project", "", "project id (default: the first project)")
	filesUploadCmd.Flags().DurationVar(&uploadInterval, "interval", 200*time.Millisecond, "time between progress steps")
}
