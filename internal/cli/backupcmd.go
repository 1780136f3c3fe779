package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/backup"
)

// newBackupCmd creates the backup command group.
func newBackupCmd(manifestFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage manifest backups",
		Long: `Every save copies the manifest into a "_backup" directory next to it
before writing. These commands take a backup on demand and list the
retained copies.`,
	}

	cmd.AddCommand(newBackupNowCmd(manifestFlag))
	cmd.AddCommand(newBackupListCmd(manifestFlag))

	return cmd
}

// newBackupNowCmd creates the backup now command.
func newBackupNowCmd(manifestFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Back up the manifest immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			dst, err := backup.New(backup.DefaultKeep).Backup(env.manifest)
			if err != nil {
				return err
			}
			printSuccess("Backup created")
			printFile(dst)
			return nil
		},
	}
}

// newBackupListCmd creates the backup list command.
func newBackupListCmd(manifestFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List retained backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			backups := backup.New(backup.DefaultKeep).List(env.manifest)
			if len(backups) == 0 {
				printInfo("No backups yet")
				printNextStep("Create one", appName+" backup now")
				return nil
			}

			for _, b := range backups {
				line := b
				if info, err := os.Stat(b); err == nil {
					line = fmt.Sprintf("%s  %s", b, StyleDim.Render(info.ModTime().Format("2006-01-02 15:04:05")))
				}
				fmt.Println("  " + line)
			}
			printDetail("%d backups retained (max %d)", len(backups), backup.DefaultKeep)
			return nil
		},
	}
}
