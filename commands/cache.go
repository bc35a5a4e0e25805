package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

const backupDir = "data/backups"

// CacheCmd groups the cache maintenance commands. Counters only live in
// the cache, so a backup is the way to carry views and likes across a wipe.
func CacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Back up, restore or clear the cache",
	}
	cmd.AddCommand(cacheBackupCmd(), cacheRestoreCmd(), cacheClearCmd())
	return cmd
}

func cacheBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file]",
		Short: "Write a full backup of the cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			if len(args) == 1 {
				backupFile = args[0]
			}
			if err := os.MkdirAll(filepath.Dir(backupFile), 0755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			f, err := os.Create(backupFile)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer f.Close()

			if _, err := app.cache.Backup(f); err != nil {
				return fmt.Errorf("failed to backup cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache backed up to %s\n", backupFile)
			return nil
		},
	}
}

func cacheRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Load a cache backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer f.Close()

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.cache.Restore(f); err != nil {
				return fmt.Errorf("failed to restore cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache restored from %s\n", args[0])
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached entry, including view and like counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This resets all view and like counters. Continue? [y/N] ")
				var response string
				fmt.Fscanln(cmd.InOrStdin(), &response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.cache.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
