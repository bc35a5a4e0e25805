package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootCmd assembles the inkpress command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inkpress",
		Short:         "A server-rendered blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a config file (default: config.yaml in . or ./config)")

	root.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		SeedCmd(),
		CacheCmd(),
		CommentCmd(),
		VersionCmd(),
	)
	return root
}

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkpress version %s\n", Version)
		},
	}
}

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
			return nil
		},
	}
}
