package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// CommentCmd moderates comments. A hidden comment disappears from its post
// page and from every comment count.
func CommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Moderate comments",
	}
	cmd.AddCommand(
		moderateCmd("hide", "Hide a comment from readers", false),
		moderateCmd("show", "Make a hidden comment visible again", true),
	)
	return cmd
}

func moderateCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid comment id %q", args[0])
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if active {
				err = app.comments.Show(uint(id))
			} else {
				err = app.comments.Hide(uint(id))
			}
			if err != nil {
				return fmt.Errorf("comment %d: %w", id, err)
			}
			if err := app.listing.InvalidateAggregates(); err != nil {
				return err
			}

			state := "hidden"
			if active {
				state = "visible"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %d is now %s\n", id, state)
			return nil
		},
	}
}
