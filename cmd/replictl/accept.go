package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quorumstor/replictl/internal/config"
	"github.com/quorumstor/replictl/internal/debug"
	"github.com/quorumstor/replictl/internal/orchestrate"
	"github.com/quorumstor/replictl/internal/ui"
)

var (
	acceptAllowNonEmpty bool
	acceptYes           bool
)

var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Authorize replication relationships awaiting acceptance",
	Long: `Find relationships on the destination cluster that are awaiting
authorization, display them, and authorize each one after confirmation.
Missing target directories are always created; a non-empty target directory
is refused unless --allow-non-empty-dir is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateAction("accept", settings); err != nil {
			return err
		}
		ctx := cmd.Context()

		dst, err := connectDest(ctx)
		if err != nil {
			return err
		}

		opts := orchestrate.AcceptOptions{
			AllowNonEmptyDir: acceptAllowNonEmpty,
			Out:              os.Stdout,
		}
		if !acceptYes {
			opts.Confirm = confirmAccept
		}

		result, err := orchestrate.AcceptPendingReplications(ctx, dst, opts)
		if err != nil {
			return err
		}
		if result.Pending == 0 {
			debug.PrintNormal("No relationships awaiting authorization.\n")
			return nil
		}
		for _, a := range result.Accepted {
			fmt.Printf("%s accepted %s (%s from %s)\n", ui.RenderPass(ui.IconPass), a.ID, a.TargetPath, a.SourceCluster)
		}
		debug.PrintNormal("\nAccepted %d of %d pending relationship(s)\n", len(result.Accepted), result.Pending)
		return nil
	},
}

// confirmAccept asks for a yes/no on stdin. This gate authorizes mutations,
// so only an explicit yes proceeds; empty or unrecognized input declines.
func confirmAccept(pending int) bool {
	fmt.Printf("\nAuthorize %d relationship(s)? (y/N): ", pending)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return false
	}
	if !isAffirmative(response) {
		fmt.Println("Accept canceled.")
		return false
	}
	return true
}

func isAffirmative(response string) bool {
	switch strings.TrimSpace(strings.ToLower(response)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	acceptCmd.Flags().BoolVar(&acceptAllowNonEmpty, "allow-non-empty-dir", false, "authorize into non-empty target directories")
	acceptCmd.Flags().BoolVarP(&acceptYes, "yes", "y", false, "authorize without prompting")
	rootCmd.AddCommand(acceptCmd)
}
