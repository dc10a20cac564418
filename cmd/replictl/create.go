package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorumstor/replictl/internal/config"
	"github.com/quorumstor/replictl/internal/debug"
	"github.com/quorumstor/replictl/internal/orchestrate"
	"github.com/quorumstor/replictl/internal/ui"
)

var (
	createBasePath  string
	createDstPath   string
	createInclude   []string
	createExclude   []string
	createAddresses []string
	createNetwork   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create replication relationships for subdirectories of a base path",
	Long: `Walk the immediate subdirectories of --base-path on the source cluster and
create a replication relationship to the destination cluster for each one
that passes the filters and is not already replicated. Destination addresses
are drawn from the named network (or --addresses) so creations spread across
nodes.

The destination path mirrors the source path unless --dst-path is given, in
which case it is prepended verbatim to each source path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateAction("create", settings); err != nil {
			return err
		}
		filter, err := orchestrate.NewFilter(createInclude, createExclude)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		src, err := connectSource(ctx)
		if err != nil {
			return err
		}
		dst, err := connectDest(ctx)
		if err != nil {
			return err
		}

		pool, err := orchestrate.NewAddressPool(ctx, dst, createNetwork, createAddresses)
		if err != nil {
			return err
		}

		orch := orchestrate.NewOrchestrator(src)
		if err := orch.Populate(ctx); err != nil {
			return fmt.Errorf("list existing relationships: %w", err)
		}

		result, err := orch.CreateReplications(ctx, createBasePath, pool, createDstPath, filter)
		if err != nil {
			return err
		}

		for _, c := range result.Created {
			fmt.Printf("%s %s -> %s (%s)\n", ui.RenderPass(ui.IconPass), c.SourcePath, c.TargetPath, c.Address)
		}
		for _, f := range result.Failed {
			fmt.Fprintln(os.Stderr, ui.RenderFail(fmt.Sprintf("%s %s: %v", ui.IconFail, f.SourcePath, f.Err)))
		}

		debug.PrintNormal("\nCreated %d of %d attempted, %d already replicated\n",
			len(result.Created), result.Attempted(), result.Skipped)
		if result.Attempted() > 0 && !debug.IsQuiet() {
			renderLoads(os.Stdout, pool)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createBasePath, "base-path", "", "source directory whose subdirectories get replicated (required)")
	createCmd.Flags().StringVar(&createDstPath, "dst-path", "", "destination path prefix; empty or / mirrors the source path")
	createCmd.Flags().StringSliceVar(&createInclude, "include", nil, "only replicate paths containing one of these substrings")
	createCmd.Flags().StringSliceVar(&createExclude, "exclude", nil, "skip paths containing any of these substrings")
	createCmd.Flags().StringSliceVar(&createAddresses, "addresses", nil, "destination addresses to use (subset of the network's addresses)")
	createCmd.Flags().StringVar(&createNetwork, "network", "Default", "destination network whose addresses receive replication traffic")
	_ = createCmd.MarkFlagRequired("base-path")
	rootCmd.AddCommand(createCmd)
}
