package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quorumstor/replictl/internal/config"
	"github.com/quorumstor/replictl/internal/debug"
	"github.com/quorumstor/replictl/internal/orchestrate"
)

var (
	cleanBasePath string
	cleanInclude  []string
	cleanExclude  []string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete replication relationships under a base path",
	Long: `On the source cluster, delete the relationships whose source path lies under
--base-path and passes the filters. On the destination cluster, delete the
relationships under --base-path whose replication has ENDED. Each side runs
only when its credentials are configured; at least one side is required.

A relationship that fails to delete is logged and skipped, never fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateAction("clean", settings); err != nil {
			return err
		}
		filter, err := orchestrate.NewFilter(cleanInclude, cleanExclude)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if settings.Source.Configured() {
			src, err := connectSource(ctx)
			if err != nil {
				return err
			}
			orch := orchestrate.NewOrchestrator(src)
			if err := orch.Populate(ctx); err != nil {
				return fmt.Errorf("list source relationships: %w", err)
			}
			deleted := orch.CleanReplications(ctx, cleanBasePath, filter)
			debug.PrintNormal("Deleted %d source relationship(s) under %s\n", deleted, cleanBasePath)
		}

		if settings.Dest.Configured() {
			dst, err := connectDest(ctx)
			if err != nil {
				return err
			}
			deleted, err := orchestrate.NewReconciler(dst).CleanEndedRelationships(ctx, cleanBasePath)
			if err != nil {
				return fmt.Errorf("list destination relationships: %w", err)
			}
			debug.PrintNormal("Deleted %d ended destination relationship(s) under %s\n", deleted, cleanBasePath)
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanBasePath, "base-path", "", "path prefix selecting the relationships to delete (required)")
	cleanCmd.Flags().StringSliceVar(&cleanInclude, "include", nil, "only delete source relationships whose path contains one of these substrings")
	cleanCmd.Flags().StringSliceVar(&cleanExclude, "exclude", nil, "keep source relationships whose path contains any of these substrings")
	_ = cleanCmd.MarkFlagRequired("base-path")
	rootCmd.AddCommand(cleanCmd)
}
