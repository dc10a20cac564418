package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quorumstor/replictl/internal/config"
	"github.com/quorumstor/replictl/internal/export"
	"github.com/quorumstor/replictl/internal/orchestrate"
	"github.com/quorumstor/replictl/internal/ui"
)

var (
	summaryFormat  string
	summaryCSVPath string
	summaryCSVOnly bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show replication relationships on both clusters",
	Long: `List replication relationships as seen from the source cluster and, when
destination credentials are configured, from the destination cluster too. A
destination that cannot be reached degrades to a warning; the source listing
is still shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryFormat != "table" && summaryFormat != "card" {
			return fmt.Errorf("unknown --format %q (want table or card)", summaryFormat)
		}
		if summaryCSVOnly && summaryCSVPath == "" {
			return fmt.Errorf("--csv-only requires --csv")
		}
		if err := config.ValidateAction("summary", settings); err != nil {
			return err
		}
		ctx := cmd.Context()

		src, err := connectSource(ctx)
		if err != nil {
			return err
		}
		srcInfo, err := orchestrate.SourceInfo(ctx, src)
		if err != nil {
			return fmt.Errorf("source cluster: %w", err)
		}
		clusters := []orchestrate.ClusterInfo{*srcInfo}

		if settings.Dest.Configured() {
			if dstInfo, err := destSummary(ctx); err != nil {
				fmt.Fprintln(os.Stderr, ui.RenderWarn(fmt.Sprintf("destination cluster unavailable: %v", err)))
			} else {
				clusters = append(clusters, *dstInfo)
			}
		}

		if summaryCSVPath != "" {
			if err := writeCSVFile(summaryCSVPath, clusters); err != nil {
				return err
			}
			if summaryCSVOnly {
				return nil
			}
		}

		for i := range clusters {
			ci := &clusters[i]
			if summaryFormat == "card" {
				renderCards(os.Stdout, ci)
			} else {
				renderTable(os.Stdout, ci)
			}
			renderStateSummary(os.Stdout, ci)
			fmt.Println()
		}
		return nil
	},
}

func destSummary(ctx context.Context) (*orchestrate.ClusterInfo, error) {
	dst, err := connectDest(ctx)
	if err != nil {
		return nil, err
	}
	return orchestrate.TargetInfo(ctx, dst)
}

func writeCSVFile(path string, clusters []orchestrate.ClusterInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := export.WriteCSV(f, clusters); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "table", "output format: table or card")
	summaryCmd.Flags().StringVar(&summaryCSVPath, "csv", "", "also write the listing to a CSV file")
	summaryCmd.Flags().BoolVar(&summaryCSVOnly, "csv-only", false, "write the CSV file and skip terminal output")
	rootCmd.AddCommand(summaryCmd)
}
