// replictl orchestrates filesystem replication relationships between two
// clusters: it creates relationships for the subdirectories of a base path,
// accepts relationships awaiting authorization on the destination, cleans up
// relationships on either side, and summarizes replication state.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quorumstor/replictl/internal/config"
	"github.com/quorumstor/replictl/internal/debug"
)

var (
	// Version is overridden by ldflags at build time.
	Version = "0.3.0"
	Build   = "dev"
)

var (
	cfgFile     string
	verboseFlag bool
	quietFlag   bool

	v        = viper.New()
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "replictl",
	Short: "replictl - Cluster replication orchestration",
	Long: `Manage filesystem replication relationships between two clusters.

Credentials can come from flags, REPLICTL_* environment variables, or a
config file (~/.config/replictl/config.yaml). Per-side passwords are
prompted for when neither a password nor a token is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if ver, _ := cmd.Flags().GetBool("version"); ver {
			fmt.Printf("replictl version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		setupLogging()

		if err := config.Init(v, cfgFile); err != nil {
			return err
		}
		settings = config.Load(v)
		return nil
	},
}

// setupLogging routes slog through stderr at a level matching the verbosity
// flags. Normal runs show warnings and above; table and card output owns
// stdout.
func setupLogging() {
	level := slog.LevelWarn
	if verboseFlag || debug.Enabled() {
		level = slog.LevelDebug
	} else if quietFlag {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/replictl/config.yaml)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-essential output")

	pf.String("src-host", "", "source cluster address")
	pf.String("src-user", "", "source cluster username")
	pf.String("src-password", "", "source cluster password (prompted if omitted)")
	pf.String("src-token", "", "source cluster access token")
	pf.String("dst-host", "", "destination cluster address")
	pf.String("dst-user", "", "destination cluster username")
	pf.String("dst-password", "", "destination cluster password (prompted if omitted)")
	pf.String("dst-token", "", "destination cluster access token")
	pf.Int("port", 8000, "cluster API port")
	pf.Bool("insecure", false, "skip TLS certificate verification")

	for key, flag := range map[string]string{
		"src.host":     "src-host",
		"src.user":     "src-user",
		"src.password": "src-password",
		"src.token":    "src-token",
		"dst.host":     "dst-host",
		"dst.user":     "dst-user",
		"dst.password": "dst-password",
		"dst.token":    "dst-token",
		"port":         "port",
		"insecure":     "insecure",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	rootCmd.Flags().Bool("version", false, "print version information")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("replictl version %s (%s)\n", Version, Build)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
