// ByeBye Anxiety: a personal assistant MCP server for people with ADHD.
//
// Usage:
//
//	byebye serve                 # Start MCP server (stdio transport)
//	byebye chat "how is my day?" # Send one message from the terminal
//	byebye config init           # Write a config file with the defaults
//	byebye update --check        # Look for a newer release
//	byebye version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/config"
	"github.com/HendryAvila/byebyeanxiety/internal/logging"
)

var (
	verbose bool
	dataDir string
	logFile string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "byebye",
	Short: "ByeBye Anxiety: tasks, diary, social book and two supportive AI personas",
	Long: `ByeBye Anxiety keeps your tasks, todo lists, diary, social book and focus
sessions, and lets you talk about them with Anxiety Killer (day-to-day support)
and Ask Me (learning). Run "byebye serve" from your AI tool's MCP config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, File: logFile})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "byebye v%s\n", version())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: $BYEBYE_DATA_DIR or ~/.byebye)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(serveCmd, chatCmd, configCmd, versionCmd)
}

// loadConfig reads the config file from --data-dir, or the default
// location when the flag is not set.
func loadConfig() (*config.Config, error) {
	if dataDir == "" {
		return config.LoadDefault()
	}
	cfg, err := config.Load(config.Path(dataDir))
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
