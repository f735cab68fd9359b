package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jvs-project/clonekit/pkg/color"
	"github.com/jvs-project/clonekit/pkg/config"
	"github.com/jvs-project/clonekit/pkg/logging"
	"github.com/jvs-project/clonekit/pkg/metrics"
)

var (
	jsonOutput  bool
	noColor     bool
	logLevel    string
	configPath  string
	metricsDump bool

	// cfg is loaded before every command runs.
	cfg = config.Default()

	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clonekit",
		Short: "clonekit - copy-on-write file cloning",
		Long: `clonekit clones files and directory trees using copy-on-write reflinks
where the filesystem supports them, falling back to plain copies.
Destination files are created exclusively and removed again if a clone
fails, so an interrupted clone never leaves a partial file behind.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  loadRuntime,
		PersistentPostRunE: dumpMetrics,
	}
	flags := cmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	flags.StringVar(&configPath, "config", config.DefaultPath, "path to the configuration file")
	flags.BoolVar(&metricsDump, "metrics-dump", false, "print Prometheus metrics to stderr after the command")
	return cmd
}

// loadRuntime reads the config file and applies it to the global logger.
func loadRuntime(cmd *cobra.Command, args []string) error {
	color.Init(noColor)

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := c.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	logging.Global().SetLevel(lvl)

	cfg = c
	return nil
}

func dumpMetrics(cmd *cobra.Command, args []string) error {
	if !metricsDump && !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.Default().WriteText(cmd.ErrOrStderr())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
