package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"insiderdash/internal/config"
	"insiderdash/internal/infrastructure"
	"insiderdash/pkg/contracts"
)

// RootConfig holds the global flags and what PersistentPreRunE builds
// from them
type RootConfig struct {
	ConfigPath string
	DataFile   string
	LogLevel   string

	Config *config.Config
	Logger *slog.Logger
}

// New builds the command tree
func New() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Insider trading disclosure dashboard",
		Long: `insiderdash loads the regulator's semicolon-delimited disclosure export,
normalizes it (currency volumes, administrative columns, duplicate volumes,
dates) and serves it as a filterable dashboard with Excel export.

The table can also be printed or exported from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rc.load()
		},
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "YAML config file (default: config.yaml or configs/config.yaml when present)")
	cmd.PersistentFlags().StringVar(&rc.DataFile, "data", "", `disclosure CSV to load, "-" for stdin (overrides pipeline.data_file)`)
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")

	cmd.AddCommand(
		newServeCmd(rc),
		newExportCmd(rc),
		newShowCmd(rc),
		newOptionsCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the command tree against os.Args
func Execute() error {
	return New().Execute()
}

func (rc *RootConfig) load() error {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.DataFile != "" {
		cfg.Pipeline.DataFile = rc.DataFile
	}
	if rc.LogLevel != "" {
		cfg.Logging.Level = rc.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rc.Config = cfg
	// commands other than serve write their result to stdout, so logs go
	// to stderr
	rc.Logger = infrastructure.NewLogger(cfg.Logging, os.Stderr)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
