package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/config"
	"github.com/tabnotation/notation/model"
	"github.com/tabnotation/notation/version"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:           "notation",
	Short:         "Assemble, inspect, export and serve tab documents",
	Long:          "notation reads tab documents (.yml or .json), expands their form into bars and lanes, and prints, exports or serves the result.",
	Version:       version.VersionOrHash,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile, cmd.Flags()); err != nil {
			return err
		}
		if logger, err = cfg.Log.Logger(os.Stderr); err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "Config file. Defaults to $NOTATION_CONFIG or ~/.config/notation/config.yaml.")
	f.Bool("ready", false, "Prepend a one bar lead-in section.")
	f.Int("begin", -1, "First bar to include, counting from 0. Negative values mean no limit.")
	f.Int("end", -1, "Last bar to include. Negative values mean no limit.")
	f.String("log-level", "info", "Log level: debug, info, warn or error.")
}

// loadTab reads and assembles the tab document at path, using the assembly
// options from the configuration.
func loadTab(path string) (*model.Tab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", path, err)
	}
	defer f.Close()
	doc, err := notation.ReadTab(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", path, err)
	}
	return model.Parse(doc, cfg.Document.Options(logger))
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "notation: %v\n", err)
}
