package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	config  string
	schema  string
	envFile string
	verbose bool
	noColor bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "chorm",
		Short:         "Render and run ClickHouse statements from a table schema",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "connection config file (yaml, json or toml)")
	pf.StringVarP(&flags.schema, "schema", "s", "chorm.schema.yaml", "table schema file")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading config")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log compiled statements")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newRenderCommand(flags),
		newInsertCommand(flags),
		newFindCommand(flags),
		newPingCommand(flags),
		newTablesCommand(flags),
	)
	return cmd
}

func (f *globalFlags) setup(cmd *cobra.Command) error {
	if f.envFile != "" {
		// A missing dotenv file is not an error.
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f.envFile, err)
		}
	}
	useColor(!f.noColor)
	return nil
}

func (f *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
