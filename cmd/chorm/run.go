package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/chorm"
	"github.com/Konsultn-Engineering/chorm/cache"
	"github.com/Konsultn-Engineering/chorm/connector"
	"github.com/Konsultn-Engineering/chorm/engine"
)

func connect(ctx context.Context, g *globalFlags, logger *slog.Logger) (*chorm.Engine, error) {
	cfg, err := connector.LoadConfig(g.config)
	if err != nil {
		return nil, err
	}
	return chorm.Connect(ctx, cfg,
		engine.WithLogger(logger),
		engine.WithValidation(true),
		engine.WithCache(cache.NewQueryCache(cache.DefaultSize)),
	)
}

func newInsertCommand(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a JSON batch of rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(g.schema, f.table)
			if err != nil {
				return err
			}
			data, err := readInput(f.input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			rows, err := readRows(data)
			if err != nil {
				return err
			}

			e, err := connect(cmd.Context(), g, g.logger(cmd))
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.InsertMany(cmd.Context(), t, rows); err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "inserted %d rows into %s\n", len(rows), t.Identifier())
			return nil
		},
	}
	f.bind(cmd, "JSON rows file, - for stdin")
	return cmd
}

func newFindCommand(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Run a JSON find query and print matching rows as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(g.schema, f.table)
			if err != nil {
				return err
			}
			data, err := readInput(f.input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			q, err := readQuery(data)
			if err != nil {
				return err
			}

			e, err := connect(cmd.Context(), g, g.logger(cmd))
			if err != nil {
				return err
			}
			defer e.Close()

			rows, err := e.FindMany(cmd.Context(), t, q)
			if err != nil {
				return fmt.Errorf("find in %s: %w", t.Identifier(), err)
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	f.bind(cmd, "JSON query file, - for stdin")
	return cmd
}
