package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the schema file with their columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, names, err := loadTables(g.schema)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				t := tables[name]
				okColor.Fprintln(out, t.Identifier())
				for _, f := range t.Fields() {
					fmt.Fprintf(out, "  %-20s %-20s %s\n", f.Name, t.DatabaseIdentifier(f.Name), f.Column.WireType())
				}
			}
			return nil
		},
	}
}
