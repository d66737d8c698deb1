package main

import (
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/chorm/engine"
)

type renderFlags struct {
	table  string
	input  string
	inline bool
}

func newRenderCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL and parameters a statement compiles to",
	}
	cmd.AddCommand(newRenderInsertCommand(g), newRenderFindCommand(g))
	return cmd
}

func (f *renderFlags) bind(cmd *cobra.Command, inputHelp string) {
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "table name from the schema file")
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", inputHelp)
	cmd.Flags().BoolVar(&f.inline, "inline", false, "inline parameter values into the SQL")
}

func newRenderInsertCommand(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Render an INSERT for a JSON batch of rows",
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
			compiled, err := engine.InsertSQL(t, rows)
			if err != nil {
				return err
			}
			printCompiled(cmd.OutOrStdout(), compiled, f.inline)
			return nil
		},
	}
	f.bind(cmd, "JSON rows file, - for stdin")
	return cmd
}

func newRenderFindCommand(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Render a SELECT for a JSON find query",
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
			compiled, err := engine.FindSQL(t, q)
			if err != nil {
				return err
			}
			printCompiled(cmd.OutOrStdout(), compiled, f.inline)
			return nil
		},
	}
	f.bind(cmd, "JSON query file, - for stdin")
	return cmd
}
