package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Konsultn-Engineering/chorm/dialect"
	"github.com/Konsultn-Engineering/chorm/query"
)

var (
	sqlColor   = color.New(color.FgCyan)
	paramColor = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
)

func useColor(enabled bool) {
	color.NoColor = !enabled || color.NoColor
}

func printCompiled(w io.Writer, c query.Compiled, inline bool) {
	d := dialect.NewClickHouseDialect()
	if inline {
		sqlColor.Fprintln(w, c.Interpolate(d))
		return
	}
	sqlColor.Fprintln(w, c.SQL)
	for _, name := range c.ParamNames(d) {
		paramColor.Fprintf(w, "  %s = %s\n", name, d.RenderValue(c.Params[name]))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
