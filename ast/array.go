package ast

import "github.com/Konsultn-Engineering/chorm/utils"

// ParamGrid renders rows of cells as "(p, p), (p, p)". Every cell except a
// Default marker becomes one placeholder typed by its column's wire type.
type ParamGrid struct {
	Rows  [][]any
	Types []string
}

// NewParamGrid copies rows, stringifying primitive cells. types may be nil, in
// which case every cell binds as DefaultWireType.
func NewParamGrid(rows [][]any, types []string) *ParamGrid {
	g := &ParamGrid{
		Rows: make([][]any, len(rows)),
	}
	if types != nil {
		g.Types = append([]string(nil), types...)
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			if IsDefault(cell) {
				cells[j] = DefaultValue
				continue
			}
			cells[j], _ = Stringify(cell)
		}
		g.Rows[i] = cells
	}
	return g
}

// WireType returns the wire type for column index col.
func (g *ParamGrid) WireType(col int) string {
	if col < len(g.Types) && g.Types[col] != "" {
		return g.Types[col]
	}
	return DefaultWireType
}

func (g *ParamGrid) Type() NodeType         { return NodeParamGrid }
func (g *ParamGrid) Accept(v Visitor) error { return v.VisitParamGrid(g) }
var (
	defaultCell = utils.FingerprintString("cell:default")
	valueCell   = utils.FingerprintString("cell:value")
)

// Fingerprint covers the grid layout and Default positions, not the values.
func (g *ParamGrid) Fingerprint() uint64 {
	fp := utils.FingerprintString("grid:")
	for _, t := range g.Types {
		fp = utils.Mix64(fp, utils.FingerprintString(t))
	}
	for _, row := range g.Rows {
		fp = utils.Mix64(fp, uint64(len(row)))
		for _, cell := range row {
			if IsDefault(cell) {
				fp = utils.Mix64(fp, defaultCell)
			} else {
				fp = utils.Mix64(fp, valueCell)
			}
		}
	}
	return fp
}
