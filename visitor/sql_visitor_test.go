package visitor

import (
	"errors"
	"testing"

	"github.com/Konsultn-Engineering/chorm/ast"
	"github.com/Konsultn-Engineering/chorm/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, nodes ...ast.Node) (string, map[string]any) {
	t.Helper()
	v := NewSQLVisitor(dialect.NewClickHouseDialect())
	defer v.Release()

	sql, params, err := v.Build(nodes)
	require.NoError(t, err)
	return sql, params
}

func TestBuildTextFragments(t *testing.T) {
	sql, params := build(t,
		ast.NewLiteral("SELECT * FROM "),
		ast.NewIdentifier("my`table"),
		ast.NewLiteral(" ORDER BY "),
		ast.NewIdentifier("ts"),
		ast.NewLiteral(" "),
		ast.NewRaw("ASC"),
	)

	assert.Equal(t, "SELECT * FROM `my``table` ORDER BY `ts` ASC", sql)
	assert.Empty(t, params)
}

func TestBuildParamsAreSequential(t *testing.T) {
	sql, params := build(t,
		ast.NewLiteral("a = "),
		ast.NewParam("x"),
		ast.NewLiteral(" AND b = "),
		ast.NewTypedParam(uint32(7), "UInt32"),
		ast.NewLiteral(" AND c IN "),
		ast.NewParamGrid([][]any{{1, 2}}, []string{"UInt8", "UInt8"}),
	)

	assert.Equal(t, "a = {param0:String} AND b = {param1:UInt32} AND c IN ({param2:UInt8}, {param3:UInt8})", sql)
	assert.Equal(t, map[string]any{
		"param0": "x",
		"param1": uint32(7),
		"param2": "1",
		"param3": "2",
	}, params)
}

func TestBuildGridWithDefaults(t *testing.T) {
	grid := ast.NewParamGrid([][]any{
		{"a", ast.DefaultValue, 1},
		{"b", 2.5, nil},
	}, []string{"String", "Float32", "Nullable(UInt8)"})

	sql, params := build(t, ast.NewLiteral("VALUES "), grid)

	assert.Equal(t, "VALUES ({param0:String}, DEFAULT, {param1:Nullable(UInt8)}), ({param2:String}, {param3:Float32}, {param4:Nullable(UInt8)})", sql)
	assert.Len(t, params, 5)
	assert.Nil(t, params["param4"])
	assert.Contains(t, params, "param4")
}

func TestBindMatchesBuild(t *testing.T) {
	nodes := []ast.Node{
		ast.NewLiteral("INSERT INTO "),
		ast.NewIdentifier("t"),
		ast.NewLiteral(" VALUES "),
		ast.NewParamGrid([][]any{{"a", ast.DefaultValue}, {nil, 2}}, []string{"Nullable(String)", "UInt8"}),
		ast.NewLiteral(" -- "),
		ast.NewTypedParam(uint64(9), "UInt64"),
	}
	_, built := build(t, nodes...)

	v := NewSQLVisitor(dialect.NewClickHouseDialect())
	defer v.Release()
	bound, err := v.Bind(nodes)
	require.NoError(t, err)
	assert.Equal(t, built, bound)

	_, err = v.Bind([]ast.Node{ast.NewLiteral("x"), nil})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBuildDefaultFragment(t *testing.T) {
	sql, params := build(t, ast.NewLiteral("x = "), ast.DefaultValue)
	assert.Equal(t, "x = DEFAULT", sql)
	assert.Empty(t, params)
}

func TestBuildIsDeterministic(t *testing.T) {
	nodes := []ast.Node{
		ast.NewLiteral("SELECT "),
		ast.NewParam(1),
		ast.NewLiteral(", "),
		ast.NewParamGrid([][]any{{"a", "b"}, {"c", "d"}}, nil),
	}

	sql1, params1 := build(t, nodes...)
	sql2, params2 := build(t, nodes...)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, params1, params2)
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ast.Node
	}{
		{"NilNode", []ast.Node{ast.NewLiteral("a"), nil}},
		{"EmptyGrid", []ast.Node{ast.NewParamGrid(nil, nil)}},
		{"WidthMismatch", []ast.Node{ast.NewParamGrid([][]any{{1, 2}}, []string{"UInt8"})}},
		{"RaggedRows", []ast.Node{ast.NewParamGrid([][]any{{1, 2}, {3}}, nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewSQLVisitor(dialect.NewClickHouseDialect())
			defer v.Release()

			_, _, err := v.Build(tt.nodes)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestVisitorReuseAfterRelease(t *testing.T) {
	first, _ := build(t, ast.NewParam(1))
	second, params := build(t, ast.NewParam(2))

	assert.Equal(t, "{param0:String}", first)
	assert.Equal(t, "{param0:String}", second)
	assert.Equal(t, map[string]any{"param0": 2}, params)
}

func BenchmarkBuildInsertGrid(b *testing.B) {
	rows := make([][]any, 100)
	for i := range rows {
		rows[i] = []any{i, "user", 1.5}
	}
	grid := ast.NewParamGrid(rows, []string{"UInt32", "String", "Float64"})
	nodes := []ast.Node{ast.NewLiteral("INSERT INTO "), ast.NewIdentifier("t"), ast.NewLiteral(" VALUES "), grid}
	d := dialect.NewClickHouseDialect()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := NewSQLVisitor(d)
		_, _, _ = v.Build(nodes)
		v.Release()
	}
}
