package query

import (
	"github.com/Konsultn-Engineering/chorm/cache"
	"github.com/Konsultn-Engineering/chorm/dialect"
	"github.com/Konsultn-Engineering/chorm/visitor"
)

var defaultDialect = dialect.NewClickHouseDialect()

// Compiler turns statements into Compiled SQL. With a cache attached, SQL
// text is rendered once per statement shape and values are rebound on every
// call.
type Compiler struct {
	dialect dialect.Dialect
	qcache  cache.QueryCache
}

func NewCompiler(d dialect.Dialect, q cache.QueryCache) *Compiler {
	if d == nil {
		d = defaultDialect
	}
	return &Compiler{dialect: d, qcache: q}
}

func (c *Compiler) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *Compiler) Compile(s Statement) (Compiled, error) {
	if c.qcache == nil {
		return c.build(s)
	}

	fp := s.Fingerprint()
	if cached, ok := c.qcache.Get(fp); ok {
		params, err := c.bind(s)
		if err != nil {
			return Compiled{}, err
		}
		if len(params) == cached.Placeholders {
			return Compiled{SQL: cached.SQL, Params: params}, nil
		}
	}

	compiled, err := c.build(s)
	if err != nil {
		return Compiled{}, err
	}
	c.qcache.Set(fp, &cache.CachedQuery{SQL: compiled.SQL, Placeholders: len(compiled.Params)})
	return compiled, nil
}

func (c *Compiler) bind(s Statement) (map[string]any, error) {
	v := visitor.NewSQLVisitor(c.dialect)
	defer v.Release()
	return v.Bind(s.nodes)
}

func (c *Compiler) build(s Statement) (Compiled, error) {
	v := visitor.NewSQLVisitor(c.dialect)
	defer v.Release()

	sql, params, err := v.Build(s.nodes)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{SQL: sql, Params: params}, nil
}

// Compile renders s with the ClickHouse dialect.
func (s Statement) Compile() (Compiled, error) {
	return NewCompiler(defaultDialect, nil).Compile(s)
}
