package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/Konsultn-Engineering/chorm/cache"
	"github.com/Konsultn-Engineering/chorm/database"
	"github.com/Konsultn-Engineering/chorm/dialect"
	"github.com/Konsultn-Engineering/chorm/query"
	"github.com/Konsultn-Engineering/chorm/schema"
)

// Engine generates statements from table metadata and runs them through a
// database.Client.
type Engine struct {
	client   database.Client
	logger   *slog.Logger
	dialect  dialect.Dialect
	finds    *query.Compiler
	inserts  *query.Compiler
	validate bool
}

type Option func(*Engine)

// WithLogger logs every statement at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCache caches compiled find statements. Inserts carry per-batch values
// and are never cached.
func WithCache(q cache.QueryCache) Option {
	return func(e *Engine) { e.finds = query.NewCompiler(e.dialect, q) }
}

// WithValidation checks inserted rows against column types before any SQL is
// built.
func WithValidation(enabled bool) Option {
	return func(e *Engine) { e.validate = enabled }
}

func New(client database.Client, opts ...Option) *Engine {
	d := dialect.NewClickHouseDialect()
	e := &Engine{
		client:  client,
		logger:  slog.New(slog.DiscardHandler),
		dialect: d,
		finds:   query.NewCompiler(d, nil),
		inserts: query.NewCompiler(d, nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Client() database.Client { return e.client }

// Close closes the underlying client.
func (e *Engine) Close() error { return e.client.Close() }

// InsertMany inserts rows into t as one statement. rows is anything
// schema.RowsFrom accepts.
func (e *Engine) InsertMany(ctx context.Context, t *schema.Table, rows any) error {
	if t == nil {
		return ErrNilTable
	}
	batch, err := schema.RowsFrom(rows)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", t.Identifier(), err)
	}

	if e.validate {
		for i, row := range batch {
			if err := t.ValidateRow(row); err != nil {
				return fmt.Errorf("insert into %s: row %d: %w", t.Identifier(), i, err)
			}
		}
	}

	stmt, err := InsertStatement(t, batch)
	if err != nil {
		return err
	}
	compiled, err := e.inserts.Compile(stmt)
	if err != nil {
		return err
	}

	e.log(ctx, "insert", t, compiled, slog.Int("rows", len(batch)))
	if err := e.client.Command(ctx, compiled.SQL, compiled.Params); err != nil {
		return fmt.Errorf("insert into %s: %w", t.Identifier(), err)
	}
	return nil
}

// FindMany runs a find and returns rows keyed by friendly name.
func (e *Engine) FindMany(ctx context.Context, t *schema.Table, q *FindQuery) ([]schema.Row, error) {
	stmt, err := FindStatement(t, q)
	if err != nil {
		return nil, err
	}
	compiled, err := e.finds.Compile(stmt)
	if err != nil {
		return nil, err
	}

	e.log(ctx, "find", t, compiled)
	data, err := e.client.Query(ctx, compiled.SQL, compiled.Params)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", t.Identifier(), err)
	}
	return schema.MapRows(t, data)
}

// Create inserts tagged structs; the table comes from schema.FromStruct.
// data is a struct, a pointer to one, or a slice of either.
func (e *Engine) Create(ctx context.Context, data any) error {
	t, err := tableOf(reflect.TypeOf(data))
	if err != nil {
		return err
	}
	return e.InsertMany(ctx, t, data)
}

// Find loads matching rows into dest, a pointer to a slice of tagged structs.
func (e *Engine) Find(ctx context.Context, dest any, q *FindQuery) error {
	t, err := tableOf(reflect.TypeOf(dest))
	if err != nil {
		return err
	}
	rows, err := e.FindMany(ctx, t, q)
	if err != nil {
		return err
	}
	return schema.Decode(rows, dest)
}

func tableOf(t reflect.Type) (*schema.Table, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return schema.FromStruct(t)
}

func (e *Engine) log(ctx context.Context, op string, t *schema.Table, c query.Compiled, attrs ...slog.Attr) {
	if !e.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs = append(attrs,
		slog.String("table", t.Identifier()),
		slog.String("sql", c.SQL),
		slog.Int("params", len(c.Params)),
	)
	e.logger.LogAttrs(ctx, slog.LevelDebug, op, attrs...)
}
