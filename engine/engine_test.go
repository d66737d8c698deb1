package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/chorm/cache"
	"github.com/Konsultn-Engineering/chorm/schema"
)

type call struct {
	sql    string
	params map[string]any
}

type fakeClient struct {
	queries  []call
	commands []call
	rows     []map[string]any
	err      error
}

func (f *fakeClient) Query(_ context.Context, sql string, params map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, call{sql, params})
	return f.rows, f.err
}

func (f *fakeClient) Command(_ context.Context, sql string, params map[string]any) error {
	f.commands = append(f.commands, call{sql, params})
	return f.err
}

func (f *fakeClient) Ping(context.Context) error { return f.err }
func (f *fakeClient) Close() error               { return nil }

type Visit struct {
	UserID uint64    `ch:"user_id"`
	Page   string    `ch:"page"`
	At     time.Time `ch:"visited_at;tz:UTC;omitempty"`
}

func TestEngineInsertMany(t *testing.T) {
	client := &fakeClient{}
	e := New(client)
	views := viewsTable()

	err := e.InsertMany(context.Background(), views, []schema.Row{{"userId": 1, "url": "/"}})
	require.NoError(t, err)
	require.Len(t, client.commands, 1)
	assert.Contains(t, client.commands[0].sql, "INSERT INTO `views` (`user_id`, `url`, `score`, `source`, `at`) VALUES")
	assert.Equal(t, "1", client.commands[0].params["param0"])

	t.Run("ClientErrorWrapped", func(t *testing.T) {
		boom := errors.New("connection reset")
		client := &fakeClient{err: boom}
		err := New(client).InsertMany(context.Background(), views, []schema.Row{{}})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NotRows", func(t *testing.T) {
		err := e.InsertMany(context.Background(), views, 42)
		assert.ErrorIs(t, err, schema.ErrNotRowSequence)
	})

	t.Run("NilTable", func(t *testing.T) {
		assert.ErrorIs(t, e.InsertMany(context.Background(), nil, []schema.Row{{}}), ErrNilTable)
	})
}

func TestEngineValidation(t *testing.T) {
	client := &fakeClient{}
	e := New(client, WithValidation(true))
	views := viewsTable()

	err := e.InsertMany(context.Background(), views, []schema.Row{{"source": "tv"}})
	assert.ErrorIs(t, err, schema.ErrInvalidValue)

	err = e.InsertMany(context.Background(), views, []schema.Row{{"bogus": 1}})
	assert.ErrorIs(t, err, schema.ErrUnknownField)
	assert.Empty(t, client.commands)

	require.NoError(t, e.InsertMany(context.Background(), views, []schema.Row{{"source": "web", "score": 1.5}}))
	assert.Len(t, client.commands, 1)
}

func TestEngineFindMany(t *testing.T) {
	client := &fakeClient{rows: []map[string]any{
		{"user_id": uint64(7), "url": "/a", "extra": 1},
	}}
	e := New(client)

	rows, err := e.FindMany(context.Background(), viewsTable(), &FindQuery{
		Filter: map[string]Condition{"userId": {Equals: uint64(7)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []schema.Row{{"userId": uint64(7), "url": "/a", "extra": 1}}, rows)

	require.Len(t, client.queries, 1)
	assert.Equal(t, "SELECT * FROM `views` WHERE 1=1 AND `user_id` = {param0:UInt64}", client.queries[0].sql)
	assert.Equal(t, map[string]any{"param0": uint64(7)}, client.queries[0].params)

	t.Run("ClientError", func(t *testing.T) {
		boom := errors.New("timeout")
		_, err := New(&fakeClient{err: boom}).FindMany(context.Background(), viewsTable(), nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestEngineStructs(t *testing.T) {
	client := &fakeClient{}
	e := New(client)

	require.NoError(t, e.Create(context.Background(), []Visit{{UserID: 1, Page: "/"}}))
	require.Len(t, client.commands, 1)
	assert.Equal(t,
		"INSERT INTO `visits` (`user_id`, `page`, `visited_at`) VALUES ({param0:UInt64}, {param1:String}, {param2:DateTime('UTC')})",
		client.commands[0].sql)
	assert.Nil(t, client.commands[0].params["param2"])

	client.rows = []map[string]any{{"user_id": uint64(3), "page": "/x", "visited_at": time.Unix(0, 0).UTC()}}
	var visits []Visit
	require.NoError(t, e.Find(context.Background(), &visits, &FindQuery{Limit: 1}))
	require.Len(t, visits, 1)
	assert.Equal(t, uint64(3), visits[0].UserID)
	assert.Equal(t, "/x", visits[0].Page)
	assert.Equal(t, "SELECT * FROM `visits` LIMIT {param0:UInt64}", client.queries[0].sql)

	assert.ErrorIs(t, e.Create(context.Background(), nil), ErrNilTable)
}

func TestEngineLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(&fakeClient{}, WithLogger(logger))

	require.NoError(t, e.InsertMany(context.Background(), viewsTable(), []schema.Row{{}}))
	out := buf.String()
	assert.Contains(t, out, "msg=insert")
	assert.Contains(t, out, "table=views")
	assert.Contains(t, out, "params=5")
	assert.Contains(t, out, "rows=1")
	assert.Contains(t, out, "INSERT INTO")

	buf.Reset()
	quiet := New(&fakeClient{}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, quiet.InsertMany(context.Background(), viewsTable(), []schema.Row{{}}))
	assert.Empty(t, buf.String())
}

func TestEngineFindCache(t *testing.T) {
	qc := cache.NewQueryCache(8)
	client := &fakeClient{}
	e := New(client, WithCache(qc))
	q := &FindQuery{Filter: map[string]Condition{"userId": {Equals: uint64(1)}}}

	for i := 0; i < 3; i++ {
		_, err := e.FindMany(context.Background(), viewsTable(), q)
		require.NoError(t, err)
	}
	stats := qc.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, qc.Len())

	require.NoError(t, e.InsertMany(context.Background(), viewsTable(), []schema.Row{{}}))
	assert.Equal(t, 1, qc.Len(), "inserts bypass the cache")

	for _, c := range client.queries {
		assert.Equal(t, client.queries[0], c)
	}
}

func TestSession(t *testing.T) {
	client := &fakeClient{}
	e := New(client)
	views := viewsTable()

	s := e.Table(views).
		Where("userId", Condition{Gte: uint64(5)}).
		Order("at", "asc").
		Limit(10).
		Offset(30)

	assert.Equal(t, &FindQuery{
		Filter: map[string]Condition{"userId": {Gte: uint64(5)}},
		Sort:   "at",
		Order:  "asc",
		Limit:  10,
		Offset: 30,
	}, s.Query())

	_, err := s.Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM `views` WHERE 1=1 AND `user_id` >= {param0:UInt64} ORDER BY `at` ASC LIMIT {param1:UInt64} OFFSET {param2:UInt64}",
		client.queries[0].sql)

	require.NoError(t, e.Table(views).Insert(context.Background(), []schema.Row{{"url": "/"}}))
	assert.Len(t, client.commands, 1)
}
