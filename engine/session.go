package engine

import (
	"context"

	"github.com/Konsultn-Engineering/chorm/schema"
)

// Session assembles a FindQuery fluently:
//
//	rows, err := e.Table(views).
//		Where("userId", engine.Condition{Equals: uint64(7)}).
//		Order("viewedAt", "desc").
//		Limit(100).
//		Find(ctx)
type Session struct {
	engine *Engine
	table  *schema.Table
	query  FindQuery
}

func (e *Engine) Table(t *schema.Table) *Session {
	return &Session{engine: e, table: t}
}

// Where sets the condition for one field, replacing any earlier one.
func (s *Session) Where(field string, c Condition) *Session {
	if s.query.Filter == nil {
		s.query.Filter = make(map[string]Condition)
	}
	s.query.Filter[field] = c
	return s
}

func (s *Session) Order(field, direction string) *Session {
	s.query.Sort = field
	s.query.Order = direction
	return s
}

func (s *Session) Limit(n uint64) *Session {
	s.query.Limit = n
	return s
}

func (s *Session) Offset(n uint64) *Session {
	s.query.Offset = n
	return s
}

// Query returns a copy of the assembled query.
func (s *Session) Query() *FindQuery {
	q := s.query
	if s.query.Filter != nil {
		q.Filter = make(map[string]Condition, len(s.query.Filter))
		for k, v := range s.query.Filter {
			q.Filter[k] = v
		}
	}
	return &q
}

func (s *Session) Find(ctx context.Context) ([]schema.Row, error) {
	return s.engine.FindMany(ctx, s.table, s.Query())
}

// Insert inserts rows into the session's table.
func (s *Session) Insert(ctx context.Context, rows any) error {
	return s.engine.InsertMany(ctx, s.table, rows)
}
