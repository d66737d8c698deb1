package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRows(t *testing.T) {
	table := MustTable("events",
		Field("userId", UInt(64).Identifier("user_id")),
		Field("name", String()),
	)

	tests := []struct {
		name string
		data any
		want []Row
	}{
		{
			"Maps",
			[]map[string]any{{"user_id": uint64(1), "name": "a", "extra": true}},
			[]Row{{"userId": uint64(1), "name": "a", "extra": true}},
		},
		{
			"AnySlice",
			[]any{map[string]any{"user_id": 2}, Row{"name": "b"}},
			[]Row{{"userId": 2}, {"name": "b"}},
		},
		{
			"JSON",
			[]byte(`[{"user_id": 3, "name": "c"}]`),
			[]Row{{"userId": json.Number("3"), "name": "c"}},
		},
		{
			"RawMessage",
			json.RawMessage(`[]`),
			[]Row{},
		},
		{
			"Empty",
			[]map[string]any{},
			[]Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := MapRows(table, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}

	t.Run("NotRowSequence", func(t *testing.T) {
		for _, data := range []any{
			nil,
			"rows",
			42,
			map[string]any{"user_id": 1},
			[]any{1},
			[]byte(`{"user_id": 1}`),
			[]byte(`[1, 2]`),
			[]byte(`null`),
			[]byte(` null `),
		} {
			_, err := MapRows(table, data)
			assert.ErrorIs(t, err, ErrNotRowSequence, "%v", data)
		}
	})

	t.Run("EmptyArray", func(t *testing.T) {
		rows, err := MapRows(table, []byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
