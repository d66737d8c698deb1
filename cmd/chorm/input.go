package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/chorm/engine"
	"github.com/Konsultn-Engineering/chorm/schema"
)

// schemaFile is the on-disk layout of a table schema file.
type schemaFile struct {
	Tables []schema.TableSpec `mapstructure:"tables"`
}

func loadTables(path string) (map[string]*schema.Table, []string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	var file schemaFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, nil, fmt.Errorf("decode schema %s: %w", path, err)
	}

	tables := make(map[string]*schema.Table, len(file.Tables))
	names := make([]string, 0, len(file.Tables))
	for _, spec := range file.Tables {
		t, err := spec.Build()
		if err != nil {
			return nil, nil, err
		}
		if _, dup := tables[spec.Name]; dup {
			return nil, nil, fmt.Errorf("schema %s: table %s declared twice", path, spec.Name)
		}
		tables[spec.Name] = t
		names = append(names, spec.Name)
	}
	return tables, names, nil
}

func loadTable(path, name string) (*schema.Table, error) {
	tables, names, err := loadTables(path)
	if err != nil {
		return nil, err
	}
	if name == "" && len(names) == 1 {
		name = names[0]
	}
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found in %s (have %v)", name, path, names)
	}
	return t, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// readRows decodes a JSON array of objects, or a single object.
func readRows(data []byte) ([]schema.Row, error) {
	data = bytes.TrimSpace(data)
	var rows []schema.Row
	if len(data) > 0 && data[0] == '{' {
		var row schema.Row
		if err := decodeJSON(data, &row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		rows = []schema.Row{row}
	} else if err := decodeJSON(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	for _, row := range rows {
		for k, v := range row {
			row[k] = plainNumber(v)
		}
	}
	return rows, nil
}

func readQuery(data []byte) (*engine.FindQuery, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &engine.FindQuery{}, nil
	}
	var q engine.FindQuery
	if err := decodeJSON(data, &q); err != nil {
		return nil, fmt.Errorf("decode query: %w", err)
	}
	for name, c := range q.Filter {
		c.Equals = plainNumber(c.Equals)
		c.NotEquals = plainNumber(c.NotEquals)
		c.Gt = plainNumber(c.Gt)
		c.Gte = plainNumber(c.Gte)
		c.Lt = plainNumber(c.Lt)
		c.Lte = plainNumber(c.Lte)
		for i := range c.In {
			c.In[i] = plainNumber(c.In[i])
		}
		for i := range c.NotIn {
			c.NotIn[i] = plainNumber(c.NotIn[i])
		}
		if c.Between != nil {
			c.Between.Low = plainNumber(c.Between.Low)
			c.Between.High = plainNumber(c.Between.High)
		}
		q.Filter[name] = c
	}
	return &q, nil
}

// plainNumber keeps JSON numbers as their literal text so wide integers bind
// without float rounding.
func plainNumber(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return v
}
