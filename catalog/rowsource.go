// Copyright 2026 The miniql Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/mqerrors"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// RowSource is the external collaborator spec.md §1/§4.1 describes: given
// a table name, it returns the full ordered sequence of raw records for
// that table. Unknown table is a fatal, configuration-class error.
type RowSource interface {
	Rows(table schema.TableName) ([]index.RawRecord, error)
}

// StaticRowSource serves data held directly in memory, in declaration
// order — the shape
// _examples/original_source/crates/core/src/query/from.rs's
// raw_rows_for_table uses for the animal/species fixture tables.
type StaticRowSource struct {
	tables map[schema.TableName][]index.RawRecord
}

// NewStaticRowSource builds a StaticRowSource from a fixed table->rows map.
func NewStaticRowSource(tables map[schema.TableName][]index.RawRecord) *StaticRowSource {
	return &StaticRowSource{tables: tables}
}

// Rows implements RowSource.
func (s *StaticRowSource) Rows(table schema.TableName) ([]index.RawRecord, error) {
	rows, ok := s.tables[table]
	if !ok {
		return nil, mqerrors.ErrUnknownTable.New(string(table))
	}
	return rows, nil
}

// FileRowSource reads one JSON-lines file per table, eagerly, from a root
// directory (spec.md §6: "Row source files... JSON-lines... Reading is
// eager at catalog-construction time"). The file for table T is
// root/T.jsonl.
type FileRowSource struct {
	tables map[schema.TableName][]index.RawRecord
}

// NewFileRowSource eagerly loads "<root>/<table>.jsonl" for every name in
// tableNames.
func NewFileRowSource(root string, tableNames []schema.TableName) (*FileRowSource, error) {
	tables := make(map[schema.TableName][]index.RawRecord, len(tableNames))
	for _, name := range tableNames {
		rows, err := loadJSONLFile(filepath.Join(root, string(name)+".jsonl"))
		if err != nil {
			return nil, fmt.Errorf("loading row source for table %q: %w", name, err)
		}
		tables[name] = rows
	}
	return &FileRowSource{tables: tables}, nil
}

// Rows implements RowSource.
func (s *FileRowSource) Rows(table schema.TableName) ([]index.RawRecord, error) {
	rows, ok := s.tables[table]
	if !ok {
		return nil, mqerrors.ErrUnknownTable.New(string(table))
	}
	return rows, nil
}

func loadJSONLFile(path string) ([]index.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []index.RawRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		record, err := decodeJSONRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeJSONRecord(line []byte) (index.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	record := make(index.RawRecord, len(raw))
	for k, v := range raw {
		val, err := jsonValueToValue(v)
		if err != nil {
			return nil, err
		}
		record[schema.ColumnName(k)] = val
	}
	return record, nil
}

// MultiRowSource dispatches to the first delegate that knows about the
// requested table, letting an engine mix an in-memory fixture source with
// a file-backed one (the static animal/species pair alongside the
// Album/Artist/Track JSONL files, in this repo's default wiring).
type MultiRowSource struct {
	delegates []RowSource
}

// NewMultiRowSource builds a RowSource trying each delegate in order.
func NewMultiRowSource(delegates ...RowSource) *MultiRowSource {
	return &MultiRowSource{delegates: delegates}
}

// Rows implements RowSource.
func (m *MultiRowSource) Rows(table schema.TableName) ([]index.RawRecord, error) {
	var lastErr error
	for _, d := range m.delegates {
		rows, err := d.Rows(table)
		if err == nil {
			return rows, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, mqerrors.ErrUnknownTable.New(string(table))
}

func jsonValueToValue(v interface{}) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return value.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return value.Value{}, fmt.Errorf("malformed number %q: %w", t.String(), err)
		}
		return value.Float(f), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported JSON value %#v in row source", v)
	}
}
