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

// Package catalog is the mapping from table name to table descriptor
// (declared columns + index declarations) plus the one-shot index
// construction pass described in spec.md §4.1. Bootstrapping the catalog's
// contents (how tables/columns/indexes are decided) is out of scope per
// spec.md §1; Static below is the concrete bootstrap this repo ships so
// the CLI and tests have something to run against, mirroring
// _examples/original_source/crates/core/src/catalog.rs's
// get_static_catalog().
package catalog

import (
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/schema"
)

// Table is one catalog entry: its declared, ordered column list and the
// indexes built over it.
type Table struct {
	Columns []schema.ColumnName
	Indexes []index.Declaration
}

// Catalog maps table name to its descriptor.
type Catalog struct {
	Tables map[schema.TableName]Table
}

// ConstructedIndex pairs an index declaration with its built contents.
type ConstructedIndex struct {
	Declaration index.Declaration
	Index       index.Constructed
}

// ConstructIndexes builds every declared index of every table by scanning
// that table's rows once through source, per spec.md §4.1.
func (c Catalog) ConstructIndexes(source RowSource) (map[schema.TableName][]ConstructedIndex, error) {
	out := make(map[schema.TableName][]ConstructedIndex, len(c.Tables))
	for tableName, table := range c.Tables {
		built := make([]ConstructedIndex, 0, len(table.Indexes))
		for _, decl := range table.Indexes {
			rows, err := source.Rows(decl.Table)
			if err != nil {
				return nil, err
			}
			built = append(built, ConstructedIndex{
				Declaration: decl,
				Index:       index.Build(decl, rows),
			})
		}
		out[tableName] = built
	}
	return out, nil
}
