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

// Package schema holds the name and row model threaded through every
// operator: column references, schemas built from them, rows, and the
// per-step cost counter. It is the Go counterpart of
// _examples/original_source/crates/core/src/types.rs's Column/Schema/Row/
// Cost definitions, generalised to carry synthesised expression names
// (SchemaColumn.Named) as spec.md §3 requires.
package schema

import (
	"fmt"

	"github.com/danieljharvey/miniql/value"
)

// ColumnName is a bare, case-sensitive column name.
type ColumnName string

// TableName is a bare, case-sensitive table name.
type TableName string

// TableAlias is an optional alias attached to a From/TableScan/IndexScan.
type TableAlias string

// Column is a reference to a column, optionally qualified by a table
// alias. Two Columns are equal iff both fields match.
type Column struct {
	Name  ColumnName
	Alias *TableAlias
}

// NewColumn builds an unqualified column reference.
func NewColumn(name string) Column {
	return Column{Name: ColumnName(name)}
}

// WithAlias returns a copy of c qualified by alias (alias may be "", in
// which case c is returned unqualified).
func (c Column) WithAlias(alias string) Column {
	if alias == "" {
		return Column{Name: c.Name}
	}
	a := TableAlias(alias)
	return Column{Name: c.Name, Alias: &a}
}

// Equal reports whether two column references name the same thing.
func (c Column) Equal(other Column) bool {
	if c.Name != other.Name {
		return false
	}
	switch {
	case c.Alias == nil && other.Alias == nil:
		return true
	case c.Alias == nil || other.Alias == nil:
		return false
	default:
		return *c.Alias == *other.Alias
	}
}

// String renders "alias.name" or "name", per spec.md §3.
func (c Column) String() string {
	if c.Alias != nil {
		return fmt.Sprintf("%s.%s", *c.Alias, c.Name)
	}
	return string(c.Name)
}

// SchemaColumn is either a Column reference, or a synthesised label for a
// projected expression with no source column (a literal, a binary
// operation, a function call).
type SchemaColumn struct {
	column *Column
	named  string
}

// FromColumn wraps a column reference as a schema entry.
func FromColumn(c Column) SchemaColumn { return SchemaColumn{column: &c} }

// Named builds a synthesised schema entry from a display label.
func Named(label string) SchemaColumn { return SchemaColumn{named: label} }

// AsColumn returns the underlying Column reference, if this entry wraps
// one.
func (sc SchemaColumn) AsColumn() (Column, bool) {
	if sc.column == nil {
		return Column{}, false
	}
	return *sc.column, true
}

// String renders the display key used for the JSON output key (spec.md
// §4.7). Column resolution (Schema.IndexOf) compares Column references,
// not this string.
func (sc SchemaColumn) String() string {
	if sc.column != nil {
		return sc.column.String()
	}
	return sc.named
}

// Equal compares two schema entries by their display identity: two Column
// entries compare by reference equality, two Named entries by string.
func (sc SchemaColumn) Equal(other SchemaColumn) bool {
	if (sc.column == nil) != (other.column == nil) {
		return false
	}
	if sc.column != nil {
		return sc.column.Equal(*other.column)
	}
	return sc.named == other.named
}

// Schema is an ordered list of schema entries. Row length must always
// match Schema length (spec.md §3's row/schema length invariant).
type Schema struct {
	Columns []SchemaColumn
}

// New builds a Schema from column references, all sharing the same
// optional alias — the shape TableScan/IndexScan need.
func New(columns []ColumnName, alias string) Schema {
	out := make([]SchemaColumn, 0, len(columns))
	for _, c := range columns {
		out = append(out, FromColumn(Column{Name: c}.WithAlias(alias)))
	}
	return Schema{Columns: out}
}

// IndexOf resolves a column reference to its position, using first-match
// semantics when duplicate entries exist (spec.md §3's tolerance note).
func (s Schema) IndexOf(c Column) (int, bool) {
	for i, sc := range s.Columns {
		if col, ok := sc.AsColumn(); ok && col.Equal(c) {
			return i, true
		}
	}
	return -1, false
}

// Concat appends another schema's columns, building the combined schema a
// Join produces (left schema followed by right schema).
func (s Schema) Concat(other Schema) Schema {
	out := make([]SchemaColumn, 0, len(s.Columns)+len(other.Columns))
	out = append(out, s.Columns...)
	out = append(out, other.Columns...)
	return Schema{Columns: out}
}

// Len reports the number of entries.
func (s Schema) Len() int { return len(s.Columns) }

// Row is an ordered list of values, one per schema entry.
type Row struct {
	Items []value.Value
}

// Get returns the value for column c, resolved against schema.
func (r Row) Get(schema Schema, c Column) (value.Value, bool) {
	i, ok := schema.IndexOf(c)
	if !ok {
		return value.Value{}, false
	}
	return r.Items[i], true
}

// Concat appends another row's items, building the combined row a Join
// emits.
func (r Row) Concat(other Row) Row {
	items := make([]value.Value, 0, len(r.Items)+len(other.Items))
	items = append(items, r.Items...)
	items = append(items, other.Items...)
	return Row{Items: items}
}

// Clone returns a row with its own backing array, so appends to the copy
// never alias the original (Join's emit phase clones every matched left
// row before extending it).
func (r Row) Clone() Row {
	items := make([]value.Value, len(r.Items))
	copy(items, r.Items)
	return Row{Items: items}
}

// Cost is the monotonically increasing rows-processed counter every
// operator threads through (spec.md §3/§4).
type Cost struct {
	RowsProcessed uint64
}

// IncrementRowsProcessed bumps the counter by one.
func (c *Cost) IncrementRowsProcessed() { c.RowsProcessed++ }

// Add accumulates another cost into this one (used when Join combines its
// two children's costs).
func (c *Cost) Add(other Cost) { c.RowsProcessed += other.RowsProcessed }

// QueryStep is the uniform result every operator produces: a schema, the
// materialised rows, and the cost incurred producing them.
type QueryStep struct {
	Schema Schema
	Rows   []Row
	Cost   Cost
}
