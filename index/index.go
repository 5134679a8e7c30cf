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

// Package index builds and probes the constructed indexes the physical
// planner substitutes for a Filter-over-From when an equality predicate is
// fully covered. Grounded in
// _examples/original_source/crates/core/src/indexes.rs, generalised to use
// a single shared hasher (value.HashKey, backed by
// github.com/cespare/xxhash/v2) instead of Rust's DefaultHasher, per
// spec.md §9's "single internal hasher type; do not expose it".
package index

import (
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// Declaration is an index over an ordered list of columns of one table.
type Declaration struct {
	Table   schema.TableName
	Columns []schema.ColumnName
}

// Covers reports whether every column in the declaration has an equality
// binding in bindings — the predicate R1 in spec.md §4.5 checks.
func (d Declaration) Covers(bindings map[schema.ColumnName]value.Value) bool {
	for _, c := range d.Columns {
		if _, ok := bindings[c]; !ok {
			return false
		}
	}
	return true
}

// ProbeKey builds the composite probe value for this declaration out of a
// binding set, in declared column order.
func (d Declaration) ProbeKey(bindings map[schema.ColumnName]value.Value) []value.Value {
	key := make([]value.Value, len(d.Columns))
	for i, c := range d.Columns {
		key[i] = bindings[c]
	}
	return key
}

// RawRecord is the name->value mapping a row source yields for one row.
type RawRecord map[schema.ColumnName]value.Value

// Constructed is a completed index: hash of a composite key -> ordered
// record positions (ordinals into the row source's scan order), plus the
// keys actually stored at build time, needed to confirm a probe hash isn't
// a collision (spec.md §4.2/§4.6's "hash equality must be confirmed by
// value equality" requirement).
type Constructed struct {
	buckets map[uint64][]bucketEntry
}

type bucketEntry struct {
	key       []value.Value
	positions []int
}

// Build iterates rows once (in row-source/scan order) and constructs the
// index: for row i, form the k-tuple of values named by decl.Columns
// (missing column -> null), hash it, and append i to that key's bucket.
// Ties (identical keys, or hash collisions) share a bucket; order within a
// bucket is insertion order.
func Build(decl Declaration, rows []RawRecord) Constructed {
	c := Constructed{buckets: make(map[uint64][]bucketEntry)}
	for i, row := range rows {
		key := make([]value.Value, len(decl.Columns))
		for j, col := range decl.Columns {
			if v, ok := row[col]; ok {
				key[j] = v
			} else {
				key[j] = value.Null()
			}
		}
		c.insert(key, i)
	}
	return c
}

func (c *Constructed) insert(key []value.Value, position int) {
	hash := value.HashKey(key)
	bucket := c.buckets[hash]
	for i := range bucket {
		if sameKey(bucket[i].key, key) {
			bucket[i].positions = append(bucket[i].positions, position)
			c.buckets[hash] = bucket
			return
		}
	}
	c.buckets[hash] = append(bucket, bucketEntry{key: key, positions: []int{position}})
}

// Lookup returns the record positions whose key structurally equals probe,
// in insertion (table-scan) order. A hash match whose stored key differs
// from probe (a collision) is not returned, per spec.md §4.6.
func (c Constructed) Lookup(probe []value.Value) []int {
	hash := value.HashKey(probe)
	for _, entry := range c.buckets[hash] {
		if sameKey(entry.key, probe) {
			return entry.positions
		}
	}
	return nil
}

func sameKey(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
