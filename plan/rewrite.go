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

package plan

import (
	"github.com/danieljharvey/miniql/catalog"
	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// ToPhysical rewrites a logical plan into a physical one, per spec.md
// §4.5. R1 replaces a Filter directly over a From with an IndexScan when
// an index fully covers the predicate's equality bindings; R2 otherwise
// recurses, replacing From with TableScan and preserving every other
// shape structurally.
//
// Open question (spec.md §9, "partial index coverage") resolved here: the
// rewrite fires only when the predicate is exactly one top-level equality
// whose column exactly matches a single-column index (the only shape a
// lone equality predicate — this Expr algebra has no AND — can ever fully
// cover), never leaving a residual Filter. Anything else keeps the
// Filter, wrapping a TableScan.
func ToPhysical(logical Logical, indexesByTable map[schema.TableName][]catalog.ConstructedIndex) Physical {
	switch t := logical.(type) {
	case LogicalFrom:
		return TableScan{Table: t.Table, Alias: t.Alias}

	case LogicalFilter:
		return filterToPhysical(t, indexesByTable)

	case LogicalJoin:
		return Join{
			Type:  t.Type,
			Left:  ToPhysical(t.Left, indexesByTable),
			Right: ToPhysical(t.Right, indexesByTable),
			On:    t.On,
		}

	case LogicalProject:
		return Project{Child: ToPhysical(t.Child, indexesByTable), Fields: t.Fields}

	case LogicalLimit:
		return Limit{Child: ToPhysical(t.Child, indexesByTable), N: t.N}

	case LogicalOrderBy:
		return OrderBy{Child: ToPhysical(t.Child, indexesByTable), Keys: t.Keys}

	default:
		panic("plan: unreachable logical plan shape")
	}
}

func filterToPhysical(f LogicalFilter, indexesByTable map[schema.TableName][]catalog.ConstructedIndex) Physical {
	from, ok := f.Child.(LogicalFrom)
	if !ok {
		// R2: Filter doesn't directly wrap a From, so no index rewrite is
		// possible here — recurse into the child.
		return Filter{Child: ToPhysical(f.Child, indexesByTable), Predicate: f.Predicate}
	}

	if bindings, ok := extractEqualityBindings(f.Predicate); ok {
		for _, candidate := range indexesByTable[from.Table] {
			if len(candidate.Declaration.Columns) != len(bindings) {
				continue
			}
			if !candidate.Declaration.Covers(bindings) {
				continue
			}
			probeKey := candidate.Declaration.ProbeKey(bindings)
			return IndexScan{
				Table:     from.Table,
				Alias:     from.Alias,
				Index:     candidate.Declaration,
				ProbeKeys: [][]value.Value{probeKey},
				Built:     candidate.Index,
			}
		}
	}

	return Filter{Child: TableScan{Table: from.Table, Alias: from.Alias}, Predicate: f.Predicate}
}

// extractEqualityBindings recognises BinaryOp(=, Column, Literal), in
// either operand order, once Nested wrappers are stripped. Any other
// shape contributes no bindings (spec.md §4.5).
func extractEqualityBindings(predicate expression.Expr) (map[schema.ColumnName]value.Value, bool) {
	for {
		if nested, ok := predicate.(expression.Nested); ok {
			predicate = nested.Inner
			continue
		}
		break
	}

	bop, ok := predicate.(expression.BinaryOp)
	if !ok || bop.Op != expression.OpEq {
		return nil, false
	}

	if col, ok := bop.Left.(expression.Column); ok {
		if lit, ok := bop.Right.(expression.Literal); ok {
			return map[schema.ColumnName]value.Value{col.Ref.Name: lit.Value}, true
		}
	}
	if col, ok := bop.Right.(expression.Column); ok {
		if lit, ok := bop.Left.(expression.Literal); ok {
			return map[schema.ColumnName]value.Value{col.Ref.Name: lit.Value}, true
		}
	}
	return nil, false
}
