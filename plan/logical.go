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

// Package plan defines the logical and physical plan algebras (spec.md
// §3/§4.5) and the rewrite between them. Grounded in
// _examples/original_source/crates/core/src/types.rs's LogicalPlan/
// PhysicalPlan enums and crates/core/src/query/to_physical_plan.rs's
// rewrite, modelled in Go as a tagged interface tree rather than the
// Rust enum, per spec.md §9 ("naturally modelled as tagged sum types with
// owned children... avoid cyclic references").
package plan

import (
	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/schema"
)

// JoinType distinguishes inner from left-outer joins.
type JoinType int

const (
	Inner JoinType = iota
	LeftOuter
)

func (t JoinType) String() string {
	if t == LeftOuter {
		return "LEFT OUTER"
	}
	return "INNER"
}

// JoinOn is an equi-join on a single identifier, resolved symmetrically
// against both sides, per spec.md §4.3.
type JoinOn struct {
	Column schema.ColumnName
}

// Direction is an ORDER BY sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// OrderKey is one ORDER BY key: a column and its direction.
type OrderKey struct {
	Column    schema.Column
	Direction Direction
}

// Logical is the operator algebra the parser adapter (package planbuilder)
// emits.
type Logical interface {
	isLogical()
}

// LogicalFrom names a table, with an optional alias.
type LogicalFrom struct {
	Table schema.TableName
	Alias string
}

func (LogicalFrom) isLogical() {}

// LogicalFilter keeps rows from Child matching Predicate.
type LogicalFilter struct {
	Child     Logical
	Predicate expression.Expr
}

func (LogicalFilter) isLogical() {}

// LogicalProject evaluates Fields over Child's rows.
type LogicalProject struct {
	Child  Logical
	Fields []expression.Expr
}

func (LogicalProject) isLogical() {}

// LogicalJoin combines Left and Right by On.
type LogicalJoin struct {
	Type  JoinType
	Left  Logical
	Right Logical
	On    JoinOn
}

func (LogicalJoin) isLogical() {}

// LogicalLimit truncates Child to the first N rows.
type LogicalLimit struct {
	Child Logical
	N     uint64
}

func (LogicalLimit) isLogical() {}

// LogicalOrderBy sorts Child's rows by Keys, in order.
type LogicalOrderBy struct {
	Child Logical
	Keys  []OrderKey
}

func (LogicalOrderBy) isLogical() {}
