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

// Package expression implements the Expr algebra and its evaluator,
// shared between Filter predicates and Project fields (spec.md §3/§4.4).
// Grounded in _examples/original_source/crates/core/src/types.rs's Expr/Op
// and crates/core/src/query/{filter,project}.rs's evaluate_expr, expanded
// from the prototype's equality-only ColumnComparison into the full
// Column/Literal/BinaryOp/Nested/FunctionCall sum type spec.md defines.
package expression

import (
	"fmt"

	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// Op is a binary operator.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpGte
	OpLt
	OpLte
	OpAdd
	OpSub
)

func (op Op) String() string {
	switch op {
	case OpEq:
		return "="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	default:
		return "?"
	}
}

// IsComparison reports whether op compares two values rather than doing
// arithmetic.
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// AggregateFunctions is the single supported aggregate function set
// (spec.md §3/§6): just sum.
var AggregateFunctions = map[string]bool{
	"sum": true,
}

// Expr is the sum type every predicate and projected field is built from.
type Expr interface {
	isExpr()
}

// Column references a (possibly aliased) column.
type Column struct {
	Ref schema.Column
}

func (Column) isExpr() {}

// Literal is an embedded constant value.
type Literal struct {
	Value value.Value
}

func (Literal) isExpr() {}

// BinaryOp applies op to the evaluated Left and Right.
type BinaryOp struct {
	Left  Expr
	Op    Op
	Right Expr
}

func (BinaryOp) isExpr() {}

// Nested is a parenthesised sub-expression; it evaluates identically to
// Inner, but preserves its own display shape for synthesised schema
// labels.
type Nested struct {
	Inner Expr
}

func (Nested) isExpr() {}

// FunctionCall invokes a named function (currently only the aggregate
// "sum") over its arguments.
type FunctionCall struct {
	Name string
	Args []Expr
}

func (FunctionCall) isExpr() {}

// IsAggregate reports whether e contains an aggregate FunctionCall,
// transitively through BinaryOp/Nested/function arguments — spec.md §4.4's
// aggregate-detection rule.
func IsAggregate(e Expr) bool {
	switch t := e.(type) {
	case Column, Literal:
		return false
	case BinaryOp:
		return IsAggregate(t.Left) || IsAggregate(t.Right)
	case Nested:
		return IsAggregate(t.Inner)
	case FunctionCall:
		if AggregateFunctions[t.Name] {
			return true
		}
		for _, arg := range t.Args {
			if IsAggregate(arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Display renders a deterministic label for a projected field with no
// source column, per spec.md §4.6's Project schema rule: literal -> its
// printed form, binary op -> the operator name, function call -> the
// function name, nested -> recurse.
func Display(e Expr) string {
	switch t := e.(type) {
	case Column:
		return t.Ref.String()
	case Literal:
		return t.Value.String()
	case BinaryOp:
		return t.Op.String()
	case Nested:
		return Display(t.Inner)
	case FunctionCall:
		return t.Name
	default:
		return fmt.Sprintf("%v", e)
	}
}
