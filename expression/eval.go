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

package expression

import (
	"github.com/spf13/cast"

	"github.com/danieljharvey/miniql/mqerrors"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// AllRows is the optional aggregate context evaluate needs to run a
// FunctionCall over every row of the child operator. Per spec.md §9, this
// is expressed as an explicit optional argument rather than two separate
// evaluator functions, so that both modes necessarily agree on the
// non-aggregate cases.
type AllRows []schema.Row

// Evaluate computes e against row (and, for aggregate expressions,
// allRows), resolving column references against sch. Mirrors
// _examples/original_source/crates/core/src/query/filter.rs +
// project.rs's evaluate_expr, generalised to the full Expr sum type.
func Evaluate(row schema.Row, allRows AllRows, sch schema.Schema, e Expr) (value.Value, error) {
	switch t := e.(type) {
	case Literal:
		return t.Value, nil

	case Column:
		v, ok := row.Get(sch, t.Ref)
		if !ok {
			return value.Value{}, mqerrors.ErrColumnNotFoundInSchema.New(t.Ref.String())
		}
		return v, nil

	case Nested:
		return Evaluate(row, allRows, sch, t.Inner)

	case BinaryOp:
		return evalBinaryOp(row, allRows, sch, t)

	case FunctionCall:
		return evalFunctionCall(row, allRows, sch, t)

	default:
		return value.Value{}, mqerrors.ErrUnknownExprPart.New("unrecognised expression")
	}
}

func evalBinaryOp(row schema.Row, allRows AllRows, sch schema.Schema, t BinaryOp) (value.Value, error) {
	left, err := Evaluate(row, allRows, sch, t.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Evaluate(row, allRows, sch, t.Right)
	if err != nil {
		return value.Value{}, err
	}

	if t.Op == OpEq {
		return value.Bool(left.Equal(right)), nil
	}

	if t.Op.IsComparison() {
		li, err := expectInt(left)
		if err != nil {
			return value.Value{}, err
		}
		ri, err := expectInt(right)
		if err != nil {
			return value.Value{}, err
		}
		var result bool
		switch t.Op {
		case OpGt:
			result = li > ri
		case OpGte:
			result = li >= ri
		case OpLt:
			result = li < ri
		case OpLte:
			result = li <= ri
		}
		return value.Bool(result), nil
	}

	// arithmetic: +, -
	li, err := expectInt(left)
	if err != nil {
		return value.Value{}, err
	}
	ri, err := expectInt(right)
	if err != nil {
		return value.Value{}, err
	}
	switch t.Op {
	case OpAdd:
		return value.Int(li + ri), nil
	case OpSub:
		return value.Int(li - ri), nil
	default:
		return value.Value{}, mqerrors.ErrUnknownBinaryOperator.New(t.Op.String())
	}
}

func evalFunctionCall(row schema.Row, allRows AllRows, sch schema.Schema, t FunctionCall) (value.Value, error) {
	if !AggregateFunctions[t.Name] {
		return value.Value{}, mqerrors.ErrUnknownFunction.New(t.Name)
	}
	if allRows == nil {
		return value.Value{}, mqerrors.ErrCannotUseAggregateFunctionInFilter.New()
	}
	if len(t.Args) != 1 {
		return value.Value{}, mqerrors.ErrArgumentNotFound.New(t.Name)
	}

	var total int64
	for _, r := range allRows {
		v, err := Evaluate(r, nil, sch, t.Args[0])
		if err != nil {
			return value.Value{}, err
		}
		i, err := expectInt(v)
		if err != nil {
			return value.Value{}, err
		}
		total += i
	}
	return value.Int(total), nil
}

// expectInt coerces v to an int64 per spec.md §4.4's "coerce both to
// i64" rule for ordering/arithmetic operators, using spf13/cast for the
// float/string conversions rather than hand-rolled parsing. A bare int
// value never goes through cast, since no conversion is needed.
func expectInt(v value.Value) (int64, error) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return i, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		i, err := cast.ToInt64E(f)
		if err != nil {
			return 0, mqerrors.ErrExpectedInt.New(v.Kind().String())
		}
		return i, nil
	case value.KindString:
		s, _ := v.AsString()
		i, err := cast.ToInt64E(s)
		if err != nil {
			return 0, mqerrors.ErrExpectedInt.New(v.Kind().String())
		}
		return i, nil
	default:
		return 0, mqerrors.ErrExpectedInt.New(v.Kind().String())
	}
}

// ApplyPredicate evaluates e with no aggregate context and requires a
// boolean result, per spec.md §4.4.
func ApplyPredicate(row schema.Row, sch schema.Schema, e Expr) (bool, error) {
	v, err := Evaluate(row, nil, sch, e)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mqerrors.ErrExpectedBooleanType.New(v.Kind().String())
	}
	return b, nil
}
