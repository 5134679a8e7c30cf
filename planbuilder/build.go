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

// Package planbuilder adapts a parsed SQL statement into a plan.Logical
// tree, the thin "parse -> logical plan" layer spec.md §1 calls for.
// Grounded in
// _examples/original_source/crates/core/src/parser.rs's from_statement/
// from_query/from_select chain of exhaustive field checks, rewritten
// against github.com/dolthub/vitess/go/vt/sqlparser's AST instead of
// sqlparser-rs's — the parser dependency _teacher_ref/parse_test.go.ref
// confirms the teacher itself depends on. Every clause outside spec.md
// §4.3's surface is rejected with a specific mqerrors ParseError kind
// rather than silently ignored.
package planbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/vitess/go/vt/sqlparser"

	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/mqerrors"
	"github.com/danieljharvey/miniql/plan"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// Build parses sql and constructs the logical plan it describes, per
// spec.md §4.3's composition order: From, folded Joins, optional Filter,
// optional Project, optional OrderBy, optional Limit (applied last).
func Build(sql string) (plan.Logical, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return nil, mqerrors.ErrNoStatements.New()
	}
	// A leading WITH clause is rejected by a prefix check on the raw text,
	// before the statement is handed to the parser.
	if strings.HasPrefix(strings.ToUpper(trimmed), "WITH ") || strings.HasPrefix(strings.ToUpper(trimmed), "WITH(") {
		return nil, mqerrors.ErrWithNotSupported.New()
	}

	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, mqerrors.ErrSyntax.New(err.Error())
	}

	switch t := stmt.(type) {
	case *sqlparser.Select:
		return fromSelect(t)
	case *sqlparser.Union:
		return nil, mqerrors.ErrUnionNotSupported.New()
	default:
		return nil, mqerrors.ErrOnlySelectSupported.New(fmt.Sprintf("%T", stmt))
	}
}

func fromSelect(sel *sqlparser.Select) (plan.Logical, error) {
	if sel.Into != nil {
		return nil, mqerrors.ErrIntoNotSupported.New()
	}
	if sel.Distinct {
		return nil, mqerrors.ErrDistinctNotSupported.New()
	}
	if len(sel.GroupBy) > 0 {
		return nil, mqerrors.ErrGroupByNotSupported.New()
	}
	if sel.Having != nil {
		return nil, mqerrors.ErrHavingNotSupported.New()
	}
	if sel.Lock != "" {
		return nil, mqerrors.ErrLocksNotSupported.New()
	}

	logical, err := fromFrom(sel.From)
	if err != nil {
		return nil, err
	}

	if sel.Where != nil {
		predicate, err := fromExpr(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		logical = plan.LogicalFilter{Child: logical, Predicate: predicate}
	}

	fields, isStar, err := fromSelectExprs(sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	if !isStar {
		logical = plan.LogicalProject{Child: logical, Fields: fields}
	}

	if len(sel.OrderBy) > 0 {
		keys, err := fromOrderBy(sel.OrderBy)
		if err != nil {
			return nil, err
		}
		logical = plan.LogicalOrderBy{Child: logical, Keys: keys}
	}

	if sel.Limit != nil {
		n, err := fromLimit(sel.Limit)
		if err != nil {
			return nil, err
		}
		logical = plan.LogicalLimit{Child: logical, N: n}
	}

	return logical, nil
}

// fromFrom builds the leftmost From and folds any JOINs attached to it,
// per spec.md §4.3's composition order. A comma-separated FROM list (the
// legacy implicit cross join) is outside the supported surface.
func fromFrom(exprs sqlparser.TableExprs) (plan.Logical, error) {
	if len(exprs) == 0 {
		return nil, mqerrors.ErrEmptyFromNotSupported.New()
	}
	if len(exprs) > 1 {
		return nil, mqerrors.ErrTableOnlyInFrom.New()
	}
	return fromTableExpr(exprs[0])
}

func fromTableExpr(expr sqlparser.TableExpr) (plan.Logical, error) {
	switch t := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		tableName, ok := t.Expr.(sqlparser.TableName)
		if !ok {
			return nil, mqerrors.ErrTableOnlyInFrom.New()
		}
		name := tableName.Name.String()
		if name == "" {
			return nil, mqerrors.ErrEmptyObjectName.New()
		}
		return plan.LogicalFrom{Table: schema.TableName(name), Alias: t.As.String()}, nil

	case *sqlparser.JoinTableExpr:
		left, err := fromTableExpr(t.LeftExpr)
		if err != nil {
			return nil, err
		}
		rightLogical, err := fromTableExpr(t.RightExpr)
		if err != nil {
			return nil, err
		}
		rightFrom, ok := rightLogical.(plan.LogicalFrom)
		if !ok {
			return nil, mqerrors.ErrTableOnlyInFrom.New()
		}
		joinType, err := joinTypeFromStr(t.Join)
		if err != nil {
			return nil, err
		}
		on, err := joinOnColumn(t.Condition)
		if err != nil {
			return nil, err
		}
		return plan.LogicalJoin{Type: joinType, Left: left, Right: rightFrom, On: on}, nil

	default:
		return nil, mqerrors.ErrTableOnlyInFrom.New()
	}
}

func joinTypeFromStr(join string) (plan.JoinType, error) {
	switch join {
	case sqlparser.JoinStr, sqlparser.StraightJoinStr:
		return plan.Inner, nil
	case sqlparser.LeftJoinStr:
		return plan.LeftOuter, nil
	default:
		return 0, mqerrors.ErrUnsupportedJoinType.New(join)
	}
}

// joinOnColumn resolves the join condition to a single shared column name
// (plan.JoinOn's symmetric, single-identifier model), accepting
// `ON col`, `USING (col)`, or `ON left.col = right.col` where both sides
// name the same column.
func joinOnColumn(cond sqlparser.JoinCondition) (plan.JoinOn, error) {
	if len(cond.Using) == 1 {
		return plan.JoinOn{Column: schema.ColumnName(cond.Using[0].String())}, nil
	}
	if cond.On == nil {
		return plan.JoinOn{}, mqerrors.ErrJoinOnMustBeIdent.New("missing ON/USING clause")
	}
	if col, ok := cond.On.(*sqlparser.ColName); ok {
		return plan.JoinOn{Column: schema.ColumnName(col.Name.String())}, nil
	}
	cmp, ok := cond.On.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return plan.JoinOn{}, mqerrors.ErrJoinOnMustBeIdent.New(fmt.Sprintf("%T", cond.On))
	}
	leftCol, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return plan.JoinOn{}, mqerrors.ErrJoinOnMustBeIdent.New(fmt.Sprintf("%T", cmp.Left))
	}
	rightCol, ok := cmp.Right.(*sqlparser.ColName)
	if !ok {
		return plan.JoinOn{}, mqerrors.ErrJoinOnMustBeIdent.New(fmt.Sprintf("%T", cmp.Right))
	}
	if !strings.EqualFold(leftCol.Name.String(), rightCol.Name.String()) {
		return plan.JoinOn{}, mqerrors.ErrJoinOnMustBeIdent.New("left and right column names differ")
	}
	return plan.JoinOn{Column: schema.ColumnName(leftCol.Name.String())}, nil
}

func columnRefFromColName(c *sqlparser.ColName) schema.Column {
	name := c.Name.String()
	if alias := c.Qualifier.Name.String(); alias != "" {
		return schema.NewColumn(name).WithAlias(alias)
	}
	return schema.NewColumn(name)
}

// fromSelectExprs reports (fields, isStar, err): a bare `SELECT *` carries
// no explicit field list, and spec.md §4.3 only wraps a Project when one
// is present.
func fromSelectExprs(exprs sqlparser.SelectExprs) ([]expression.Expr, bool, error) {
	if len(exprs) == 1 {
		if _, ok := exprs[0].(*sqlparser.StarExpr); ok {
			return nil, true, nil
		}
	}
	fields := make([]expression.Expr, 0, len(exprs))
	for _, se := range exprs {
		aliased, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, false, mqerrors.ErrUnknownExprPart.New(fmt.Sprintf("%T", se))
		}
		f, err := fromExpr(aliased.Expr)
		if err != nil {
			return nil, false, err
		}
		fields = append(fields, f)
	}
	return fields, false, nil
}

func fromExpr(e sqlparser.Expr) (expression.Expr, error) {
	switch t := e.(type) {
	case *sqlparser.ColName:
		return expression.Column{Ref: columnRefFromColName(t)}, nil

	case *sqlparser.SQLVal:
		v, err := literalFromSQLVal(t)
		if err != nil {
			return nil, err
		}
		return expression.Literal{Value: v}, nil

	case *sqlparser.NullVal:
		return expression.Literal{Value: value.Null()}, nil

	case *sqlparser.ParenExpr:
		inner, err := fromExpr(t.Expr)
		if err != nil {
			return nil, err
		}
		return expression.Nested{Inner: inner}, nil

	case *sqlparser.ComparisonExpr:
		op, err := comparisonOp(t.Operator)
		if err != nil {
			return nil, err
		}
		left, err := fromExpr(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromExpr(t.Right)
		if err != nil {
			return nil, err
		}
		return expression.BinaryOp{Left: left, Op: op, Right: right}, nil

	case *sqlparser.BinaryExpr:
		op, err := arithmeticOp(t.Operator)
		if err != nil {
			return nil, err
		}
		left, err := fromExpr(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromExpr(t.Right)
		if err != nil {
			return nil, err
		}
		return expression.BinaryOp{Left: left, Op: op, Right: right}, nil

	case *sqlparser.FuncExpr:
		args := make([]expression.Expr, 0, len(t.Exprs))
		for _, se := range t.Exprs {
			aliased, ok := se.(*sqlparser.AliasedExpr)
			if !ok {
				return nil, mqerrors.ErrUnknownExprPart.New(fmt.Sprintf("%T", se))
			}
			arg, err := fromExpr(aliased.Expr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return expression.FunctionCall{Name: t.Name.Lowered(), Args: args}, nil

	default:
		return nil, mqerrors.ErrUnknownExprPart.New(fmt.Sprintf("%T", e))
	}
}

func comparisonOp(op string) (expression.Op, error) {
	switch op {
	case sqlparser.EqualStr:
		return expression.OpEq, nil
	case sqlparser.GreaterThanStr:
		return expression.OpGt, nil
	case sqlparser.GreaterEqualStr:
		return expression.OpGte, nil
	case sqlparser.LessThanStr:
		return expression.OpLt, nil
	case sqlparser.LessEqualStr:
		return expression.OpLte, nil
	default:
		return 0, mqerrors.ErrUnknownBinaryOperator.New(op)
	}
}

func arithmeticOp(op string) (expression.Op, error) {
	switch op {
	case sqlparser.PlusStr:
		return expression.OpAdd, nil
	case sqlparser.MinusStr:
		return expression.OpSub, nil
	default:
		return 0, mqerrors.ErrUnknownBinaryOperator.New(op)
	}
}

func literalFromSQLVal(v *sqlparser.SQLVal) (value.Value, error) {
	switch v.Type {
	case sqlparser.IntVal:
		i, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return value.Value{}, mqerrors.ErrMalformedLiteral.New(string(v.Val), err.Error())
		}
		return value.Int(i), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return value.Value{}, mqerrors.ErrMalformedLiteral.New(string(v.Val), err.Error())
		}
		return value.Float(f), nil
	case sqlparser.StrVal:
		return value.String(string(v.Val)), nil
	default:
		return value.Value{}, mqerrors.ErrMalformedLiteral.New(string(v.Val), "unsupported literal type")
	}
}

func fromOrderBy(ob sqlparser.OrderBy) ([]plan.OrderKey, error) {
	keys := make([]plan.OrderKey, 0, len(ob))
	for _, o := range ob {
		col, ok := o.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, mqerrors.ErrOrderByNotSupported.New(fmt.Sprintf("non-column order key: %T", o.Expr))
		}
		dir := plan.Asc
		if o.Direction == sqlparser.DescScr {
			dir = plan.Desc
		}
		keys = append(keys, plan.OrderKey{Column: columnRefFromColName(col), Direction: dir})
	}
	return keys, nil
}

func fromLimit(l *sqlparser.Limit) (uint64, error) {
	if l.Offset != nil {
		return 0, mqerrors.ErrOffsetNotSupported.New()
	}
	sv, ok := l.Rowcount.(*sqlparser.SQLVal)
	if !ok || sv.Type != sqlparser.IntVal {
		return 0, mqerrors.ErrLimitClauseNotSupported.New("LIMIT must be a literal integer")
	}
	n, err := strconv.ParseUint(string(sv.Val), 10, 64)
	if err != nil {
		return 0, mqerrors.ErrLimitClauseNotSupported.New(err.Error())
	}
	return n, nil
}
