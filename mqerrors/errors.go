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

// Package mqerrors declares every error kind miniql can return, following
// the teacher's pattern of package-level *errors.Kind values constructed
// with gopkg.in/src-d/go-errors.v1 and instantiated with .New(...) at the
// point of failure (see _teacher_ref/errors_test.go.ref for the shape this
// is grounded on: sql.ErrTableNotFound.New(...), sql.ErrInvalidType.New(...)).
package mqerrors

import errors "gopkg.in/src-d/go-errors.v1"

// Parse errors (spec.md §7 ParseError) — the adapter in package planbuilder
// rejects every SQL shape outside spec.md §1/§4.3's surface.
var (
	ErrNoStatements           = errors.NewKind("no SQL statements found in input")
	ErrOnlyQuerySupported     = errors.NewKind("only SELECT statements are supported")
	ErrOnlySelectSupported    = errors.NewKind("only a plain SELECT is supported, found %s")
	ErrWithNotSupported       = errors.NewKind("WITH is not supported")
	ErrOrderByNotSupported    = errors.NewKind("this ORDER BY form is not supported")
	ErrLimitClauseNotSupported = errors.NewKind("this LIMIT form is not supported")
	ErrFetchNotSupported      = errors.NewKind("FETCH is not supported")
	ErrLocksNotSupported      = errors.NewKind("locking clauses are not supported")
	ErrIntoNotSupported       = errors.NewKind("SELECT INTO is not supported")
	ErrDistinctNotSupported   = errors.NewKind("DISTINCT is not supported")
	ErrGroupByNotSupported    = errors.NewKind("GROUP BY is not supported")
	ErrHavingNotSupported     = errors.NewKind("HAVING is not supported")
	ErrSortByNotSupported     = errors.NewKind("SORT BY is not supported")
	ErrForNotSupported        = errors.NewKind("FOR clauses are not supported")
	ErrSettingsNotSupported   = errors.NewKind("SETTINGS is not supported")
	ErrFormatNotSupported     = errors.NewKind("FORMAT is not supported")
	ErrPipeNotSupported       = errors.NewKind("pipe operators are not supported")
	ErrLateralNotSupported    = errors.NewKind("lateral views are not supported")
	ErrQualifyNotSupported    = errors.NewKind("QUALIFY is not supported")
	ErrWindowNotSupported     = errors.NewKind("window functions are not supported")
	ErrOffsetNotSupported     = errors.NewKind("OFFSET is not supported")
	ErrUnionNotSupported      = errors.NewKind("UNION is not supported")
	ErrEmptyFromNotSupported  = errors.NewKind("a FROM clause is required")
	ErrTableOnlyInFrom        = errors.NewKind("only a plain table name is supported in FROM/JOIN")
	ErrJoinOnMustBeIdent      = errors.NewKind("JOIN ... ON must be a single column identifier, got %s")
	ErrUnsupportedJoinType    = errors.NewKind("unsupported join type %s")
	ErrEmptyObjectName        = errors.NewKind("empty table name")
	ErrExpectedIdent          = errors.NewKind("expected a column identifier, got %s")
	ErrExpectedValue          = errors.NewKind("expected a literal value, got %s")
	ErrUnknownExprPart        = errors.NewKind("unsupported expression: %s")
	ErrUnknownBinaryOperator  = errors.NewKind("unsupported binary operator %s")
	ErrUnknownFunction        = errors.NewKind("unsupported function %s")
	ErrMalformedLiteral       = errors.NewKind("malformed literal %q: %s")
	ErrSyntax                 = errors.NewKind("SQL syntax error: %s")
)

// Query (runtime) errors — spec.md §7 QueryError.
var (
	ErrColumnNotFoundInSchema           = errors.NewKind("column not found in schema: %s")
	ErrIndexNotFoundInSchema            = errors.NewKind("schema index out of range: %d")
	ErrExpectedInt                      = errors.NewKind("expected an integer value, got %s")
	ErrExpectedBooleanType              = errors.NewKind("expected a boolean value, got %s")
	ErrArgumentNotFound                 = errors.NewKind("function %s expects an argument")
	ErrTypeMismatch                     = errors.NewKind("type mismatch: expected %s")
	ErrCannotUseAggregateFunctionInFilter = errors.NewKind("aggregate functions cannot be used in a filter")
)

// Configuration errors — fatal, distinct from QueryError per spec.md §7:
// an unknown table, or a raw record missing a declared column.
var (
	ErrUnknownTable            = errors.NewKind("unknown table %q")
	ErrMissingDeclaredColumn   = errors.NewKind("row for table %q is missing declared column %q")
)
