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
	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
)

// Physical is the operator algebra the executor (package rowexec)
// interprets. Non-leaf shapes mirror Logical exactly; the only new leaves
// are TableScan (replacing From) and IndexScan (replacing a
// Filter-over-From the rewrite recognised, see rewrite.go).
type Physical interface {
	isPhysical()
}

// TableScan reads every row of Table in row-source order.
type TableScan struct {
	Table schema.TableName
	Alias string
}

func (TableScan) isPhysical() {}

// IndexScan probes Index with ProbeKeys, each a composite value matching
// Index.Columns in order, emitting matching rows in bucket order.
type IndexScan struct {
	Table      schema.TableName
	Alias      string
	Index      index.Declaration
	ProbeKeys  [][]value.Value
	Built      index.Constructed
}

func (IndexScan) isPhysical() {}

// Filter mirrors LogicalFilter.
type Filter struct {
	Child     Physical
	Predicate expression.Expr
}

func (Filter) isPhysical() {}

// Project mirrors LogicalProject.
type Project struct {
	Child  Physical
	Fields []expression.Expr
}

func (Project) isPhysical() {}

// Join mirrors LogicalJoin.
type Join struct {
	Type  JoinType
	Left  Physical
	Right Physical
	On    JoinOn
}

func (Join) isPhysical() {}

// Limit mirrors LogicalLimit.
type Limit struct {
	Child Physical
	N     uint64
}

func (Limit) isPhysical() {}

// OrderBy mirrors LogicalOrderBy.
type OrderBy struct {
	Child Physical
	Keys  []OrderKey
}

func (OrderBy) isPhysical() {}
