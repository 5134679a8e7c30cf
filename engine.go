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

// Package miniql wires the parser, planner and executor into a single
// Engine, the way _teacher_ref/engine.go.ref's sqle.Engine composes
// planbuilder -> analyzer -> rowexec behind one Query entrypoint. This
// engine is read-only and single-statement: it has no analyzer rewrite
// passes, no transactions and no session state, per spec.md §5's
// single-threaded, no-suspension execution model.
package miniql

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/danieljharvey/miniql/catalog"
	"github.com/danieljharvey/miniql/planbuilder"
	"github.com/danieljharvey/miniql/plan"
	"github.com/danieljharvey/miniql/rowexec"
	"github.com/danieljharvey/miniql/schema"
)

// Config configures a new Engine. A nil Logger falls back to logrus's
// standard logger at its default level.
type Config struct {
	Catalog catalog.Catalog
	Source  catalog.RowSource
	Logger  *logrus.Logger
}

// Engine holds the built indexes for one catalog/row-source pair and
// answers queries against them. Index construction (spec.md §4.1) happens
// once, in New, rather than per query.
type Engine struct {
	catalog       catalog.Catalog
	source        catalog.RowSource
	indexesByTable map[schema.TableName][]catalog.ConstructedIndex
	log           *logrus.Logger
}

// New constructs an Engine, eagerly building every declared index over
// cfg.Source.
func New(cfg Config) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	indexesByTable, err := cfg.Catalog.ConstructIndexes(cfg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "constructing indexes")
	}

	return &Engine{
		catalog:        cfg.Catalog,
		source:         cfg.Source,
		indexesByTable: indexesByTable,
		log:            log,
	}, nil
}

// Query parses sql, rewrites it into a physical plan and executes it,
// returning the materialised result per spec.md §4.7.
func (e *Engine) Query(sql string) (schema.QueryStep, error) {
	e.log.WithField("sql", sql).Debug("planbuilder: building logical plan")
	logical, err := planbuilder.Build(sql)
	if err != nil {
		return schema.QueryStep{}, errors.Wrap(err, "parsing query")
	}

	physical := plan.ToPhysical(logical, e.indexesByTable)

	step, err := rowexec.Execute(physical, e.catalog, e.source)
	if err != nil {
		return schema.QueryStep{}, errors.Wrap(err, "executing query")
	}

	e.log.WithFields(logrus.Fields{
		"rows":           len(step.Rows),
		"rows_processed": step.Cost.RowsProcessed,
	}).Debug("query complete")

	return step, nil
}
