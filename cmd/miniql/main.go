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

// Command miniql is the CLI entrypoint spec.md §6 describes: one
// invocation, one SQL string, one JSON object per output line. Grounded
// in the cobra-based command wiring github.com/spf13/cobra v1.10.2 (a
// teacher dependency the original example repos' CLIs all build on).
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danieljharvey/miniql/catalog"
	miniql "github.com/danieljharvey/miniql"
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/schema"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var sql string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "miniql",
		Short: "Run a single read-only SQL query against the built-in catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sql == "" {
				return fmt.Errorf("a query is required: pass -s/--sql")
			}
			return run(sql, verbose)
		},
	}

	cmd.Flags().StringVarP(&sql, "sql", "s", "", "the SQL query to run")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log planning/execution detail to stderr")

	return cmd
}

func run(sql string, verbose bool) error {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	source := catalog.NewMultiRowSource(
		catalog.NewStaticRowSource(catalog.StaticAnimalSpeciesRows()),
		mustFileRowSource(log),
	)

	engine, err := miniql.New(miniql.Config{
		Catalog: catalog.Static(),
		Source:  source,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	step, err := engine.Query(sql)
	if err != nil {
		return err
	}

	rows, err := step.ToJSONRows()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, row := range rows {
		if _, err := w.Write(row); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// mustFileRowSource loads the Album/Artist/Track fixtures shipped under
// testdata/ (relative to the working directory), falling back to empty
// Album/Artist/Track tables if they can't be loaded (the built-in
// animal/species tables still work without them).
func mustFileRowSource(log *logrus.Logger) catalog.RowSource {
	tables := []schema.TableName{"Album", "Artist", "Track"}
	source, err := catalog.NewFileRowSource("testdata", tables)
	if err != nil {
		log.WithError(err).Debug("no file-backed row source available")
		empty := make(map[schema.TableName][]index.RawRecord, len(tables))
		for _, name := range tables {
			empty[name] = nil
		}
		return catalog.NewStaticRowSource(empty)
	}
	return source
}
