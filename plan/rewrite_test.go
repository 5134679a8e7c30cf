package plan

import (
	"testing"

	"github.com/danieljharvey/miniql/catalog"
	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
	"github.com/stretchr/testify/require"
)

// Grounded in
// _examples/original_source/crates/core/src/query/to_physical_plan.rs's
// test_filter_to_index_scan.
func TestFilterOverFromBecomesIndexScan(t *testing.T) {
	decl := index.Declaration{Table: "Artist", Columns: []schema.ColumnName{"ArtistId"}}
	rows := []index.RawRecord{
		{"ArtistId": value.Int(1), "Name": value.String("AC/DC")},
		{"ArtistId": value.Int(2), "Name": value.String("Accept")},
	}
	built := index.Build(decl, rows)

	indexesByTable := map[schema.TableName][]catalog.ConstructedIndex{
		"Artist": {{Declaration: decl, Index: built}},
	}

	logical := LogicalFilter{
		Child: LogicalFrom{Table: "Artist"},
		Predicate: expression.BinaryOp{
			Left:  expression.Column{Ref: schema.NewColumn("ArtistId")},
			Op:    expression.OpEq,
			Right: expression.Literal{Value: value.Int(1)},
		},
	}

	physical := ToPhysical(logical, indexesByTable)

	scan, ok := physical.(IndexScan)
	require.True(t, ok, "expected an IndexScan, got %T", physical)
	require.Equal(t, schema.TableName("Artist"), scan.Table)
	require.Equal(t, decl, scan.Index)
	require.Equal(t, [][]value.Value{{value.Int(1)}}, scan.ProbeKeys)
}

func TestNonEqualityPredicateKeepsFilter(t *testing.T) {
	indexesByTable := map[schema.TableName][]catalog.ConstructedIndex{}

	logical := LogicalFilter{
		Child: LogicalFrom{Table: "species"},
		Predicate: expression.BinaryOp{
			Left:  expression.Column{Ref: schema.NewColumn("species_id")},
			Op:    expression.OpGte,
			Right: expression.Literal{Value: value.Int(3)},
		},
	}

	physical := ToPhysical(logical, indexesByTable)

	filter, ok := physical.(Filter)
	require.True(t, ok, "expected a Filter, got %T", physical)
	_, isScan := filter.Child.(TableScan)
	require.True(t, isScan)
}

func TestUncoveredIndexKeepsFilter(t *testing.T) {
	// animal has a species_id index but the predicate binds animal_name,
	// which no index covers.
	decl := index.Declaration{Table: "animal", Columns: []schema.ColumnName{"species_id"}}
	indexesByTable := map[schema.TableName][]catalog.ConstructedIndex{
		"animal": {{Declaration: decl, Index: index.Build(decl, nil)}},
	}

	logical := LogicalFilter{
		Child: LogicalFrom{Table: "animal"},
		Predicate: expression.BinaryOp{
			Left:  expression.Column{Ref: schema.NewColumn("animal_name")},
			Op:    expression.OpEq,
			Right: expression.Literal{Value: value.String("horse")},
		},
	}

	physical := ToPhysical(logical, indexesByTable)
	_, ok := physical.(Filter)
	require.True(t, ok)
}

func TestJoinLimitProjectOrderByPreserveShape(t *testing.T) {
	logical := LogicalLimit{
		N: 4,
		Child: LogicalOrderBy{
			Keys: []OrderKey{{Column: schema.NewColumn("ArtistId"), Direction: Asc}},
			Child: LogicalProject{
				Fields: []expression.Expr{expression.Column{Ref: schema.NewColumn("ArtistId")}},
				Child: LogicalJoin{
					Type:  Inner,
					Left:  LogicalFrom{Table: "Album"},
					Right: LogicalFrom{Table: "Artist"},
					On:    JoinOn{Column: "ArtistId"},
				},
			},
		},
	}

	physical := ToPhysical(logical, nil)

	limit, ok := physical.(Limit)
	require.True(t, ok)
	require.Equal(t, uint64(4), limit.N)

	orderBy, ok := limit.Child.(OrderBy)
	require.True(t, ok)

	project, ok := orderBy.Child.(Project)
	require.True(t, ok)

	join, ok := project.Child.(Join)
	require.True(t, ok)
	_, leftIsScan := join.Left.(TableScan)
	_, rightIsScan := join.Right.(TableScan)
	require.True(t, leftIsScan)
	require.True(t, rightIsScan)
}
