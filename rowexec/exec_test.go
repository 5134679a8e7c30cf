package rowexec

import (
	"testing"

	"github.com/danieljharvey/miniql/catalog"
	"github.com/danieljharvey/miniql/expression"
	"github.com/danieljharvey/miniql/index"
	"github.com/danieljharvey/miniql/plan"
	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
	"github.com/stretchr/testify/require"
)

// testCatalogAndSource returns just the animal/species slice of
// catalog.Static(), so that ConstructIndexes never needs rows for the
// file-backed Album/Artist/Track tables the full catalog also declares.
func testCatalogAndSource() (catalog.Catalog, catalog.RowSource) {
	full := catalog.Static()
	cat := catalog.Catalog{Tables: map[schema.TableName]catalog.Table{
		"animal":  full.Tables["animal"],
		"species": full.Tables["species"],
	}}
	source := catalog.NewStaticRowSource(catalog.StaticAnimalSpeciesRows())
	return cat, source
}

func TestTableScanMaterialisesDeclaredColumnsInOrder(t *testing.T) {
	cat, source := testCatalogAndSource()

	step, err := Execute(plan.TableScan{Table: "animal"}, cat, source)
	require.NoError(t, err)
	require.Equal(t, 3, len(step.Rows))
	require.Equal(t, uint64(3), step.Cost.RowsProcessed)

	idx, ok := step.Schema.IndexOf(schema.NewColumn("animal_name"))
	require.True(t, ok)
	name, _ := step.Rows[0].Items[idx].AsString()
	require.Equal(t, "horse", name)
}

func TestIndexScanReturnsOnlyMatchingRows(t *testing.T) {
	cat, source := testCatalogAndSource()
	indexesByTable, err := cat.ConstructIndexes(source)
	require.NoError(t, err)

	var speciesIdx index.Declaration
	for _, ci := range indexesByTable["animal"] {
		if len(ci.Declaration.Columns) == 1 && ci.Declaration.Columns[0] == "species_id" {
			speciesIdx = ci.Declaration
		}
	}

	logical := plan.LogicalFilter{
		Child: plan.LogicalFrom{Table: "animal"},
		Predicate: expression.BinaryOp{
			Left:  expression.Column{Ref: schema.NewColumn("species_id")},
			Op:    expression.OpEq,
			Right: expression.Literal{Value: value.Int(1)},
		},
	}
	physical := plan.ToPhysical(logical, indexesByTable)
	scan, ok := physical.(plan.IndexScan)
	require.True(t, ok)
	require.Equal(t, speciesIdx, scan.Index)

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 2, len(step.Rows))

	nameIdx, _ := step.Schema.IndexOf(schema.NewColumn("animal_name"))
	names := map[string]bool{}
	for _, row := range step.Rows {
		n, _ := row.Items[nameIdx].AsString()
		names[n] = true
	}
	require.True(t, names["horse"])
	require.True(t, names["dog"])
}

func TestProjectWithAggregateProducesSingleRow(t *testing.T) {
	cat, source := testCatalogAndSource()

	physical := plan.Project{
		Child:  plan.TableScan{Table: "animal"},
		Fields: []expression.Expr{expression.FunctionCall{Name: "sum", Args: []expression.Expr{expression.Column{Ref: schema.NewColumn("species_id")}}}},
	}

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 1, len(step.Rows))
	total, _ := step.Rows[0].Items[0].AsInt()
	require.Equal(t, int64(4), total) // 1 + 1 + 2
}

func TestProjectColumnOnlyKeepsPerRowShape(t *testing.T) {
	cat, source := testCatalogAndSource()

	physical := plan.Project{
		Child: plan.TableScan{Table: "animal"},
		Fields: []expression.Expr{
			expression.Column{Ref: schema.NewColumn("animal_name")},
		},
	}

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 3, len(step.Rows))
	require.Equal(t, 1, step.Schema.Len())
}

func TestJoinInnerOnlyEmitsMatchingKeys(t *testing.T) {
	cat, source := testCatalogAndSource()

	physical := plan.Join{
		Type:  plan.Inner,
		Left:  plan.TableScan{Table: "animal"},
		Right: plan.TableScan{Table: "species"},
		On:    plan.JoinOn{Column: "species_id"},
	}

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 3, len(step.Rows)) // every animal has a matching species

	speciesNameIdx, ok := step.Schema.IndexOf(schema.NewColumn("species_name"))
	require.True(t, ok)
	for _, row := range step.Rows {
		require.False(t, row.Items[speciesNameIdx].IsNull())
	}
}

func TestJoinLeftOuterPadsUnmatchedWithNull(t *testing.T) {
	cat := catalog.Static()
	source := catalog.NewStaticRowSource(map[schema.TableName][]index.RawRecord{
		"animal": {
			{"animal_id": value.Int(1), "animal_name": value.String("horse"), "species_id": value.Int(99)},
		},
		"species": {
			{"species_id": value.Int(1), "species_name": value.String("mammal")},
		},
	})

	physical := plan.Join{
		Type:  plan.LeftOuter,
		Left:  plan.TableScan{Table: "animal"},
		Right: plan.TableScan{Table: "species"},
		On:    plan.JoinOn{Column: "species_id"},
	}

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 1, len(step.Rows))

	speciesNameIdx, ok := step.Schema.IndexOf(schema.NewColumn("species_name"))
	require.True(t, ok)
	require.True(t, step.Rows[0].Items[speciesNameIdx].IsNull())
}

func TestLimitTruncatesPreservingOrder(t *testing.T) {
	cat, source := testCatalogAndSource()

	physical := plan.Limit{Child: plan.TableScan{Table: "animal"}, N: 2}
	step, err := Execute(physical, cat, source)
	require.NoError(t, err)
	require.Equal(t, 2, len(step.Rows))
}

func TestOrderByDescSortsStably(t *testing.T) {
	cat, source := testCatalogAndSource()

	physical := plan.OrderBy{
		Child: plan.TableScan{Table: "animal"},
		Keys:  []plan.OrderKey{{Column: schema.NewColumn("species_id"), Direction: plan.Desc}},
	}

	step, err := Execute(physical, cat, source)
	require.NoError(t, err)

	idx, _ := step.Schema.IndexOf(schema.NewColumn("species_id"))
	first, _ := step.Rows[0].Items[idx].AsInt()
	last, _ := step.Rows[len(step.Rows)-1].Items[idx].AsInt()
	require.GreaterOrEqual(t, first, last)

	// horse and dog share species_id 1; a stable sort keeps horse first.
	nameIdx, _ := step.Schema.IndexOf(schema.NewColumn("animal_name"))
	names := make([]string, len(step.Rows))
	for i, row := range step.Rows {
		names[i], _ = row.Items[nameIdx].AsString()
	}
	require.Equal(t, []string{"snake", "horse", "dog"}, names)
}
