package miniql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danieljharvey/miniql/catalog"
	"github.com/danieljharvey/miniql/schema"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()

	// catalog.Static() also declares indexes over Album/Artist/Track, so
	// index construction needs a row source that knows about them too —
	// mirrors cmd/miniql's own MultiRowSource wiring.
	fileSource, err := catalog.NewFileRowSource("testdata", []schema.TableName{"Album", "Artist", "Track"})
	require.NoError(t, err)

	source := catalog.NewMultiRowSource(
		catalog.NewStaticRowSource(catalog.StaticAnimalSpeciesRows()),
		fileSource,
	)

	engine, err := New(Config{
		Catalog: catalog.Static(),
		Source:  source,
	})
	require.NoError(t, err)
	return engine
}

func TestEngineQuerySelectStar(t *testing.T) {
	engine := testEngine(t)

	step, err := engine.Query("SELECT * FROM animal")
	require.NoError(t, err)
	require.Equal(t, 3, len(step.Rows))
}

func TestEngineQueryIndexedEqualityWhere(t *testing.T) {
	engine := testEngine(t)

	step, err := engine.Query("SELECT animal_name FROM animal WHERE species_id = 1")
	require.NoError(t, err)
	require.Equal(t, 2, len(step.Rows))
}

func TestEngineQueryJoinOrderByLimit(t *testing.T) {
	engine := testEngine(t)

	step, err := engine.Query(
		"SELECT animal_name FROM animal JOIN species ON animal.species_id = species.species_id ORDER BY animal_name LIMIT 2")
	require.NoError(t, err)
	require.Equal(t, 2, len(step.Rows))
}

func TestEngineQueryAggregateProjection(t *testing.T) {
	engine := testEngine(t)

	step, err := engine.Query("SELECT sum(species_id) FROM animal")
	require.NoError(t, err)
	require.Equal(t, 1, len(step.Rows))
}

func TestEngineQueryRejectsUnsupportedClause(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Query("SELECT DISTINCT animal_name FROM animal")
	require.Error(t, err)
}

func TestEngineQueryUnknownTableIsFatal(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Query("SELECT * FROM nonexistent")
	require.Error(t, err)
}
