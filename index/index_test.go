package index

import (
	"testing"

	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
	"github.com/stretchr/testify/require"
)

func rec(id int64) RawRecord {
	return RawRecord{"id": value.Int(id)}
}

func TestBuildAndLookupGroupsTies(t *testing.T) {
	decl := Declaration{Table: "test", Columns: []schema.ColumnName{"id"}}
	rows := []RawRecord{rec(1), rec(2), rec(3), rec(3)}

	constructed := Build(decl, rows)

	require.Equal(t, []int{0}, constructed.Lookup([]value.Value{value.Int(1)}))
	require.Equal(t, []int{1}, constructed.Lookup([]value.Value{value.Int(2)}))
	require.Equal(t, []int{2, 3}, constructed.Lookup([]value.Value{value.Int(3)}))
	require.Nil(t, constructed.Lookup([]value.Value{value.Int(99)}))
}

func TestMissingColumnTreatedAsNull(t *testing.T) {
	decl := Declaration{Table: "test", Columns: []schema.ColumnName{"missing"}}
	rows := []RawRecord{{"id": value.Int(1)}}

	constructed := Build(decl, rows)
	require.Equal(t, []int{0}, constructed.Lookup([]value.Value{value.Null()}))
}

func TestCoversAndProbeKey(t *testing.T) {
	decl := Declaration{Table: "animal", Columns: []schema.ColumnName{"species_id"}}
	bindings := map[schema.ColumnName]value.Value{"species_id": value.Int(1)}

	require.True(t, decl.Covers(bindings))
	require.Equal(t, []value.Value{value.Int(1)}, decl.ProbeKey(bindings))

	require.False(t, decl.Covers(map[schema.ColumnName]value.Value{"other": value.Int(1)}))
}
