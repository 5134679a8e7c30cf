package schema

import (
	"testing"

	"github.com/danieljharvey/miniql/value"
	"github.com/stretchr/testify/require"
)

func TestColumnDisplay(t *testing.T) {
	require.Equal(t, "animal_name", NewColumn("animal_name").String())
	require.Equal(t, "a.animal_name", NewColumn("animal_name").WithAlias("a").String())
}

func TestSchemaIndexOfFirstMatch(t *testing.T) {
	s := Schema{Columns: []SchemaColumn{
		FromColumn(NewColumn("id")),
		FromColumn(NewColumn("id")),
	}}
	idx, ok := s.IndexOf(NewColumn("id"))
	require.True(t, ok)
	require.Equal(t, 0, idx)
}

func TestRowConcatAndClone(t *testing.T) {
	left := Row{Items: []value.Value{value.Int(1)}}
	right := Row{Items: []value.Value{value.String("a")}}

	combined := left.Concat(right)
	require.Equal(t, []value.Value{value.Int(1), value.String("a")}, combined.Items)

	clone := left.Clone()
	clone.Items[0] = value.Int(99)
	require.Equal(t, int64(1), func() int64 { i, _ := left.Items[0].AsInt(); return i }())
}

func TestQueryStepToJSONRowsDeduplicatesKeys(t *testing.T) {
	qs := QueryStep{
		Schema: Schema{Columns: []SchemaColumn{
			FromColumn(NewColumn("id")),
			Named("id"),
		}},
		Rows: []Row{{Items: []value.Value{value.Int(1), value.Int(2)}}},
	}
	rows, err := qs.ToJSONRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.JSONEq(t, `{"id":1}`, string(rows[0]))
}
