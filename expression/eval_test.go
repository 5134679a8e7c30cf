package expression

import (
	"testing"

	"github.com/danieljharvey/miniql/schema"
	"github.com/danieljharvey/miniql/value"
	"github.com/stretchr/testify/require"
)

func testSchema() schema.Schema {
	return schema.Schema{Columns: []schema.SchemaColumn{
		schema.FromColumn(schema.NewColumn("id")),
		schema.FromColumn(schema.NewColumn("name")),
	}}
}

func TestEvaluateColumnAndLiteral(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(1), value.String("horse")}}

	v, err := Evaluate(row, nil, sch, Column{Ref: schema.NewColumn("name")})
	require.NoError(t, err)
	require.Equal(t, value.String("horse"), v)

	v, err = Evaluate(row, nil, sch, Literal{Value: value.Int(42)})
	require.NoError(t, err)
	require.Equal(t, value.Int(42), v)
}

func TestEvaluateColumnNotFound(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(1), value.String("horse")}}

	_, err := Evaluate(row, nil, sch, Column{Ref: schema.NewColumn("missing")})
	require.Error(t, err)
}

func TestBinaryOpEqualityAndComparison(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(5), value.String("horse")}}

	eq := BinaryOp{Left: Column{Ref: schema.NewColumn("id")}, Op: OpEq, Right: Literal{Value: value.Int(5)}}
	v, err := Evaluate(row, nil, sch, eq)
	require.NoError(t, err)
	b, _ := v.AsBool()
	require.True(t, b)

	gt := BinaryOp{Left: Column{Ref: schema.NewColumn("id")}, Op: OpGt, Right: Literal{Value: value.Int(1)}}
	v, err = Evaluate(row, nil, sch, gt)
	require.NoError(t, err)
	b, _ = v.AsBool()
	require.True(t, b)
}

func TestBinaryOpArithmeticRequiresInt(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(5), value.String("horse")}}

	add := BinaryOp{Left: Column{Ref: schema.NewColumn("id")}, Op: OpAdd, Right: Literal{Value: value.Int(1)}}
	v, err := Evaluate(row, nil, sch, add)
	require.NoError(t, err)
	i, _ := v.AsInt()
	require.Equal(t, int64(6), i)

	bad := BinaryOp{Left: Column{Ref: schema.NewColumn("name")}, Op: OpAdd, Right: Literal{Value: value.Int(1)}}
	_, err = Evaluate(row, nil, sch, bad)
	require.Error(t, err)
}

func TestBinaryOpCoercesFloatToInt(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(5), value.String("horse")}}

	add := BinaryOp{Left: Literal{Value: value.Float(2.0)}, Op: OpAdd, Right: Literal{Value: value.Int(3)}}
	v, err := Evaluate(row, nil, sch, add)
	require.NoError(t, err)
	i, _ := v.AsInt()
	require.Equal(t, int64(5), i)
}

func TestAggregateSumRequiresAllRows(t *testing.T) {
	sch := testSchema()
	rows := []schema.Row{
		{Items: []value.Value{value.Int(1), value.String("a")}},
		{Items: []value.Value{value.Int(2), value.String("b")}},
	}
	call := FunctionCall{Name: "sum", Args: []Expr{Column{Ref: schema.NewColumn("id")}}}

	_, err := Evaluate(rows[0], nil, sch, call)
	require.Error(t, err, "aggregate without AllRows context must fail")

	v, err := Evaluate(rows[0], AllRows(rows), sch, call)
	require.NoError(t, err)
	i, _ := v.AsInt()
	require.Equal(t, int64(3), i)
}

func TestIsAggregateDetection(t *testing.T) {
	require.False(t, IsAggregate(Column{Ref: schema.NewColumn("id")}))
	require.True(t, IsAggregate(FunctionCall{Name: "sum", Args: []Expr{Column{Ref: schema.NewColumn("id")}}}))
	require.True(t, IsAggregate(BinaryOp{
		Left:  FunctionCall{Name: "sum", Args: []Expr{Column{Ref: schema.NewColumn("id")}}},
		Op:    OpAdd,
		Right: Literal{Value: value.Int(1)},
	}))
}

func TestApplyPredicateRequiresBoolean(t *testing.T) {
	sch := testSchema()
	row := schema.Row{Items: []value.Value{value.Int(5), value.String("horse")}}

	_, err := ApplyPredicate(row, sch, Literal{Value: value.Int(1)})
	require.Error(t, err)

	ok, err := ApplyPredicate(row, sch, BinaryOp{Left: Column{Ref: schema.NewColumn("id")}, Op: OpEq, Right: Literal{Value: value.Int(5)}})
	require.NoError(t, err)
	require.True(t, ok)
}
