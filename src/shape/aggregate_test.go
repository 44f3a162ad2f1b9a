package shape

import (
	"testing"

	"github.com/mpiekarski/plantiq/src/docstore"
)

func TestSumCoercesNonNumericToZero(t *testing.T) {
	docs := []docstore.Document{
		{"qty": 10.0},
		{"qty": "n/a"},
		{},
		{"qty": 5.0},
	}
	got, err := Aggregate(docs, "qty", OpSum)
	if err != nil {
		t.Fatal(err)
	}
	if got != 15.0 {
		t.Errorf("sum = %v, want 15", got)
	}
}

func TestAverageOverEmptySetIsZero(t *testing.T) {
	got, err := Aggregate(nil, "qty", OpAverage)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.0 {
		t.Errorf("average(empty) = %v, want 0", got)
	}
}

func TestAverageCountsCoercedZeros(t *testing.T) {
	docs := []docstore.Document{{"qty": 10.0}, {"qty": "bad"}}
	got, err := Aggregate(docs, "qty", OpAverage)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5.0 {
		t.Errorf("average = %v, want 5", got)
	}
}

func TestMinMaxIgnoreNonNumeric(t *testing.T) {
	docs := []docstore.Document{{"qty": "x"}, {"qty": 7.0}, {"qty": 3.0}}

	minVal, err := Aggregate(docs, "qty", OpMin)
	if err != nil {
		t.Fatal(err)
	}
	if v := minVal.(*float64); v == nil || *v != 3.0 {
		t.Errorf("min = %v, want 3", v)
	}

	maxVal, _ := Aggregate(docs, "qty", OpMax)
	if v := maxVal.(*float64); v == nil || *v != 7.0 {
		t.Errorf("max = %v, want 7", v)
	}
}

func TestMinMaxAllNonNumericIsNull(t *testing.T) {
	docs := []docstore.Document{{"qty": "a"}, {"qty": "b"}}
	got, err := Aggregate(docs, "qty", OpMin)
	if err != nil {
		t.Fatal(err)
	}
	if got.(*float64) != nil {
		t.Errorf("min over all-non-numeric = %v, want nil", got)
	}
}

func TestGroupBy(t *testing.T) {
	docs := []docstore.Document{
		{"status": "planned"},
		{"status": "planned"},
		{"status": "completed"},
	}
	got, err := Aggregate(docs, "status", OpGroupBy)
	if err != nil {
		t.Fatal(err)
	}
	groups := got.(map[string]*Group)
	if groups["planned"].Count != 2 || groups["completed"].Count != 1 {
		t.Errorf("unexpected grouping: %+v", groups)
	}
	if len(groups["planned"].Items) != 2 {
		t.Error("group items must carry the grouped documents")
	}
}

func TestUnsupportedAggregation(t *testing.T) {
	if _, err := Aggregate(nil, "qty", AggOp("median")); err == nil {
		t.Error("expected error for unsupported aggregation")
	}
}
