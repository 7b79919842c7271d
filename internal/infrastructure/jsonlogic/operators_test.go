package jsonlogic

import "testing"

func TestOperators(t *testing.T) {
	rows := []any{
		map[string]any{"brand": "Crunchy", "stock_qty": 3.0},
		map[string]any{"brand": "Fizz", "stock_qty": 12.0},
		map[string]any{"brand": "Crunchy", "stock_qty": 5},
	}

	if got := SumField(rows, "stock_qty"); got != 20.0 {
		t.Errorf("SumField = %v, esperado 20", got)
	}
	if got := CountWhere(rows, "brand", "Crunchy"); got != 2.0 {
		t.Errorf("CountWhere = %v, esperado 2", got)
	}
	if got := Round(2.346, 2); got != 2.35 {
		t.Errorf("Round = %v, esperado 2.35", got)
	}
	if got := Round(7.5); got != 8.0 {
		t.Errorf("Round sem casas = %v, esperado 8", got)
	}
	if got := SumField("not a list", "qty"); got != 0.0 {
		t.Errorf("SumField sobre escalar = %v, esperado 0", got)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{0.0, false},
		{"", false},
		{[]any{}, false},
		{true, true},
		{1.5, true},
		{"x", true},
		{[]any{1}, true},
		{map[string]any{"a": 1}, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, esperado %v", tt.in, got, tt.want)
		}
	}
}
