package diff

import (
	"slices"
	"testing"
)

func TestDiffer(t *testing.T) {
	d := &Differ{}
	before := map[string]any{"qty": 12.0, "rate": 90.0, "discount_percentage": 10.0}
	after := map[string]any{"qty": 12.0, "rate": 85.0, "discount_percentage": 15.0, "margin_rate_or_amount": 0.0}

	t.Run("Diff", func(t *testing.T) {
		delta := d.Diff(before, after)
		if len(delta) != 3 {
			t.Errorf("esperado 3 campos, obtido %v", delta)
		}
		if _, ok := delta["qty"]; ok {
			t.Error("qty não mudou")
		}
	})

	t.Run("Changed segue a ordem das chaves", func(t *testing.T) {
		got := d.Changed(before, after, []string{"discount_percentage", "qty", "rate"})
		if !slices.Equal(got, []string{"discount_percentage", "rate"}) {
			t.Errorf("esperado [discount_percentage rate], obtido %v", got)
		}
	})

	t.Run("sem alterações", func(t *testing.T) {
		if got := d.Changed(before, before, []string{"qty", "rate"}); len(got) != 0 {
			t.Errorf("esperado nada, obtido %v", got)
		}
	})
}
