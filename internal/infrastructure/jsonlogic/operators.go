package jsonlogic

import (
	"math"
	"reflect"
)

// Round: {"round": [valor, casas]}
func Round(args ...any) any {
	if len(args) == 0 {
		return 0.0
	}
	p := 0
	if len(args) > 1 {
		p = int(toFloat64(args[1]))
	}
	f := math.Pow(10, float64(p))
	return math.Round(toFloat64(args[0])*f) / f
}

// SumField soma um campo sobre uma lista: {"sum_field": [{"var": "items"}, "stock_qty"]}
func SumField(args ...any) any {
	if len(args) < 2 {
		return 0.0
	}
	field, _ := args[1].(string)
	s := 0.0
	each(args[0], func(row map[string]any) {
		s += toFloat64(row[field])
	})
	return s
}

// CountWhere conta as linhas cujo campo é igual ao valor:
// {"count_where": [{"var": "items"}, "brand", "ACME"]}
func CountWhere(args ...any) any {
	if len(args) < 3 {
		return 0.0
	}
	field, _ := args[1].(string)
	n := 0.0
	each(args[0], func(row map[string]any) {
		if reflect.DeepEqual(row[field], args[2]) {
			n++
		}
	})
	return n
}

// Truthy segue a semântica JsonLogic: nulo, falso, zero, "" e listas vazias são falsos.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	}
	return toFloat64(v) != 0
}

func each(list any, fn func(row map[string]any)) {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice {
		return
	}
	for i := 0; i < rv.Len(); i++ {
		if row, ok := rv.Index(i).Interface().(map[string]any); ok {
			fn(row)
		}
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint:
		return float64(val)
	case uint64:
		return float64(val)
	case uint32:
		return float64(val)
	case bool:
		if val {
			return 1
		} else {
			return 0
		}
	default:
		return 0
	}
}
