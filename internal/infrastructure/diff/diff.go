package diff

// Differ compara instantâneos planos de campos (antes/depois da edição).
type Differ struct{}

// Diff devolve os campos de after cujo valor difere de before.
func (d *Differ) Diff(before, after map[string]any) map[string]any {
	delta := map[string]any{}
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			delta[k] = v
		}
	}
	return delta
}

// Changed devolve, pela ordem de keys, os campos alterados entre os dois instantâneos.
func (d *Differ) Changed(before, after map[string]any, keys []string) []string {
	delta := d.Diff(before, after)
	var out []string
	for _, k := range keys {
		if _, ok := delta[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
