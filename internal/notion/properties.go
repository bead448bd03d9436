package notion

// Properties is the "properties" object of a create or update call, keyed by
// column name.
type Properties map[string]any

func Title(s string) any {
	return map[string]any{"title": []RichText{{Text: &TextContent{Content: s}}}}
}

func Text(s string) any {
	return map[string]any{"rich_text": []RichText{{Text: &TextContent{Content: s}}}}
}

func Select(name string) any {
	return map[string]any{"select": SelectValue{Name: name}}
}

func MultiSelect(names ...string) any {
	opts := make([]SelectValue, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectValue{Name: n})
	}
	return map[string]any{"multi_select": opts}
}

func Number(n float64) any {
	return map[string]any{"number": n}
}

func Date(start string) any {
	return map[string]any{"date": DateValue{Start: start}}
}

// ClearDate empties a date property.
func ClearDate() any {
	return map[string]any{"date": nil}
}

func Relation(pageIDs ...string) any {
	refs := make([]Reference, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, Reference{ID: id})
	}
	return map[string]any{"relation": refs}
}
