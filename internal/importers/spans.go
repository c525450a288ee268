package importers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// parseSpans decodes an entities value: a list of [start, end, label]
// triples, or of {"start_offset", "end_offset", "label"} objects.
func parseSpans(value any) ([]Span, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("entities must be a list, got %T", value)
	}

	spans := make([]Span, 0, len(items))
	for i, item := range items {
		span, err := parseSpan(item)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		spans = append(spans, span)
	}
	return spans, nil
}

func parseSpan(item any) (Span, error) {
	switch v := item.(type) {
	case []any:
		if len(v) != 3 {
			return Span{}, fmt.Errorf("expected [start, end, label], got %d elements", len(v))
		}
		return spanFrom(v[0], v[1], v[2])
	case map[string]any:
		return spanFrom(v["start_offset"], v["end_offset"], v["label"])
	default:
		return Span{}, fmt.Errorf("expected [start, end, label], got %T", item)
	}
}

func spanFrom(start, end, label any) (Span, error) {
	s, err := toOffset(start)
	if err != nil {
		return Span{}, fmt.Errorf("start: %w", err)
	}
	e, err := toOffset(end)
	if err != nil {
		return Span{}, fmt.Errorf("end: %w", err)
	}
	name, ok := label.(string)
	if !ok {
		return Span{}, fmt.Errorf("label must be a string, got %T", label)
	}
	return Span{Start: s, End: e, Label: name}, nil
}

func toOffset(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return 0, fmt.Errorf("offset %q is not an integer", n.String())
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("offset %v is not an integer", n)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("offset must be a number, got %T", v)
	}
}
