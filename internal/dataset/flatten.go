package dataset

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// FlattenBlock projects a content block to plain text: every leaf value,
// depth first, map keys in sorted order, joined by a single space. Keys and
// nulls are not part of the output.
func FlattenBlock(b ContentBlock) string {
	var parts []string
	flattenValue(map[string]any(b), &parts)
	return strings.Join(parts, " ")
}

func flattenValue(v any, parts *[]string) {
	switch x := v.(type) {
	case nil:
	case string:
		if x != "" {
			*parts = append(*parts, x)
		}
	case json.Number:
		*parts = append(*parts, x.String())
	case float64:
		*parts = append(*parts, strconv.FormatFloat(x, 'f', -1, 64))
	case int:
		*parts = append(*parts, strconv.Itoa(x))
	case int64:
		*parts = append(*parts, strconv.FormatInt(x, 10))
	case bool:
		*parts = append(*parts, strconv.FormatBool(x))
	case []any:
		for _, e := range x {
			flattenValue(e, parts)
		}
	case []string:
		for _, e := range x {
			flattenValue(e, parts)
		}
	case ContentBlock:
		flattenValue(map[string]any(x), parts)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(x)) {
			flattenValue(x[k], parts)
		}
	default:
		*parts = append(*parts, fmt.Sprint(x))
	}
}
