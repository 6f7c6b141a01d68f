package audit

import (
	"fmt"
	"reflect"
)

// Change is the before and after value of one field.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Diff compares the fields present in before with after and returns only the changed ones.
// Keys missing from after are treated as unchanged.
func Diff(before, after map[string]any) map[string]any {
	out := make(map[string]any)

	for field, old := range before {
		updated, ok := after[field]
		if !ok || reflect.DeepEqual(old, updated) {
			continue
		}

		out[field] = map[string]any{"from": old, "to": updated}
	}

	return out
}

// Snapshot is the terminal record of a deleted entity.
func Snapshot(id fmt.Stringer, repr string) map[string]any {
	return map[string]any{
		"id":   id.String(),
		"repr": repr,
	}
}
