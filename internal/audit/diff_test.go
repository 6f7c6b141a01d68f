package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	testCases := []struct {
		name     string
		before   map[string]any
		after    map[string]any
		expected map[string]any
	}{
		{
			name:     "first_name changed",
			before:   map[string]any{"first_name": "A"},
			after:    map[string]any{"first_name": "B"},
			expected: map[string]any{"first_name": map[string]any{"from": "A", "to": "B"}},
		},
		{
			name:     "unchanged fields omitted",
			before:   map[string]any{"first_name": "A", "last_name": "Z", "is_active": true},
			after:    map[string]any{"first_name": "A", "last_name": "Y", "is_active": true},
			expected: map[string]any{"last_name": map[string]any{"from": "Z", "to": "Y"}},
		},
		{
			name:     "bool flip",
			before:   map[string]any{"is_active": true},
			after:    map[string]any{"is_active": false},
			expected: map[string]any{"is_active": map[string]any{"from": true, "to": false}},
		},
		{
			name:     "nothing changed",
			before:   map[string]any{"name": "x"},
			after:    map[string]any{"name": "x"},
			expected: map[string]any{},
		},
		{
			name:     "field absent after",
			before:   map[string]any{"name": "x"},
			after:    map[string]any{},
			expected: map[string]any{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Diff(tc.before, tc.after))
		})
	}
}

func TestSnapshot(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, map[string]any{"id": id.String(), "repr": "admin"}, Snapshot(id, "admin"))
}

func TestDisplay(t *testing.T) {
	testCases := []struct {
		in, action, model string
	}{
		{in: ActionCreate, action: "Creación"},
		{in: ActionUpdate, action: "Actualización"},
		{in: ActionDelete, action: "eliminación"},
		{in: ModelRole, model: "Rol"},
		{in: ModelPermission, model: "Permiso"},
		{in: ModelRolePermission, model: "Asignación de permiso"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if tc.action != "" {
				assert.Equal(t, tc.action, ActionDisplay(tc.in))
			}

			if tc.model != "" {
				assert.Equal(t, tc.model, ModelDisplay(tc.in))
			}
		})
	}

	assert.Equal(t, "UserRole", ModelDisplay(ModelUserRole), "unknown names fall back to the raw value")
	assert.Equal(t, "purge", ActionDisplay("purge"))
}
