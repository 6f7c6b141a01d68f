package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p, err := NewPolicy(DefaultRules())
	require.NoError(t, err)

	testCases := []struct {
		res      Resource
		op       Operation
		expected string
	}{
		{ResourceRole, OpList, PermRoleView},
		{ResourceRole, OpCreate, PermRoleAdd},
		{ResourceRole, OpUpdate, PermRoleChange},
		{ResourceRole, OpDestroy, PermRoleDelete},
		{ResourceRolePermissions, OpList, PermRoleView},
		{ResourceRolePermissions, OpAssign, PermRoleChange},
		{ResourceRolePermissions, OpRemove, PermRoleChange},
		{ResourceUserRole, OpList, PermUserView},
		{ResourceUserRole, OpCreate, PermUserRoleAdd},
		{ResourceUserRole, OpDestroy, PermUserRoleDelete},
	}

	for _, tc := range testCases {
		t.Run(string(tc.res)+"."+string(tc.op), func(t *testing.T) {
			code, err := p.Required(tc.res, tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, code)
		})
	}

	for _, code := range p.Codes() {
		assert.Contains(t, Descriptions, code, "seeded permission needs a description")
	}

	assert.Len(t, p.Rules(), len(DefaultRules()))
}

func TestNewPolicyRejects(t *testing.T) {
	withoutLast := DefaultRules()[:len(DefaultRules())-1]

	testCases := []struct {
		name    string
		rules   []Rule
		wantErr error
	}{
		{"missing operation", withoutLast, ErrPolicyIncomplete},
		{"empty table", nil, ErrPolicyIncomplete},
		{"duplicate", append(DefaultRules(), Rule{ResourceRole, OpList, PermRoleView}), ErrPolicyInvalid},
		{"unknown operation", append(DefaultRules(), Rule{ResourceRole, OpAssign, PermRoleChange}), ErrPolicyInvalid},
		{"unknown resource", append(DefaultRules(), Rule{"zone", OpList, "zone.view"}), ErrPolicyInvalid},
		{"empty code", append(withoutLast, Rule{ResourceRolePermissions, OpRemove, ""}), ErrPolicyInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPolicy(tc.rules)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
