package auth

import (
	"fmt"
	"sort"
)

// Resource is a protected resource type.
type Resource string

// Operation is an operation kind on a resource.
type Operation string

// Protected resources.
const (
	ResourceRole            Resource = "role"
	ResourcePermission      Resource = "permission"
	ResourceUser            Resource = "user"
	ResourceUserRole        Resource = "user_role"
	ResourceRolePermissions Resource = "role_permissions"
)

// Operation kinds.
const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDestroy  Operation = "destroy"
	OpAssign   Operation = "assign"
	OpRemove   Operation = "remove"
)

var crud = []Operation{OpList, OpRetrieve, OpCreate, OpUpdate, OpDestroy} //nolint:gochecknoglobals

// operations lists every operation each resource exposes. A policy must cover all of them.
var operations = map[Resource][]Operation{ //nolint:gochecknoglobals
	ResourceRole:            crud,
	ResourcePermission:      crud,
	ResourceUser:            crud,
	ResourceUserRole:        crud,
	ResourceRolePermissions: {OpList, OpAssign, OpRemove},
}

// Rule maps one operation to the permission code it requires.
type Rule struct {
	Resource   Resource
	Operation  Operation
	Permission string
}

// DefaultRules is the built-in policy table.
func DefaultRules() []Rule {
	return []Rule{
		{ResourceRole, OpList, PermRoleView},
		{ResourceRole, OpRetrieve, PermRoleView},
		{ResourceRole, OpCreate, PermRoleAdd},
		{ResourceRole, OpUpdate, PermRoleChange},
		{ResourceRole, OpDestroy, PermRoleDelete},

		{ResourcePermission, OpList, PermPermissionView},
		{ResourcePermission, OpRetrieve, PermPermissionView},
		{ResourcePermission, OpCreate, PermPermissionAdd},
		{ResourcePermission, OpUpdate, PermPermissionChange},
		{ResourcePermission, OpDestroy, PermPermissionDelete},

		{ResourceUser, OpList, PermUserView},
		{ResourceUser, OpRetrieve, PermUserView},
		{ResourceUser, OpCreate, PermUserAdd},
		{ResourceUser, OpUpdate, PermUserChange},
		{ResourceUser, OpDestroy, PermUserDelete},

		{ResourceUserRole, OpList, PermUserView},
		{ResourceUserRole, OpRetrieve, PermUserView},
		{ResourceUserRole, OpCreate, PermUserRoleAdd},
		{ResourceUserRole, OpUpdate, PermUserRoleChange},
		{ResourceUserRole, OpDestroy, PermUserRoleDelete},

		{ResourceRolePermissions, OpList, PermRoleView},
		{ResourceRolePermissions, OpAssign, PermRoleChange},
		{ResourceRolePermissions, OpRemove, PermRoleChange},
	}
}

// Policy is a validated, exhaustive mapping from (resource, operation) to a permission code.
type Policy struct {
	rules map[Resource]map[Operation]string
}

// NewPolicy validates rules. Every operation of every resource needs exactly one rule.
func NewPolicy(rules []Rule) (*Policy, error) {
	p := &Policy{rules: make(map[Resource]map[Operation]string, len(operations))}

	for _, r := range rules {
		ops, ok := operations[r.Resource]
		if !ok || !hasOperation(ops, r.Operation) {
			return nil, fmt.Errorf("%w: %s.%s is not a known operation", ErrPolicyInvalid, r.Resource, r.Operation)
		}

		if r.Permission == "" {
			return nil, fmt.Errorf("%w: %s.%s has an empty permission", ErrPolicyInvalid, r.Resource, r.Operation)
		}

		if p.rules[r.Resource] == nil {
			p.rules[r.Resource] = make(map[Operation]string, len(ops))
		}

		if _, dup := p.rules[r.Resource][r.Operation]; dup {
			return nil, fmt.Errorf("%w: %s.%s is mapped twice", ErrPolicyInvalid, r.Resource, r.Operation)
		}

		p.rules[r.Resource][r.Operation] = r.Permission
	}

	for res, ops := range operations {
		for _, op := range ops {
			if _, ok := p.rules[res][op]; !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrPolicyIncomplete, res, op)
			}
		}
	}

	return p, nil
}

// MustDefaultPolicy returns the built-in policy and panics if it is incomplete.
func MustDefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultRules())
	if err != nil {
		panic(err)
	}

	return p
}

// Required returns the permission code needed for op on res.
func (p *Policy) Required(res Resource, op Operation) (string, error) {
	code, ok := p.rules[res][op]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrPolicyIncomplete, res, op)
	}

	return code, nil
}

// Codes returns every distinct permission code the policy references, sorted.
func (p *Policy) Codes() []string {
	seen := make(map[string]struct{})

	for _, ops := range p.rules {
		for _, code := range ops {
			seen[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

// Rules returns the table sorted by resource and operation.
func (p *Policy) Rules() []Rule {
	var out []Rule

	for res, ops := range p.rules {
		for op, code := range ops {
			out = append(out, Rule{Resource: res, Operation: op, Permission: code})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}

		return out[i].Operation < out[j].Operation
	})

	return out
}

func hasOperation(ops []Operation, op Operation) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}

	return false
}
