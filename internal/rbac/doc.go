// Package rbac is the mutation service for roles, permissions, users and their edges.
//
// Every mutation runs in one database transaction together with its audit record:
// either both commit or neither does. Callers pass the acting principal explicitly,
// a nil principal is recorded as a system action. Authorization is checked by the
// caller before a mutation is invoked.
//
// Permission caches are invalidated after commit.
package rbac
