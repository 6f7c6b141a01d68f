// Package auth answers "may this principal do that?".
//
// # Resolution
//
// Effective permissions of a user are the union of the permissions of every role
// the user holds. A superuser holds every permission. Inactive or unauthenticated
// principals hold none.
//
// Service.HasPermission resolves one permission code with a single JOIN query over
// permissions, role_permissions and user_roles. An optional Cache keeps the resolved
// set per user; writers invalidate it after commit.
//
// # Policy
//
// Every protected operation maps to exactly one permission code:
//
//	role             list, retrieve -> role.view, create -> role.add, update -> role.change, destroy -> role.delete
//	role_permissions list -> role.view, assign, remove -> role.change
//
// NewPolicy refuses a rule set that leaves any operation of a resource unmapped.
//
// # Middleware
//
// Fiber middleware reads the Principal stored in fiber.Locals by the request layer:
//
//	app.Get("/roles",
//	    auth.RequirePolicy(authService, policy, auth.ResourceRole, auth.OpList),
//	    handler,
//	)
package auth
