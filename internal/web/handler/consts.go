package handler

const (
	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// ParamID is the route parameter holding a resource id.
	ParamID = "id"

	// ErrNilDepsFatalLogMsg is used if router or deps are nil.
	ErrNilDepsFatalLogMsg = "router or deps is nil"

	// MsgMalformedBody is returned when the request body is not valid JSON for the payload.
	MsgMalformedBody = "malformed request body"
	// MsgNotFound is the body of every 404.
	MsgNotFound = "not found"
	// MsgUnauthenticated is the body of every 401.
	MsgUnauthenticated = "authentication credentials were not provided"
	// MsgForbidden is the body of every 403. It never names the missing permission.
	MsgForbidden = "you do not have permission to perform this action"
	// MsgInternal is the body of every 500.
	MsgInternal = "internal server error"
	// MsgValidation is the error of every 400 caused by invalid input.
	MsgValidation = "validation error"
	// MsgInvalidID is the message of a path id that is not a UUID.
	MsgInvalidID = "must be a valid UUID"
)
