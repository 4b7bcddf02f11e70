package authz

import "errors"

// Policy validation errors. Queries on a built Engine never fail; these only
// surface from NewEngine.
var (
	ErrMissingRole       = errors.New("role has no permission entry")
	ErrUnknownRole       = errors.New("unknown role in policy")
	ErrUnknownPermission = errors.New("unknown permission in policy")
	ErrInvalidRank       = errors.New("role rank must be positive")
	ErrDuplicateRank     = errors.New("role ranks must be distinct")
)
