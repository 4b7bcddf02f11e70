package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user account is not active")
	ErrPermissionDenied = errors.New("permission denied")
	ErrCannotManageRole = errors.New("cannot manage user with equal or higher role")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrCannotManageSelf = errors.New("cannot change your own account")
)
