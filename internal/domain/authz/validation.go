package authz

import "github.com/guestpost/guestpost-api/internal/pkg/validator"

func init() {
	validator.RegisterString("role", func(s string) bool {
		_, ok := ParseRole(s)
		return ok
	}, "Invalid role. Must be: admin, moderator, publisher, or buyer")
}
