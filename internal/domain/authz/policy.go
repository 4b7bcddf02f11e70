package authz

import "fmt"

// Policy is the static authorization configuration an Engine is built from.
type Policy struct {
	// RolePermissions must have an entry for every defined role.
	RolePermissions map[Role][]Permission
	// Hierarchy ranks roles for management decisions. Higher outranks lower.
	// It is never used to derive permissions.
	Hierarchy map[Role]int

	DisplayNames map[Role]string
	Colors       map[Role]string
	DefaultColor string
}

// DefaultPolicy returns the marketplace's reference configuration.
func DefaultPolicy() Policy {
	return Policy{
		RolePermissions: map[Role][]Permission{
			// Full access
			RoleAdmin: Permissions(),
			RoleModerator: {
				PermViewAllUsers,
				PermSuspendUser,
				PermViewAllListings,
				PermApproveListing,
				PermRejectListing,
				PermViewAllOrders,
				PermModerateContent,
				PermManageReviews,
				PermManageDisputes,
				PermViewAnalytics,
				PermManageContent,
				PermPublishBlog,
				PermEditBlog,
			},
			RolePublisher: {
				PermCreateListing,
				PermEditListing,
				PermDeleteListing,
				PermViewOrder,
				PermApproveOrder,
				PermViewTransactions,
			},
			RoleBuyer: {
				PermCreateOrder,
				PermViewOrder,
				PermCancelOrder,
				PermViewTransactions,
			},
		},
		Hierarchy: map[Role]int{
			RoleAdmin:     4,
			RoleModerator: 3,
			RolePublisher: 2,
			RoleBuyer:     1,
		},
		DisplayNames: map[Role]string{
			RoleAdmin:     "Administrator",
			RoleModerator: "Moderator",
			RolePublisher: "Publisher",
			RoleBuyer:     "Buyer",
		},
		Colors: map[Role]string{
			RoleAdmin:     "bg-red-100 text-red-800",
			RoleModerator: "bg-orange-100 text-orange-800",
			RolePublisher: "bg-purple-100 text-purple-800",
			RoleBuyer:     "bg-blue-100 text-blue-800",
		},
		DefaultColor: "bg-gray-100 text-gray-800",
	}
}

// Validate checks that the permission map is total over the defined roles,
// references only defined roles and permissions, and that ranks form a
// strict order.
func (p Policy) Validate() error {
	for _, role := range Roles() {
		if _, ok := p.RolePermissions[role]; !ok {
			return fmt.Errorf("authz: %s: %w", role, ErrMissingRole)
		}
		rank, ok := p.Hierarchy[role]
		if !ok || rank <= 0 {
			return fmt.Errorf("authz: %s: %w", role, ErrInvalidRank)
		}
	}

	for role, perms := range p.RolePermissions {
		if !role.IsValid() {
			return fmt.Errorf("authz: %q: %w", role, ErrUnknownRole)
		}
		for _, perm := range perms {
			if !perm.IsValid() {
				return fmt.Errorf("authz: %s grants %q: %w", role, perm, ErrUnknownPermission)
			}
		}
	}

	seen := make(map[int]Role, len(p.Hierarchy))
	for role, rank := range p.Hierarchy {
		if !role.IsValid() {
			return fmt.Errorf("authz: %q: %w", role, ErrUnknownRole)
		}
		if other, dup := seen[rank]; dup {
			return fmt.Errorf("authz: %s and %s share rank %d: %w", other, role, rank, ErrDuplicateRank)
		}
		seen[rank] = role
	}

	return nil
}
