package authz

// Permission represents a single fine-grained capability.
type Permission string

const (
	// User management
	PermViewAllUsers   Permission = "view_all_users"
	PermEditUser       Permission = "edit_user"
	PermDeleteUser     Permission = "delete_user"
	PermChangeUserRole Permission = "change_user_role"
	PermSuspendUser    Permission = "suspend_user"

	// Listing management
	PermCreateListing   Permission = "create_listing"
	PermEditListing     Permission = "edit_listing"
	PermDeleteListing   Permission = "delete_listing"
	PermApproveListing  Permission = "approve_listing"
	PermRejectListing   Permission = "reject_listing"
	PermViewAllListings Permission = "view_all_listings"

	// Orders
	PermCreateOrder   Permission = "create_order"
	PermViewOrder     Permission = "view_order"
	PermCancelOrder   Permission = "cancel_order"
	PermApproveOrder  Permission = "approve_order"
	PermViewAllOrders Permission = "view_all_orders"

	// Transactions
	PermViewTransactions    Permission = "view_transactions"
	PermViewAllTransactions Permission = "view_all_transactions"
	PermProcessPayout       Permission = "process_payout"
	PermRefundPayment       Permission = "refund_payment"

	// Platform
	PermManageSettings    Permission = "manage_settings"
	PermViewAnalytics     Permission = "view_analytics"
	PermManageDisputes    Permission = "manage_disputes"
	PermSendNotifications Permission = "send_notifications"

	// Content
	PermModerateContent Permission = "moderate_content"
	PermManageReviews   Permission = "manage_reviews"
	PermManageContent   Permission = "manage_content"
	PermPublishBlog     Permission = "publish_blog"
	PermEditBlog        Permission = "edit_blog"
	PermDeleteBlog      Permission = "delete_blog"
)

// Category groups permissions for display.
type Category string

const (
	CategoryUsers        Category = "users"
	CategoryListings     Category = "listings"
	CategoryOrders       Category = "orders"
	CategoryTransactions Category = "transactions"
	CategoryPlatform     Category = "platform"
	CategoryContent      Category = "content"
)

var permissionCatalog = []struct {
	perm     Permission
	category Category
}{
	{PermViewAllUsers, CategoryUsers},
	{PermEditUser, CategoryUsers},
	{PermDeleteUser, CategoryUsers},
	{PermChangeUserRole, CategoryUsers},
	{PermSuspendUser, CategoryUsers},

	{PermCreateListing, CategoryListings},
	{PermEditListing, CategoryListings},
	{PermDeleteListing, CategoryListings},
	{PermApproveListing, CategoryListings},
	{PermRejectListing, CategoryListings},
	{PermViewAllListings, CategoryListings},

	{PermCreateOrder, CategoryOrders},
	{PermViewOrder, CategoryOrders},
	{PermCancelOrder, CategoryOrders},
	{PermApproveOrder, CategoryOrders},
	{PermViewAllOrders, CategoryOrders},

	{PermViewTransactions, CategoryTransactions},
	{PermViewAllTransactions, CategoryTransactions},
	{PermProcessPayout, CategoryTransactions},
	{PermRefundPayment, CategoryTransactions},

	{PermManageSettings, CategoryPlatform},
	{PermViewAnalytics, CategoryPlatform},
	{PermManageDisputes, CategoryPlatform},
	{PermSendNotifications, CategoryPlatform},

	{PermModerateContent, CategoryContent},
	{PermManageReviews, CategoryContent},
	{PermManageContent, CategoryContent},
	{PermPublishBlog, CategoryContent},
	{PermEditBlog, CategoryContent},
	{PermDeleteBlog, CategoryContent},
}

// Permissions returns the full permission universe in declaration order.
func Permissions() []Permission {
	out := make([]Permission, len(permissionCatalog))
	for i, entry := range permissionCatalog {
		out[i] = entry.perm
	}
	return out
}

// ParsePermission converts an untrusted string into a Permission.
// Like ParseRole, unknown values are returned unchanged with ok=false.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	return p, p.IsValid()
}

// ParsePermissions parses each element; unknown entries are kept so the
// engine can deny them.
func ParsePermissions(values []string) []Permission {
	if values == nil {
		return nil
	}
	out := make([]Permission, len(values))
	for i, v := range values {
		out[i], _ = ParsePermission(v)
	}
	return out
}

// IsValid reports whether p is a defined permission.
func (p Permission) IsValid() bool {
	_, ok := p.lookup()
	return ok
}

// Category returns the group p belongs to, or "" when p is unknown.
func (p Permission) Category() Category {
	c, _ := p.lookup()
	return c
}

func (p Permission) lookup() (Category, bool) {
	for _, entry := range permissionCatalog {
		if entry.perm == p {
			return entry.category, true
		}
	}
	return "", false
}

func (p Permission) String() string {
	return string(p)
}
