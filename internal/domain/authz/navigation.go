package authz

// NavItem is an admin panel section guarded by a single permission.
type NavItem struct {
	Key        string
	Name       string
	Href       string
	Permission Permission
}

// AdminNavigation returns the admin panel sections in display order.
func AdminNavigation() []NavItem {
	return []NavItem{
		{Key: "dashboard", Name: "Dashboard", Href: "/admin", Permission: PermViewAnalytics},
		{Key: "users", Name: "Users", Href: "/admin/users", Permission: PermViewAllUsers},
		{Key: "roles", Name: "Role Management", Href: "/admin/roles", Permission: PermChangeUserRole},
		{Key: "listings", Name: "Listings", Href: "/admin/listings", Permission: PermViewAllListings},
		{Key: "transactions", Name: "Transactions", Href: "/admin/transactions", Permission: PermViewAllTransactions},
		{Key: "blog", Name: "Blog", Href: "/admin/blog", Permission: PermManageContent},
		{Key: "settings", Name: "Settings", Href: "/admin/settings", Permission: PermManageSettings},
	}
}

// VisibleNavigation filters items down to those role may open.
func (e *Engine) VisibleNavigation(role Role, items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if (Gate{Permission: item.Permission}).Allows(e, role) {
			out = append(out, item)
		}
	}
	return out
}
