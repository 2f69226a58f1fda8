// Package navigation builds the top navigation bar from the acting user's
// permission set so pages the user may not open never show up.
package navigation

import "github.com/AlphaAutos/AlphaAutos/internal/auth"

// Item is one entry in the navigation bar.
type Item struct {
	Title string
	Path  string
	// Permission gates the entry; an empty permission means every logged
	// in user sees it.
	Permission string
	Active     bool
}

var entries = []Item{
	{Title: "Home", Path: "/home"},
	{Title: "Vehicles", Path: "/vehicles"},
	{Title: "Dealerships", Path: "/dealerships"},
	{Title: "Brands", Path: "/brands"},
	{Title: "Employees", Path: "/employees"},
	{Title: "Buyers", Path: "/buyers", Permission: auth.PermBuyerManage},
	{Title: "Insurers", Path: "/insurers"},
	{Title: "Policies", Path: "/policies"},
	{Title: "Maintenance", Path: "/maintenance"},
	{Title: "Sales", Path: "/sales", Permission: auth.PermSaleSearch},
	{Title: "Users", Path: "/admin/users", Permission: auth.PermUserAdmin},
}

// Build returns the navigation items the user may see, marking the entry
// matching the current path as active.
func Build(permissions map[string]bool, currentPath string) []Item {
	items := make([]Item, 0, len(entries))

	for _, entry := range entries {
		if entry.Permission != "" && !permissions[entry.Permission] {
			continue
		}

		entry.Active = matches(currentPath, entry.Path)
		items = append(items, entry)
	}

	return items
}

func matches(currentPath, entryPath string) bool {
	if currentPath == entryPath {
		return true
	}

	return len(currentPath) > len(entryPath) &&
		currentPath[:len(entryPath)] == entryPath &&
		currentPath[len(entryPath)] == '/'
}
