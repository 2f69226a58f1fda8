// Package auth implements authentication against the local user table and
// role based permission checks for the web handlers.
//
// Permissions use the "resource.action" convention and are attached to the
// three system roles at seed time. Handlers guard their routes with
// RequirePermission; templates receive the acting user's permission set via
// AddPermissionsToLocals so navigation can hide pages the user may not open.
package auth
