// internal/domain/models/roles.go
package models

// ProfileRole represents a role option for the profile screen.
type ProfileRole struct {
	Value string `json:"value"` // stored in the profile
	Label string `json:"label"` // shown in the role picker
}

// Canonical profile role identifiers.
const (
	RoleDeveloper      = "developer"
	RoleProjectManager = "project-manager"
	RoleProductManager = "product-manager"
	RoleDesigner       = "designer"
	RoleOther          = "other"
)

// AllProfileRoles lists the roles offered on the profile screen.
var AllProfileRoles = []ProfileRole{
	{Value: RoleDeveloper, Label: "Developer"},
	{Value: RoleProjectManager, Label: "Project Manager"},
	{Value: RoleProductManager, Label: "Product Manager"},
	{Value: RoleDesigner, Label: "Designer"},
	{Value: RoleOther, Label: "Other"},
}

// IsKnownProfileRole reports whether v is one of AllProfileRoles.
// Role writes do not call this; unknown values are stored as given.
func IsKnownProfileRole(v string) bool {
	for _, r := range AllProfileRoles {
		if r.Value == v {
			return true
		}
	}
	return false
}
