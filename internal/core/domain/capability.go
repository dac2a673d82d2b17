package domain

// Capabilities describes which directory operations a role may perform.
// The admin and manager dashboards share one directory view configured by
// this descriptor; every mutation path re-checks it server-side, so hiding
// a control in the UI is never the access-control mechanism.
type Capabilities struct {
	CanCreate       bool     `json:"can_create"`
	CanDelete       bool     `json:"can_delete"`
	AssignableRoles []string `json:"assignable_roles"`
}

// CanAssign reports whether the role may be granted through this capability
// set. No capability set ever includes admin: there is no UI path that
// promotes an account to admin after signup.
func (c Capabilities) CanAssign(role string) bool {
	for _, r := range c.AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CapabilitiesFor maps a session role to its directory capabilities.
// Unknown roles get the zero value: no create, no delete, nothing assignable.
func CapabilitiesFor(role string) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			CanCreate:       true,
			CanDelete:       true,
			AssignableRoles: []string{RoleUser, RoleManager},
		}
	case RoleManager:
		return Capabilities{
			AssignableRoles: []string{RoleUser, RoleManager},
		}
	default:
		return Capabilities{}
	}
}
