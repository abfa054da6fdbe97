package scheduler

import "strings"

// VariantTag identifies which scheduler implementation a viewer receives.
// The set is closed: new roles get a new tag here plus a case in
// ResolveView, never an open-ended conditional chain in handlers.
type VariantTag string

const (
	VariantAdmin        VariantTag = "admin"
	VariantEmployee     VariantTag = "employee"
	VariantUnauthorized VariantTag = "unauthorized"
)

// ResolveView maps a role claim to a variant tag. Total over its input:
// unknown or empty claims resolve to the unauthorized tag rather than
// erroring. Claims are matched case-insensitively since the identity
// provider has historically emitted both SUPER_ADMIN and super_admin.
func ResolveView(roleClaim string) VariantTag {
	switch strings.ToLower(strings.TrimSpace(roleClaim)) {
	case "super_admin", "admin":
		return VariantAdmin
	case "employee":
		return VariantEmployee
	default:
		return VariantUnauthorized
	}
}
