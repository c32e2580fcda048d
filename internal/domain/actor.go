package domain

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleOrgMember  = "organization_member"
)

// Actor adalah identitas caller hasil resolusi JWT di middleware.
// Subsystem ini tidak pernah menyimpan actor; auth adalah kolaborator eksternal.
type Actor struct {
	UserID         string
	EmployeeID     string
	OrganizationID string
	Role           string
}

// IsPaymentAdmin: hanya admin dan super_admin yang boleh memicu pembayaran.
func (a Actor) IsPaymentAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// CanAccessOrganization: super_admin bebas lintas organisasi.
func (a Actor) CanAccessOrganization(organizationID string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	return a.OrganizationID == organizationID
}
