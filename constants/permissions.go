package constants

// Organization permissions
const (
	PermAdminFull    = "tour-leads.admin.full-permit"
	PermStaffFull    = "tour-leads.staff.full-permit"
	PermTravelerFull = "tour-leads.traveler.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	TriagePermissions = []string{
		PermAdminFull,
		PermStaffFull,
	}
)
