package auth

// Capability names an action a route group protects. Roles are flat: the
// table below is the single source of truth for who may do what, instead of
// allow-lists scattered through handlers.
type Capability string

const (
	CapManageOrg            Capability = "org:manage"
	CapModerateReports      Capability = "reports:moderate"
	CapDecideRequests       Capability = "requests:decide"
	CapDecideLeaves         Capability = "leaves:decide"
	CapPublishAnnouncements Capability = "announcements:publish"
	CapManageSchedules      Capability = "schedules:manage"
	CapManageChecklists     Capability = "checklists:manage"
	CapRecordProduction     Capability = "production:record"
	CapManageTrainings      Capability = "trainings:manage"
	CapReviewSuggestions    Capability = "suggestions:review"
)

var capabilityRoles = map[Capability][]Role{
	CapManageOrg:            {RoleAdmin},
	CapModerateReports:      {RoleManager, RoleAdmin},
	CapDecideRequests:       {RoleManager, RoleAdmin},
	CapDecideLeaves:         {RoleManager, RoleAdmin},
	CapPublishAnnouncements: {RoleManager, RoleAdmin},
	CapManageSchedules:      {RoleManager, RoleAdmin},
	CapManageChecklists:     {RoleManager, RoleAdmin},
	CapRecordProduction:     {RoleManager, RoleAdmin},
	CapManageTrainings:      {RoleManager, RoleAdmin},
	CapReviewSuggestions:    {RoleManager, RoleAdmin},
}

// Allowed reports whether the role may exercise the capability.
func Allowed(role Role, cap Capability) bool {
	for _, r := range capabilityRoles[cap] {
		if r == role {
			return true
		}
	}
	return false
}
