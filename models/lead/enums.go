package lead

// LeadStatus represents the triage state of a lead
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusConfirmed  LeadStatus = "confirmed"
	LeadStatusCompleted  LeadStatus = "completed"
	LeadStatusCancelled  LeadStatus = "cancelled"
)

// LeadSource identifies which surface produced the inquiry
type LeadSource string

const (
	LeadSourceHome       LeadSource = "home"
	LeadSourceTourFixed  LeadSource = "tour-fixed"
	LeadSourceTourCustom LeadSource = "tour-custom"
	LeadSourceReseller   LeadSource = "reseller"
	LeadSourceUnknown    LeadSource = "unknown"
)

// DepartureType classifies how the traveler specified timing
type DepartureType string

const (
	DepartureTypeFixed    DepartureType = "fixed"
	DepartureTypeCustom   DepartureType = "custom"
	DepartureTypeFlexible DepartureType = "flexible"
	DepartureTypeNone     DepartureType = "none"
)

// Lead types derived from the qualifying experience answer
const (
	LeadTypeCompany    = "Company"
	LeadTypeIndividual = "Individual"
)

// Qualifying answers that drive derivation rules. The wizard offers these
// verbatim; the repository branches on them.
const (
	AnswerExperienceTeam        = "Team / Incentive Experience"
	AnswerExperienceFriends     = "Friends & Family Trip"
	AnswerExperienceCelebration = "Special Celebration"
	AnswerExperienceOther       = "Other"

	AnswerScheduleYes = "Yes, schedule a call"
	AnswerScheduleNo  = "No, I'll do it later"
)

// Helper methods for LeadStatus
func (ls LeadStatus) String() string {
	return string(ls)
}

func (ls LeadStatus) IsValid() bool {
	switch ls {
	case LeadStatusNew, LeadStatusInProgress, LeadStatusConfirmed, LeadStatusCompleted, LeadStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the lead can no longer move forward
func (ls LeadStatus) IsTerminal() bool {
	return ls == LeadStatusCompleted
}

// statusTransitions holds the allowed triage moves per current status.
// Cancelled leads can be reopened as new; completed is final.
var statusTransitions = map[LeadStatus]map[LeadStatus]bool{
	LeadStatusNew:        {LeadStatusInProgress: true, LeadStatusConfirmed: true, LeadStatusCancelled: true},
	LeadStatusInProgress: {LeadStatusConfirmed: true, LeadStatusCompleted: true, LeadStatusCancelled: true},
	LeadStatusConfirmed:  {LeadStatusCompleted: true, LeadStatusCancelled: true, LeadStatusInProgress: true},
	LeadStatusCompleted:  {},
	LeadStatusCancelled:  {LeadStatusNew: true},
}

// CanTransition reports whether a status change is an allowed triage move.
// An empty current status is treated as a fresh row and may move anywhere valid.
func CanTransition(current, to LeadStatus) bool {
	if !to.IsValid() {
		return false
	}
	if current == "" {
		return true
	}
	next, ok := statusTransitions[current]
	if !ok {
		return false
	}
	return next[to]
}

func (ls LeadSource) IsValid() bool {
	switch ls {
	case LeadSourceHome, LeadSourceTourFixed, LeadSourceTourCustom, LeadSourceReseller, LeadSourceUnknown:
		return true
	default:
		return false
	}
}

func (dt DepartureType) IsValid() bool {
	switch dt {
	case DepartureTypeFixed, DepartureTypeCustom, DepartureTypeFlexible, DepartureTypeNone:
		return true
	default:
		return false
	}
}

// GetAllLeadStatuses returns all valid lead statuses
func GetAllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		LeadStatusNew,
		LeadStatusInProgress,
		LeadStatusConfirmed,
		LeadStatusCompleted,
		LeadStatusCancelled,
	}
}
