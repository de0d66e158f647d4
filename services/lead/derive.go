package lead

import (
	"strings"
	"time"

	leadModel "tour-leads/models/lead"
)

const (
	dayLayout   = "2006-01-02"
	labelLayout = "Jan 2, 2006"
)

// DeriveLeadType maps the qualifying experience answer to a lead type:
// team/incentive inquiries are company business, everything else individual.
func DeriveLeadType(experienceType string) string {
	if experienceType == leadModel.AnswerExperienceTeam {
		return leadModel.LeadTypeCompany
	}
	return leadModel.LeadTypeIndividual
}

// BuildDetails assembles the overflow object from wizard answers. The
// schedule-call answer is normalized to a boolean; everything else is stored
// under its step key.
func BuildDetails(answers map[string]string) map[string]interface{} {
	details := make(map[string]interface{}, len(answers)+1)
	for key, value := range answers {
		if key == "schedule_call" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		details[key] = value
	}
	details["schedule_call"] = answers["schedule_call"] == leadModel.AnswerScheduleYes
	return details
}

// formatDay renders a YYYY-MM-DD string as "Jan 2, 2006". Parsing uses
// local calendar-date construction so the display never shifts a day.
func formatDay(s string) string {
	d, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return s
	}
	return d.Format(labelLayout)
}

// DepartureLabel derives the list-view departure column. Fixed departures
// show the schedule start; custom ranges show start (and end when present);
// flexible shows "Flexible"; anything else is "TBD".
func DepartureLabel(departureType leadModel.DepartureType, scheduleStart, customStart, customEnd *string) string {
	switch departureType {
	case leadModel.DepartureTypeFixed:
		if scheduleStart != nil && *scheduleStart != "" {
			return formatDay(*scheduleStart)
		}
		return "TBD"
	case leadModel.DepartureTypeCustom:
		if customStart == nil || *customStart == "" {
			return "TBD"
		}
		label := formatDay(*customStart)
		if customEnd != nil && *customEnd != "" {
			label += " – " + formatDay(*customEnd)
		}
		return label
	case leadModel.DepartureTypeFlexible:
		return "Flexible"
	default:
		return "TBD"
	}
}

// Summary holds the triage dashboard counts, computed from the in-memory
// list rather than fetched separately.
type Summary struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Confirmed  int `json:"confirmed"`
}

// Summarize recounts the dashboard numbers from a joined list
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case leadModel.LeadStatusNew:
			s.New++
		case leadModel.LeadStatusInProgress:
			s.InProgress++
		case leadModel.LeadStatusConfirmed:
			s.Confirmed++
		}
	}
	return s
}
