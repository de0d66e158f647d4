package lead

import (
	"fmt"

	leadModel "tour-leads/models/lead"
)

// StatusUpdateRequest changes only the triage status of a lead
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r StatusUpdateRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	if !leadModel.LeadStatus(r.Status).IsValid() {
		return fmt.Errorf("unknown status: %s", r.Status)
	}
	return nil
}

// UpdateRequest carries structured-field changes plus an optional shallow
// merge fragment for the details column. Nil pointers mean "leave unchanged".
type UpdateRequest struct {
	Source                 *string                `json:"source,omitempty"`
	DepartureType          *string                `json:"departure_type,omitempty"`
	TourID                 *string                `json:"tour_id,omitempty"`
	FixedDateID            *string                `json:"fixed_date_id,omitempty"`
	CustomDepartureDate    *string                `json:"custom_departure_date,omitempty"`
	CustomDepartureDateEnd *string                `json:"custom_departure_date_end,omitempty"`
	LeadType               *string                `json:"lead_type,omitempty"`
	InternalNotes          *string                `json:"internal_notes,omitempty"`
	DetailsMerge           map[string]interface{} `json:"details_merge,omitempty"`
}

func (r UpdateRequest) Validate() error {
	if r.Source != nil && !leadModel.LeadSource(*r.Source).IsValid() {
		return fmt.Errorf("unknown source: %s", *r.Source)
	}
	if r.DepartureType != nil && !leadModel.DepartureType(*r.DepartureType).IsValid() {
		return fmt.Errorf("unknown departure type: %s", *r.DepartureType)
	}
	if r.LeadType != nil && *r.LeadType != leadModel.LeadTypeCompany && *r.LeadType != leadModel.LeadTypeIndividual {
		return fmt.Errorf("lead_type must be %q or %q", leadModel.LeadTypeCompany, leadModel.LeadTypeIndividual)
	}
	return nil
}

// CreateRequest is the staff-side manual lead creation payload
type CreateRequest struct {
	Source                 string                 `json:"source"`
	DepartureType          string                 `json:"departure_type"`
	TourID                 *string                `json:"tour_id,omitempty"`
	DestinationLabel       string                 `json:"destination_label,omitempty"`
	FixedDateID            *string                `json:"fixed_date_id,omitempty"`
	CustomDepartureDate    *string                `json:"custom_departure_date,omitempty"`
	CustomDepartureDateEnd *string                `json:"custom_departure_date_end,omitempty"`
	LeadType               string                 `json:"lead_type"`
	InternalNotes          *string                `json:"internal_notes,omitempty"`
	Details                map[string]interface{} `json:"details,omitempty"`
}

func (r CreateRequest) Validate() error {
	if r.Source != "" && !leadModel.LeadSource(r.Source).IsValid() {
		return fmt.Errorf("unknown source: %s", r.Source)
	}
	if r.DepartureType != "" && !leadModel.DepartureType(r.DepartureType).IsValid() {
		return fmt.Errorf("unknown departure type: %s", r.DepartureType)
	}
	if r.LeadType != "" && r.LeadType != leadModel.LeadTypeCompany && r.LeadType != leadModel.LeadTypeIndividual {
		return fmt.Errorf("lead_type must be %q or %q", leadModel.LeadTypeCompany, leadModel.LeadTypeIndividual)
	}
	return nil
}
