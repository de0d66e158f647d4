package wizard

import (
	"fmt"
)

// OpenRequest starts a fresh wizard session
type OpenRequest struct {
	Variant          string `json:"variant"` // "fixed" or "custom"
	Source           string `json:"source,omitempty"`
	TourSlug         string `json:"tour_slug,omitempty"`
	DestinationLabel string `json:"destination_label,omitempty"`
	FixedDateID      string `json:"fixed_date_id,omitempty"`
}

func (r OpenRequest) Validate() error {
	if r.Variant != "fixed" && r.Variant != "custom" {
		return fmt.Errorf("variant must be 'fixed' or 'custom'")
	}
	if r.Variant == "fixed" && r.FixedDateID == "" {
		return fmt.Errorf("fixed variant requires fixed_date_id")
	}
	return nil
}

// AnswerRequest stores one field value on the current step
type AnswerRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (r AnswerRequest) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}

// CalendarRequest selects one date on the range picker
type CalendarRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r CalendarRequest) Validate() error {
	if r.Date == "" {
		return fmt.Errorf("date is required")
	}
	return nil
}

// SchedulingEventRequest is the handoff message relayed from the embedded
// scheduler. Only event "calendly.event_scheduled" carries meaning.
type SchedulingEventRequest struct {
	Event   string                 `json:"event"`
	Payload SchedulingEventPayload `json:"payload"`
}

type SchedulingEventPayload struct {
	Event   *SchedulingEventRef `json:"event,omitempty"`
	Invitee *SchedulingEventRef `json:"invitee,omitempty"`
}

type SchedulingEventRef struct {
	URI string `json:"uri"`
}

func (r SchedulingEventRequest) Validate() error {
	if r.Event == "" {
		return fmt.Errorf("event is required")
	}
	return nil
}
