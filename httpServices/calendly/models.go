package calendly

// Meeting is the flattened scheduled-event metadata merged into a lead's
// details as the calendly_meeting object.
type Meeting struct {
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EventName     string `json:"event_name"`
	Status        string `json:"status"`
	JoinURL       string `json:"join_url,omitempty"`
	LocationType  string `json:"location_type,omitempty"`
	CancelURL     string `json:"cancel_url,omitempty"`
	RescheduleURL string `json:"reschedule_url,omitempty"`
}

// scheduledEventResponse mirrors the scheduled_events resource envelope
type scheduledEventResponse struct {
	Resource struct {
		URI       string `json:"uri"`
		Name      string `json:"name"`
		Status    string `json:"status"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Location  struct {
			Type    string `json:"type"`
			JoinURL string `json:"join_url"`
		} `json:"location"`
	} `json:"resource"`
}

// inviteesResponse mirrors the event invitees collection; the first invitee
// carries the cancel/reschedule links.
type inviteesResponse struct {
	Collection []struct {
		CancelURL     string `json:"cancel_url"`
		RescheduleURL string `json:"reschedule_url"`
	} `json:"collection"`
}
