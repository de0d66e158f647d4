package calendly

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Calendly v2 API with a personal access token.
// Captured event URIs are absolute (https://api.calendly.com/scheduled_events/...),
// so requests go straight to the URI after an origin check against baseURL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *Client) get(url string, out interface{}) error {
	httpReq, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("Calendly API returned non-OK status: " + resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// resolveURI accepts either an absolute event URI or a bare event id
func (c *Client) resolveURI(eventURI string) (string, error) {
	if strings.HasPrefix(eventURI, c.baseURL+"/scheduled_events/") {
		return eventURI, nil
	}
	if strings.HasPrefix(eventURI, "http://") || strings.HasPrefix(eventURI, "https://") {
		return "", fmt.Errorf("event URI %q does not belong to %s", eventURI, c.baseURL)
	}
	return c.baseURL + "/scheduled_events/" + eventURI, nil
}

// GetMeeting fetches a scheduled event plus its first invitee's cancel and
// reschedule links, flattened into one Meeting.
func (c *Client) GetMeeting(eventURI string) (*Meeting, error) {
	url, err := c.resolveURI(eventURI)
	if err != nil {
		return nil, err
	}

	var event scheduledEventResponse
	if err := c.get(url, &event); err != nil {
		return nil, err
	}
	if event.Resource.StartTime == "" {
		return nil, fmt.Errorf("scheduled event %s carried no start time", eventURI)
	}

	meeting := &Meeting{
		StartTime:    event.Resource.StartTime,
		EndTime:      event.Resource.EndTime,
		EventName:    event.Resource.Name,
		Status:       event.Resource.Status,
		JoinURL:      event.Resource.Location.JoinURL,
		LocationType: event.Resource.Location.Type,
	}

	// Invitee links are nice-to-have; a miss does not fail the lookup.
	var invitees inviteesResponse
	if err := c.get(url+"/invitees", &invitees); err == nil && len(invitees.Collection) > 0 {
		meeting.CancelURL = invitees.Collection[0].CancelURL
		meeting.RescheduleURL = invitees.Collection[0].RescheduleURL
	}

	return meeting, nil
}
