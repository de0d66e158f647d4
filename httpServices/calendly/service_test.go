package calendly

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/scheduled_events/EV123", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"resource":{
			"uri":"uri","name":"Intro Call","status":"active",
			"start_time":"2026-03-05T15:00:00Z","end_time":"2026-03-05T15:30:00Z",
			"location":{"type":"zoom","join_url":"https://zoom.example/j/1"}}}`)
	})
	mux.HandleFunc("/scheduled_events/EV123/invitees", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"collection":[{"cancel_url":"https://cal.example/cancel","reschedule_url":"https://cal.example/resched"}]}`)
	})
	mux.HandleFunc("/scheduled_events/GONE", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestGetMeeting(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	meeting, err := c.GetMeeting(srv.URL + "/scheduled_events/EV123")
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if meeting.EventName != "Intro Call" {
		t.Errorf("event name = %q", meeting.EventName)
	}
	if meeting.StartTime != "2026-03-05T15:00:00Z" {
		t.Errorf("start time = %q", meeting.StartTime)
	}
	if meeting.JoinURL != "https://zoom.example/j/1" {
		t.Errorf("join url = %q", meeting.JoinURL)
	}
	if meeting.LocationType != "zoom" {
		t.Errorf("location type = %q", meeting.LocationType)
	}
	if meeting.CancelURL != "https://cal.example/cancel" {
		t.Errorf("cancel url = %q", meeting.CancelURL)
	}
}

func TestGetMeetingByBareID(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	meeting, err := c.GetMeeting("EV123")
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if meeting.EndTime != "2026-03-05T15:30:00Z" {
		t.Errorf("end time = %q", meeting.EndTime)
	}
}

func TestGetMeetingErrors(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")

	if _, err := c.GetMeeting(srv.URL + "/scheduled_events/GONE"); err == nil {
		t.Error("expected error for missing event")
	}

	_, err := c.GetMeeting("https://elsewhere.example/scheduled_events/EV123")
	if err == nil || !strings.Contains(err.Error(), "does not belong") {
		t.Errorf("expected foreign-origin rejection, got %v", err)
	}
}
