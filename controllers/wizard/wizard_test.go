package wizard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	leadModel "tour-leads/models/lead"
	leadService "tour-leads/services/lead"
	wizardService "tour-leads/services/wizard"

	"github.com/gofiber/fiber/v2"
)

type stubInserter struct{}

func (stubInserter) Insert(p leadService.InsertPayload) (*leadModel.Lead, error) {
	return &leadModel.Lead{ID: "lead-1"}, nil
}

func setupApp() (*fiber.App, *wizardService.Store) {
	st := wizardService.NewStore(stubInserter{})
	ctl := NewWizardController(st, nil)

	app := fiber.New()
	app.Post("/api/wizard/:sessionID/scheduling-event", ctl.SchedulingEvent)
	return app, st
}

// awaitingSession walks a session up to the scheduling branch and answers yes
func awaitingSession(t *testing.T, st *wizardService.Store) string {
	t.Helper()
	snap := st.Open(wizardService.OpenParams{
		Variant:     wizardService.VariantFixed,
		Source:      leadModel.LeadSourceTourFixed,
		FixedDateID: "sched-1",
	})
	values := map[string]string{
		"experience_type": wizardService.AnswerExperienceFriends,
		"group_size":      "2 to 3",
		"first_name":      "Ana",
		"last_name":       "Quispe",
		"email":           "ana@example.com",
		"phone":           "+51 984 123 456",
		"schedule_call":   wizardService.AnswerScheduleYes,
	}
	for _, step := range wizardService.Steps() {
		got, err := st.Answer(snap.SessionID, step.Key, values[step.Key])
		if err != nil {
			t.Fatalf("answer %s: %v", step.Key, err)
		}
		if got.Phase == wizardService.PhaseAwaitingScheduling {
			return snap.SessionID
		}
		if step.Kind != wizardService.StepKindSelect {
			if _, err := st.Next(snap.SessionID); err != nil {
				t.Fatalf("next after %s: %v", step.Key, err)
			}
		}
	}
	t.Fatal("never reached the scheduling branch")
	return ""
}

func postEvent(t *testing.T, app *fiber.App, sessionID string, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/wizard/"+sessionID+"/scheduling-event", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestSchedulingEventIgnoresOtherMessages(t *testing.T) {
	app, st := setupApp()
	sessionID := awaitingSession(t, st)

	resp := postEvent(t, app, sessionID, map[string]interface{}{
		"event": "calendly.date_and_time_selected",
	})
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	snap, err := st.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Phase != wizardService.PhaseAwaitingScheduling {
		t.Errorf("ignored event must leave the session paused, got %s", snap.Phase)
	}
	if snap.HasCalendly {
		t.Error("ignored event must not capture a link")
	}
}

func TestSchedulingEventCapturesCompletion(t *testing.T) {
	app, st := setupApp()
	sessionID := awaitingSession(t, st)

	resp := postEvent(t, app, sessionID, map[string]interface{}{
		"event": "calendly.event_scheduled",
		"payload": map[string]interface{}{
			"event": map[string]interface{}{
				"uri": "https://api.calendly.com/scheduled_events/EV1",
			},
		},
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	snap, err := st.Get(sessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Phase != wizardService.PhaseQuestions {
		t.Errorf("completion should resume the flow, got %s", snap.Phase)
	}
	if !snap.HasCalendly {
		t.Error("completion must capture the link")
	}
}

func TestSchedulingEventFallsBackToInviteeURI(t *testing.T) {
	app, st := setupApp()
	sessionID := awaitingSession(t, st)

	resp := postEvent(t, app, sessionID, map[string]interface{}{
		"event": "calendly.event_scheduled",
		"payload": map[string]interface{}{
			"invitee": map[string]interface{}{
				"uri": "https://api.calendly.com/scheduled_events/EV1/invitees/INV1",
			},
		},
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	snap, _ := st.Get(sessionID)
	if !snap.HasCalendly {
		t.Error("invitee uri should be captured when the event uri is absent")
	}
}

func TestSchedulingEventUnknownSession(t *testing.T) {
	app, _ := setupApp()

	resp := postEvent(t, app, "nope", map[string]interface{}{
		"event": "calendly.event_scheduled",
		"payload": map[string]interface{}{
			"event": map[string]interface{}{"uri": "https://api.calendly.com/scheduled_events/EV1"},
		},
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
