package lead

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	leadModel "tour-leads/models/lead"
	"tour-leads/models/profile"
	"tour-leads/models/tour"
	"tour-leads/services/destination"
	leadService "tour-leads/services/lead"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *leadService.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&profile.Profile{},
		&tour.Tour{},
		&tour.TourSchedule{},
		&leadModel.Lead{},
		&leadModel.LeadStatusEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := leadService.NewService(db, destination.NewService(db), nil, nil)
	ctl := NewLeadController(svc, nil)

	app := fiber.New()
	// stands in for the permission middleware: a verified staff token
	asStaff := func(c *fiber.Ctx) error {
		c.Locals("user", jwt.MapClaims{"uuid": "staff-1"})
		return c.Next()
	}
	admin := app.Group("/api/admin", asStaff)
	admin.Get("/leads/:id", ctl.Show)
	admin.Post("/leads", ctl.Store)
	admin.Put("/leads/:id", ctl.Update)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}

	var envelope map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

func TestStoreStampsActorAndKeepsRequestedFields(t *testing.T) {
	app, svc := setupApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/admin/leads", map[string]interface{}{
		"source":         "reseller",
		"departure_type": "none",
		"lead_type":      "Company",
		"details": map[string]interface{}{
			"schedule_call": true,
			"company":       "Acme Travel",
		},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var row leadModel.Lead
	if err := svc.DB.First(&row).Error; err != nil {
		t.Fatalf("stored lead: %v", err)
	}
	if row.CreatedBy == nil || *row.CreatedBy != "staff-1" {
		t.Errorf("created_by = %v, want the acting staff uuid", row.CreatedBy)
	}
	if row.LeadType != leadModel.LeadTypeCompany {
		t.Errorf("lead_type = %q, want Company", row.LeadType)
	}
	if row.Source != leadModel.LeadSourceReseller {
		t.Errorf("source = %s", row.Source)
	}

	var event leadModel.LeadStatusEvent
	if err := svc.DB.First(&event, "lead_id = ?", row.ID).Error; err != nil {
		t.Fatalf("status event: %v", err)
	}
	if event.CreatedBy != "staff-1" {
		t.Errorf("event created_by = %q", event.CreatedBy)
	}
}

func TestStoreRejectsUnknownLeadType(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/admin/leads", map[string]interface{}{
		"source":    "reseller",
		"lead_type": "Enterprise",
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestUpdateBreakingDepartureFamilyReturns422(t *testing.T) {
	app, svc := setupApp(t)

	fixed := "sched-1"
	row, err := svc.Insert(leadService.InsertPayload{
		Source:      leadModel.LeadSourceTourFixed,
		FixedDateID: &fixed,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, envelope := doJSON(t, app, "PUT", "/api/admin/leads/"+row.ID, map[string]interface{}{
		"departure_type": "custom",
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if envelope["message"] == "" {
		t.Error("rejection should carry the reason")
	}

	var stored leadModel.Lead
	if err := svc.DB.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.DepartureType != leadModel.DepartureTypeFixed {
		t.Errorf("departure_type = %s, rejected update must not commit", stored.DepartureType)
	}
}

func TestShowReturnsDrawerFields(t *testing.T) {
	app, svc := setupApp(t)

	row, err := svc.Insert(leadService.InsertPayload{
		Source: leadModel.LeadSourceHome,
		Details: map[string]interface{}{
			"schedule_call": true,
			"group_size":    "4 to 6",
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, envelope := doJSON(t, app, "GET", "/api/admin/leads/"+row.ID, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data = %v", envelope["data"])
	}
	fields, ok := data["detail_fields"].([]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("detail_fields = %v", data["detail_fields"])
	}

	// sorted by key: group_size then schedule_call
	first := fields[0].(map[string]interface{})
	if first["key"] != "group_size" || first["label"] != "Group Size" || first["input_type"] != "text" {
		t.Errorf("first field = %v", first)
	}
	second := fields[1].(map[string]interface{})
	if second["input_type"] != "boolean" || second["display"] != "Yes" {
		t.Errorf("second field = %v", second)
	}

	if _, ok := data["lead"].(map[string]interface{}); !ok {
		t.Errorf("lead row missing from drawer payload: %v", data)
	}
}

func TestShowUnknownLeadIs404(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/admin/leads/does-not-exist", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
