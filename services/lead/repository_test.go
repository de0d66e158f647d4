package lead

import (
	"fmt"
	"strings"
	"testing"

	leadModel "tour-leads/models/lead"
	"tour-leads/models/profile"
	"tour-leads/models/tour"
	"tour-leads/services/destination"
	"tour-leads/services/details"
	leadTypes "tour-leads/types/lead"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newTestService(t *testing.T) *Service {
	db := openTestDB(t)
	return NewService(db, destination.NewService(db), nil, nil)
}

func seedFixedLead(t *testing.T, svc *Service) *leadModel.Lead {
	t.Helper()
	fixed := "sched-1"
	row, err := svc.Insert(InsertPayload{
		Source:      leadModel.LeadSourceTourFixed,
		FixedDateID: &fixed,
		Answers: map[string]string{
			"experience_type": leadModel.AnswerExperienceFriends,
			"first_name":      "Ana",
			"schedule_call":   leadModel.AnswerScheduleNo,
		},
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return row
}

func TestUpdateRejectsBrokenDepartureFamily(t *testing.T) {
	svc := newTestService(t)
	row := seedFixedLead(t, svc)

	// switching the type alone would leave a fixed_date_id on a custom lead
	departureType := string(leadModel.DepartureTypeCustom)
	_, err := svc.Update(row.ID, leadTypes.UpdateRequest{DepartureType: &departureType})
	if err == nil {
		t.Fatal("update breaking the departure family must be rejected")
	}
	if !strings.Contains(err.Error(), "departure") {
		t.Errorf("unexpected error: %v", err)
	}

	var stored leadModel.Lead
	if err := svc.DB.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if stored.DepartureType != leadModel.DepartureTypeFixed {
		t.Errorf("departure_type = %s, rejected update must commit nothing", stored.DepartureType)
	}
	if err := stored.ValidateDeparture(); err != nil {
		t.Errorf("stored row no longer valid: %v", err)
	}
}

func TestUpdateSwitchesDepartureFamilyWhole(t *testing.T) {
	svc := newTestService(t)
	row := seedFixedLead(t, svc)

	departureType := string(leadModel.DepartureTypeCustom)
	clear := ""
	start := "2026-07-10"
	updated, err := svc.Update(row.ID, leadTypes.UpdateRequest{
		DepartureType:       &departureType,
		FixedDateID:         &clear,
		CustomDepartureDate: &start,
	})
	if err != nil {
		t.Fatalf("whole-family switch should pass: %v", err)
	}

	if updated.DepartureType != leadModel.DepartureTypeCustom {
		t.Errorf("departure_type = %s", updated.DepartureType)
	}
	if updated.FixedDateID != nil {
		t.Errorf("fixed_date_id should be cleared, got %v", *updated.FixedDateID)
	}
	if updated.CustomDepartureDate == nil || *updated.CustomDepartureDate != start {
		t.Errorf("custom_departure_date = %v", updated.CustomDepartureDate)
	}
	if err := updated.ValidateDeparture(); err != nil {
		t.Errorf("updated row invalid: %v", err)
	}
}

func TestUpdateMergesDetailsFragment(t *testing.T) {
	svc := newTestService(t)
	row := seedFixedLead(t, svc)

	updated, err := svc.Update(row.ID, leadTypes.UpdateRequest{
		DetailsMerge: map[string]interface{}{"group_size": "7 to 10"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	decoded, err := details.Decode(updated.Details)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["group_size"] != "7 to 10" {
		t.Errorf("group_size = %v", decoded["group_size"])
	}
	// keys absent from the fragment survive the merge
	if decoded["first_name"] != "Ana" {
		t.Errorf("first_name = %v, merge must not drop stored keys", decoded["first_name"])
	}
}

func TestInsertManualCreateHonorsOverrides(t *testing.T) {
	svc := newTestService(t)

	actor := "staff-1"
	row, err := svc.Insert(InsertPayload{
		Source:        leadModel.LeadSourceReseller,
		DepartureType: leadModel.DepartureTypeNone,
		LeadType:      leadModel.LeadTypeCompany,
		CreatedBy:     &actor,
		Details: map[string]interface{}{
			"schedule_call": true,
			"budget":        1500,
			"company":       "Acme Travel",
		},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if row.LeadType != leadModel.LeadTypeCompany {
		t.Errorf("lead_type = %q, the requested type must not be re-derived", row.LeadType)
	}
	if row.DepartureType != leadModel.DepartureTypeNone {
		t.Errorf("departure_type = %s", row.DepartureType)
	}
	if row.CreatedBy == nil || *row.CreatedBy != actor {
		t.Errorf("created_by = %v", row.CreatedBy)
	}

	decoded, err := details.Decode(row.Details)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["schedule_call"] != true {
		t.Errorf("schedule_call = %v (%T), boolean detail must survive", decoded["schedule_call"], decoded["schedule_call"])
	}
	if decoded["budget"] != float64(1500) {
		t.Errorf("budget = %v (%T), numeric detail must survive", decoded["budget"], decoded["budget"])
	}
	if decoded["company"] != "Acme Travel" {
		t.Errorf("company = %v", decoded["company"])
	}

	var event leadModel.LeadStatusEvent
	if err := svc.DB.First(&event, "lead_id = ?", row.ID).Error; err != nil {
		t.Fatalf("status event missing: %v", err)
	}
	if event.ToStatus != leadModel.LeadStatusNew || event.CreatedBy != actor {
		t.Errorf("event = %+v", event)
	}
}

func TestInsertWizardAnswersStillDeriveType(t *testing.T) {
	svc := newTestService(t)

	row, err := svc.Insert(InsertPayload{
		Source: leadModel.LeadSourceHome,
		Answers: map[string]string{
			"experience_type": leadModel.AnswerExperienceTeam,
			"schedule_call":   leadModel.AnswerScheduleNo,
		},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if row.LeadType != leadModel.LeadTypeCompany {
		t.Errorf("lead_type = %q, team answers derive a company lead", row.LeadType)
	}
	if row.DepartureType != leadModel.DepartureTypeNone {
		t.Errorf("departure_type = %s", row.DepartureType)
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	svc := newTestService(t)
	row := seedFixedLead(t, svc)

	if _, err := svc.UpdateStatus(row.ID, leadModel.LeadStatusCompleted, "staff-1"); err == nil {
		t.Fatal("new -> completed is not an allowed move")
	}

	moved, err := svc.UpdateStatus(row.ID, leadModel.LeadStatusInProgress, "staff-1")
	if err != nil {
		t.Fatalf("new -> in_progress: %v", err)
	}
	if moved.Status != leadModel.LeadStatusInProgress {
		t.Errorf("status = %s", moved.Status)
	}

	var events []leadModel.LeadStatusEvent
	if err := svc.DB.Where("lead_id = ?", row.ID).Order("id").Find(&events).Error; err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected creation + move events, got %d", len(events))
	}
	last := events[len(events)-1]
	if last.FromStatus != leadModel.LeadStatusNew || last.ToStatus != leadModel.LeadStatusInProgress {
		t.Errorf("move event = %+v", last)
	}
}
