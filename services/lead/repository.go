package lead

import (
	"fmt"
	"strings"
	"time"

	"tour-leads/logger"
	leadModel "tour-leads/models/lead"
	"tour-leads/services/destination"
	"tour-leads/services/details"
	leadTypes "tour-leads/types/lead"

	"gorm.io/gorm"
)

// Enricher receives leads that carry a scheduling reference. Enqueue must
// never block the insert path.
type Enricher interface {
	Enqueue(leadID, eventURI string)
}

// Summarizer receives leads whose comments deserve a triage summary
type Summarizer interface {
	Enqueue(leadID, comments string)
}

// Service is the sole boundary between the application and the leads table
type Service struct {
	DB         *gorm.DB
	Resolver   *destination.Service
	Enricher   Enricher   // optional
	Summarizer Summarizer // optional
}

func NewService(db *gorm.DB, resolver *destination.Service, enricher Enricher, summarizer Summarizer) *Service {
	return &Service{
		DB:         db,
		Resolver:   resolver,
		Enricher:   enricher,
		Summarizer: summarizer,
	}
}

// Row is one lead joined with the display fields the triage list needs
type Row struct {
	leadModel.Lead
	SubmitterName     string  `json:"submitter_name"`
	TourTitle         string  `json:"tour_title,omitempty"`
	TourCanonicalSlug string  `json:"tour_canonical_slug,omitempty"`
	ScheduleStart     *string `json:"schedule_start,omitempty"`
	ScheduleEnd       *string `json:"schedule_end,omitempty"`
	DepartureLabel    string  `json:"departure_label"`
}

func toRow(l leadModel.Lead) Row {
	row := Row{Lead: l}
	if l.Traveler != nil {
		row.SubmitterName = l.Traveler.FullName()
	}
	if l.Tour != nil {
		row.TourTitle = l.Tour.Title
		row.TourCanonicalSlug = l.Tour.CanonicalSlug
	}
	if l.FixedDate != nil {
		start := l.FixedDate.StartDate
		row.ScheduleStart = &start
		row.ScheduleEnd = l.FixedDate.EndDate
	}
	row.DepartureLabel = DepartureLabel(l.DepartureType, row.ScheduleStart, l.CustomDepartureDate, l.CustomDepartureDateEnd)
	return row
}

func (s *Service) fetchJoined(scope func(*gorm.DB) *gorm.DB) ([]Row, error) {
	var leads []leadModel.Lead
	query := s.DB.
		Preload("Traveler").
		Preload("Tour").
		Preload("FixedDate").
		Order("created_at DESC")
	if scope != nil {
		query = scope(query)
	}
	if err := query.Find(&leads).Error; err != nil {
		return []Row{}, err
	}

	rows := make([]Row, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, toRow(l))
	}
	return rows, nil
}

// FetchAll returns every lead joined with submitter, tour and schedule data,
// newest first. On error the slice is empty, never nil.
func (s *Service) FetchAll() ([]Row, error) {
	return s.fetchJoined(nil)
}

// FetchOwn returns one traveler's submissions in the same joined shape
func (s *Service) FetchOwn(travelerID string) ([]Row, error) {
	return s.fetchJoined(func(q *gorm.DB) *gorm.DB {
		return q.Where("traveler_id = ?", travelerID)
	})
}

// FetchOne returns a single joined row, used to resync the detail drawer
func (s *Service) FetchOne(id string) (*Row, error) {
	var l leadModel.Lead
	err := s.DB.
		Preload("Traveler").
		Preload("Tour").
		Preload("FixedDate").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	row := toRow(l)
	return &row, nil
}

// InsertPayload is everything the wizard (or staff) collected for one lead.
// DepartureType and LeadType are optional overrides for manual creates; when
// empty they are inferred from the dates and answers respectively. Details
// carries pre-structured values (staff creates) and is merged over whatever
// Answers produced, so non-string values survive.
type InsertPayload struct {
	Source                 leadModel.LeadSource
	DepartureType          leadModel.DepartureType
	TourID                 *string
	DestinationLabel       string
	TourSlug               string
	FixedDateID            *string
	CustomDepartureDate    *string
	CustomDepartureDateEnd *string
	CalendlyLink           *string
	LeadType               string
	TravelerID             *string
	CreatedBy              *string
	InternalNotes          *string
	Answers                map[string]string
	Details                map[string]interface{}
}

// Insert writes a structured lead row plus its overflow details. Destination
// labels and slugs are resolved to a catalog tour when possible; a resolved
// tour without dates is inferred as a flexible departure. On success the
// enrichment and summary workers are handed the row without being awaited.
func (s *Service) Insert(p InsertPayload) (*leadModel.Lead, error) {
	tourID := p.TourID
	if tourID == nil || *tourID == "" {
		var resolved string
		if p.TourSlug != "" {
			resolved = s.Resolver.ResolveTourIDBySlug(p.TourSlug)
		} else if p.DestinationLabel != "" {
			resolved = s.Resolver.ResolveTourID(p.DestinationLabel)
		}
		if resolved != "" {
			tourID = &resolved
		} else {
			tourID = nil
		}
	}

	departureType := p.DepartureType
	if departureType == "" {
		departureType = leadModel.DepartureTypeNone
		switch {
		case p.FixedDateID != nil && *p.FixedDateID != "":
			departureType = leadModel.DepartureTypeFixed
		case p.CustomDepartureDate != nil && *p.CustomDepartureDate != "":
			departureType = leadModel.DepartureTypeCustom
		case tourID != nil:
			departureType = leadModel.DepartureTypeFlexible
		}
	}

	detailsMap := map[string]interface{}{}
	if len(p.Answers) > 0 {
		detailsMap = BuildDetails(p.Answers)
	}
	if len(p.Details) > 0 {
		detailsMap = details.Merge(detailsMap, p.Details)
	}
	if p.DestinationLabel != "" && tourID == nil {
		// keep the unresolved destination as free text
		detailsMap["destination"] = p.DestinationLabel
	}
	raw, err := details.Encode(detailsMap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode details: %w", err)
	}

	source := p.Source
	if source == "" {
		source = leadModel.LeadSourceUnknown
	}

	leadType := p.LeadType
	if leadType == "" {
		experience := p.Answers["experience_type"]
		if experience == "" {
			if s, ok := p.Details["experience_type"].(string); ok {
				experience = s
			}
		}
		leadType = DeriveLeadType(experience)
	}

	row := leadModel.Lead{
		Source:                 source,
		DepartureType:          departureType,
		TourID:                 tourID,
		FixedDateID:            p.FixedDateID,
		CustomDepartureDate:    p.CustomDepartureDate,
		CustomDepartureDateEnd: p.CustomDepartureDateEnd,
		CalendlyLink:           p.CalendlyLink,
		Status:                 leadModel.LeadStatusNew,
		LeadType:               leadType,
		TravelerID:             p.TravelerID,
		CreatedBy:              p.CreatedBy,
		InternalNotes:          p.InternalNotes,
		Details:                raw,
	}

	if err := row.ValidateDeparture(); err != nil {
		return nil, err
	}

	actor := "wizard"
	if p.CreatedBy != nil && *p.CreatedBy != "" {
		actor = *p.CreatedBy
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			logger.Error("Failed to create lead", err)
			return err
		}

		event := leadModel.LeadStatusEvent{
			LeadID:    row.ID,
			ToStatus:  leadModel.LeadStatusNew,
			CreatedBy: actor,
		}
		if err := tx.Create(&event).Error; err != nil {
			logger.Error("Failed to create lead status event", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Lead created successfully with ID: %s", row.ID))

	// Detached best-effort work; failures never reach the submitter.
	if s.Enricher != nil && p.CalendlyLink != nil && *p.CalendlyLink != "" {
		s.Enricher.Enqueue(row.ID, *p.CalendlyLink)
	}
	if s.Summarizer != nil {
		if comments := strings.TrimSpace(p.Answers["comments"]); comments != "" {
			s.Summarizer.Enqueue(row.ID, comments)
		}
	}

	return &row, nil
}

// UpdateStatus writes only the status column plus the updated timestamp,
// rejecting transitions the triage table does not allow, and appends a
// status event.
func (s *Service) UpdateStatus(id string, to leadModel.LeadStatus, actor string) (*leadModel.Lead, error) {
	var row leadModel.Lead
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if !leadModel.CanTransition(row.Status, to) {
		return nil, fmt.Errorf("cannot move lead from %s to %s", row.Status, to)
	}

	from := row.Status
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		}
		if err := tx.Model(&leadModel.Lead{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		event := leadModel.LeadStatusEvent{
			LeadID:     id,
			FromStatus: from,
			ToStatus:   to,
			CreatedBy:  actor,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to update status for lead %s", id), err)
		return nil, err
	}

	row.Status = to
	return &row, nil
}

// Update applies structured-field changes and shallow-merges the optional
// details fragment over the stored details, then refetches the joined row so
// derived display fields are rebuilt from committed state. The merged row
// must still satisfy the departure invariant before anything is written.
func (s *Service) Update(id string, req leadTypes.UpdateRequest) (*Row, error) {
	var row leadModel.Lead
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}

	next := row
	if req.DepartureType != nil {
		next.DepartureType = leadModel.DepartureType(*req.DepartureType)
	}
	if req.FixedDateID != nil {
		next.FixedDateID = optional(*req.FixedDateID)
	}
	if req.CustomDepartureDate != nil {
		next.CustomDepartureDate = optional(*req.CustomDepartureDate)
	}
	if req.CustomDepartureDateEnd != nil {
		next.CustomDepartureDateEnd = optional(*req.CustomDepartureDateEnd)
	}
	if err := next.ValidateDeparture(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.DepartureType != nil {
		updates["departure_type"] = *req.DepartureType
	}
	if req.TourID != nil {
		updates["tour_id"] = nullable(*req.TourID)
	}
	if req.FixedDateID != nil {
		updates["fixed_date_id"] = nullable(*req.FixedDateID)
	}
	if req.CustomDepartureDate != nil {
		updates["custom_departure_date"] = nullable(*req.CustomDepartureDate)
	}
	if req.CustomDepartureDateEnd != nil {
		updates["custom_departure_date_end"] = nullable(*req.CustomDepartureDateEnd)
	}
	if req.LeadType != nil {
		updates["lead_type"] = *req.LeadType
	}
	if req.InternalNotes != nil {
		updates["internal_notes"] = *req.InternalNotes
	}

	if len(req.DetailsMerge) > 0 {
		existing, err := details.Decode(row.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored details: %w", err)
		}
		merged, err := details.Encode(details.Merge(existing, req.DetailsMerge))
		if err != nil {
			return nil, fmt.Errorf("failed to encode merged details: %w", err)
		}
		updates["details"] = merged
	}

	if err := s.DB.Model(&leadModel.Lead{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to update lead %s", id), err)
		return nil, err
	}

	return s.FetchOne(id)
}

// Delete removes the row permanently; an explicit staff action
func (s *Service) Delete(id string) error {
	result := s.DB.Where("id = ?", id).Delete(&leadModel.Lead{})
	if result.Error != nil {
		logger.Error(fmt.Sprintf("Failed to delete lead %s", id), result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// nullable maps "" to SQL NULL so clearing a reference works through Updates
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// optional maps "" to a nil pointer, mirroring nullable for in-memory rows
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
