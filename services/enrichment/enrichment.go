package enrichment

import (
	"encoding/json"
	"fmt"
	"time"

	"tour-leads/httpServices/calendly"
	"tour-leads/logger"
	leadModel "tour-leads/models/lead"
	"tour-leads/services/details"

	"gorm.io/gorm"
)

// MeetingFetcher is the slice of the Calendly client the worker needs
type MeetingFetcher interface {
	GetMeeting(eventURI string) (*calendly.Meeting, error)
}

// Job is one lead waiting for meeting backfill
type Job struct {
	LeadID   string
	EventURI string
}

// Worker backfills authoritative meeting metadata onto leads that referenced
// a scheduling event. It runs detached from the insert path: jobs flow
// through a buffered channel and every failure is logged and dropped, never
// surfaced to the submitter.
type Worker struct {
	db      *gorm.DB
	client  MeetingFetcher
	channel chan Job
}

func NewWorker(db *gorm.DB, client MeetingFetcher) *Worker {
	return &Worker{
		db:      db,
		client:  client,
		channel: make(chan Job, 100),
	}
}

// Enqueue hands a lead to the worker without blocking the caller. A full
// queue drops the job; the lead simply keeps its bare scheduling link.
func (w *Worker) Enqueue(leadID, eventURI string) {
	select {
	case w.channel <- Job{LeadID: leadID, EventURI: eventURI}:
	default:
		logger.Warning(fmt.Sprintf("Enrichment queue full, dropping job for lead %s", leadID))
	}
}

// Process drains the queue; run it as a goroutine at startup
func (w *Worker) Process() {
	logger.Info("Starting lead enrichment worker...")
	for job := range w.channel {
		if err := w.enrich(job); err != nil {
			logger.Warning(fmt.Sprintf("Enrichment failed for lead %s: %v", job.LeadID, err))
		}
	}
}

// enrich merges the calendly_meeting object into the lead's details and,
// when a join URL exists, overwrites the stored scheduling link with it.
// The details merge is shallow: keys not touched here survive unchanged.
func (w *Worker) enrich(job Job) error {
	meeting, err := w.client.GetMeeting(job.EventURI)
	if err != nil {
		return err
	}

	var row leadModel.Lead
	if err := w.db.First(&row, "id = ?", job.LeadID).Error; err != nil {
		return err
	}

	existing, err := details.Decode(row.Details)
	if err != nil {
		return fmt.Errorf("stored details are unreadable: %w", err)
	}

	meetingJSON, err := json.Marshal(meeting)
	if err != nil {
		return err
	}
	var meetingMap map[string]interface{}
	if err := json.Unmarshal(meetingJSON, &meetingMap); err != nil {
		return err
	}

	merged, err := details.Encode(details.Merge(existing, map[string]interface{}{
		"calendly_meeting": meetingMap,
	}))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"details":    merged,
		"updated_at": time.Now(),
	}
	if meeting.JoinURL != "" {
		updates["calendly_link"] = meeting.JoinURL
	}

	if err := w.db.Model(&leadModel.Lead{}).Where("id = ?", job.LeadID).Updates(updates).Error; err != nil {
		return err
	}

	logger.Success(fmt.Sprintf("Enriched lead %s with meeting %q", job.LeadID, meeting.EventName))
	return nil
}
