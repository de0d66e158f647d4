package wizard

import (
	"fmt"
	"sync"
	"time"

	"tour-leads/logger"
	leadModel "tour-leads/models/lead"
	leadService "tour-leads/services/lead"

	"github.com/google/uuid"
)

// Phase is where a session sits in the flow. Success and error are terminal
// until a fresh Open.
type Phase string

const (
	PhaseCalendar           Phase = "calendar"
	PhaseQuestions          Phase = "questions"
	PhaseAwaitingScheduling Phase = "awaiting_scheduling"
	PhaseSubmitting         Phase = "submitting"
	PhaseSuccess            Phase = "success"
	PhaseError              Phase = "error"
)

// Variant selects how the wizard was entered
type Variant string

const (
	// VariantFixed means a departure schedule was already chosen on the page
	VariantFixed Variant = "fixed"
	// VariantCustom means the traveler picks a date range inside the wizard
	VariantCustom Variant = "custom"
)

// Inserter is the repository half the wizard needs
type Inserter interface {
	Insert(p leadService.InsertPayload) (*leadModel.Lead, error)
}

// Session holds one modal instance's collected state. It is private to that
// instance and discarded on close; reopening always builds a fresh one.
type Session struct {
	ID               string
	Variant          Variant
	Source           leadModel.LeadSource
	TourSlug         string
	DestinationLabel string
	FixedDateID      string
	TravelerID       string

	Phase     Phase
	StepIndex int
	Answers   map[string]string
	Range     DateRange

	// CalendlyLink is the correlating URI captured from the scheduler handoff
	CalendlyLink string
	ErrorMessage string
	LeadID       string

	CreatedAt time.Time
}

// Sessions older than this are pruned on the next Open
const sessionTTL = 24 * time.Hour

// Store keeps live wizard sessions in memory. All transitions for one
// session run under the store lock, so steps never process concurrently.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	inserter Inserter
	steps    []StepDescriptor
}

func NewStore(inserter Inserter) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		inserter: inserter,
		steps:    Steps(),
	}
}

// OpenParams captures the entry context of the wizard
type OpenParams struct {
	Variant          Variant
	Source           leadModel.LeadSource
	TourSlug         string
	DestinationLabel string
	FixedDateID      string
	TravelerID       string
}

// Open creates a fresh session with all step and form state at initial
// values, regardless of any prior session.
func (st *Store) Open(p OpenParams) *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()

	phase := PhaseQuestions
	if p.Variant == VariantCustom {
		phase = PhaseCalendar
	}

	s := &Session{
		ID:               uuid.NewString(),
		Variant:          p.Variant,
		Source:           p.Source,
		TourSlug:         p.TourSlug,
		DestinationLabel: p.DestinationLabel,
		FixedDateID:      p.FixedDateID,
		TravelerID:       p.TravelerID,
		Phase:            phase,
		StepIndex:        0,
		Answers:          make(map[string]string),
		CreatedAt:        time.Now(),
	}
	st.sessions[s.ID] = s
	return st.snapshotLocked(s)
}

// Close discards a session
func (st *Store) Close(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Get returns the current snapshot of a session
func (st *Store) Get(id string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	return st.snapshotLocked(s), nil
}

// Answer stores a value on the current step. Select answers auto-advance the
// way a click does; the scheduling branch suspends instead of advancing on
// "yes". Text-like steps store only, the client drives Next.
func (st *Store) Answer(id, key, value string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseQuestions {
		return nil, fmt.Errorf("session is not accepting answers in phase %s", s.Phase)
	}

	step := st.steps[s.StepIndex]
	if key != step.Key {
		return nil, fmt.Errorf("expected answer for %s, got %s", step.Key, key)
	}
	if err := step.ValidateValue(value); err != nil {
		return nil, err
	}
	s.Answers[key] = value

	if step.Kind == StepKindSelect {
		if step.ScheduleBranch && value == AnswerScheduleYes {
			s.Phase = PhaseAwaitingScheduling
		} else {
			st.advanceLocked(s)
		}
	}
	return st.snapshotLocked(s), nil
}

// Next advances one step when the current field holds a valid value
func (st *Store) Next(id string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseQuestions {
		return nil, fmt.Errorf("cannot advance in phase %s", s.Phase)
	}

	step := st.steps[s.StepIndex]
	if err := step.ValidateValue(s.Answers[step.Key]); err != nil {
		return nil, err
	}
	if step.ScheduleBranch && s.Answers[step.Key] == AnswerScheduleYes && s.CalendlyLink == "" {
		s.Phase = PhaseAwaitingScheduling
		return st.snapshotLocked(s), nil
	}
	st.advanceLocked(s)
	return st.snapshotLocked(s), nil
}

// Previous steps back one index; from the first question of the custom
// variant it returns to the calendar.
func (st *Store) Previous(id string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}

	switch s.Phase {
	case PhaseAwaitingScheduling:
		// closing the overlay steps back onto the branching question
		s.Phase = PhaseQuestions
	case PhaseQuestions:
		if s.StepIndex > 0 {
			s.StepIndex--
		} else if s.Variant == VariantCustom {
			s.Phase = PhaseCalendar
		}
	default:
		return nil, fmt.Errorf("cannot step back in phase %s", s.Phase)
	}
	return st.snapshotLocked(s), nil
}

// SelectDate applies one calendar click to the custom variant's range
func (st *Store) SelectDate(id, date string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseCalendar {
		return nil, fmt.Errorf("session is not on the calendar step")
	}

	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}
	s.Range.Select(day, Today())
	return st.snapshotLocked(s), nil
}

// ContinueFromCalendar leaves the calendar step; only a full range unlocks it
func (st *Store) ContinueFromCalendar(id string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseCalendar {
		return nil, fmt.Errorf("session is not on the calendar step")
	}
	if !s.Range.Complete() {
		return nil, fmt.Errorf("select a start and end date first")
	}
	s.Phase = PhaseQuestions
	return st.snapshotLocked(s), nil
}

// SchedulingComplete stores the correlating URI captured from the external
// scheduler and resumes the linear flow as if "yes" had advanced normally.
func (st *Store) SchedulingComplete(id, eventURI string) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, err := st.sessionLocked(id)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseAwaitingScheduling {
		return nil, fmt.Errorf("session is not awaiting scheduling")
	}
	if eventURI == "" {
		return nil, fmt.Errorf("scheduling event carried no reference")
	}

	s.CalendlyLink = eventURI
	s.Answers["schedule_call"] = AnswerScheduleYes
	s.Phase = PhaseQuestions
	st.advanceLocked(s)
	return st.snapshotLocked(s), nil
}

// Submit builds the insert payload from everything collected and runs the
// repository insert. The phase moves to submitting for the duration, so a
// duplicate submit is rejected; success and error are both terminal.
func (st *Store) Submit(id string) (*Snapshot, error) {
	st.mu.Lock()
	s, err := st.sessionLocked(id)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}

	switch s.Phase {
	case PhaseSubmitting:
		st.mu.Unlock()
		return nil, fmt.Errorf("submission already in progress")
	case PhaseSuccess, PhaseError:
		st.mu.Unlock()
		return nil, fmt.Errorf("session already finished; reopen the wizard")
	case PhaseQuestions:
		// must be standing on the final step
		if s.StepIndex != len(st.steps)-1 {
			st.mu.Unlock()
			return nil, fmt.Errorf("not on the final step")
		}
	default:
		st.mu.Unlock()
		return nil, fmt.Errorf("cannot submit in phase %s", s.Phase)
	}

	for _, step := range st.steps {
		if err := step.ValidateValue(s.Answers[step.Key]); err != nil {
			st.mu.Unlock()
			return nil, err
		}
	}

	payload := st.buildPayloadLocked(s)
	s.Phase = PhaseSubmitting
	st.mu.Unlock()

	// Insert runs outside the lock so other sessions stay responsive.
	created, insertErr := st.inserter.Insert(payload)

	st.mu.Lock()
	defer st.mu.Unlock()
	if insertErr != nil {
		logger.Error(fmt.Sprintf("Wizard submission failed for session %s", s.ID), insertErr)
		s.Phase = PhaseError
		s.ErrorMessage = insertErr.Error()
	} else {
		s.Phase = PhaseSuccess
		s.LeadID = created.ID
	}
	return st.snapshotLocked(s), nil
}

func (st *Store) buildPayloadLocked(s *Session) leadService.InsertPayload {
	p := leadService.InsertPayload{
		Source:           s.Source,
		TourSlug:         s.TourSlug,
		DestinationLabel: s.DestinationLabel,
		Answers:          make(map[string]string, len(s.Answers)),
	}
	for k, v := range s.Answers {
		p.Answers[k] = v
	}
	if s.FixedDateID != "" {
		fixedID := s.FixedDateID
		p.FixedDateID = &fixedID
	}
	if s.Variant == VariantCustom && s.Range.Complete() {
		start := s.Range.StartString()
		end := s.Range.EndString()
		p.CustomDepartureDate = &start
		p.CustomDepartureDateEnd = &end
	}
	if s.CalendlyLink != "" {
		link := s.CalendlyLink
		p.CalendlyLink = &link
	}
	if s.TravelerID != "" {
		traveler := s.TravelerID
		p.TravelerID = &traveler
	}
	return p
}

func (st *Store) advanceLocked(s *Session) {
	if s.StepIndex < len(st.steps)-1 {
		s.StepIndex++
	}
}

func (st *Store) sessionLocked(id string) (*Session, error) {
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown wizard session: %s", id)
	}
	return s, nil
}

func (st *Store) pruneLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, s := range st.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}

// StepView is the serializable shape of one step descriptor
type StepView struct {
	Key            string   `json:"key"`
	Kind           StepKind `json:"kind"`
	Options        []string `json:"options,omitempty"`
	Optional       bool     `json:"optional"`
	ScheduleBranch bool     `json:"schedule_branch"`
}

// Snapshot is the client-facing view of one session
type Snapshot struct {
	SessionID     string            `json:"session_id"`
	Variant       Variant           `json:"variant"`
	Phase         Phase             `json:"phase"`
	StepIndex     int               `json:"step_index"`
	StepCount     int               `json:"step_count"`
	CurrentStep   *StepView         `json:"current_step,omitempty"`
	Answers       map[string]string `json:"answers"`
	RangeStart    string            `json:"range_start,omitempty"`
	RangeEnd      string            `json:"range_end,omitempty"`
	RangeComplete bool              `json:"range_complete"`
	HasCalendly   bool              `json:"has_calendly_link"`
	LeadID        string            `json:"lead_id,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
}

func (st *Store) snapshotLocked(s *Session) *Snapshot {
	snap := &Snapshot{
		SessionID:     s.ID,
		Variant:       s.Variant,
		Phase:         s.Phase,
		StepIndex:     s.StepIndex,
		StepCount:     len(st.steps),
		Answers:       make(map[string]string, len(s.Answers)),
		RangeStart:    s.Range.StartString(),
		RangeEnd:      s.Range.EndString(),
		RangeComplete: s.Range.Complete(),
		HasCalendly:   s.CalendlyLink != "",
		LeadID:        s.LeadID,
		ErrorMessage:  s.ErrorMessage,
	}
	for k, v := range s.Answers {
		snap.Answers[k] = v
	}
	if s.Phase == PhaseQuestions || s.Phase == PhaseAwaitingScheduling {
		step := st.steps[s.StepIndex]
		snap.CurrentStep = &StepView{
			Key:            step.Key,
			Kind:           step.Kind,
			Options:        step.Options,
			Optional:       step.Optional,
			ScheduleBranch: step.ScheduleBranch,
		}
	}
	return snap
}
