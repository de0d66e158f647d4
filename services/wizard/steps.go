package wizard

import (
	"fmt"
	"regexp"
	"strings"

	leadModel "tour-leads/models/lead"
)

// StepKind selects the widget and the validation applied to a step's value
type StepKind string

const (
	StepKindSelect    StepKind = "select"
	StepKindText      StepKind = "text"
	StepKindEmail     StepKind = "email"
	StepKindPhone     StepKind = "phone"
	StepKindParagraph StepKind = "paragraph"
)

// Canonical answers for the qualifying selects, shared with the repository's
// derivation rules
const (
	AnswerExperienceTeam        = leadModel.AnswerExperienceTeam
	AnswerExperienceFriends     = leadModel.AnswerExperienceFriends
	AnswerExperienceCelebration = leadModel.AnswerExperienceCelebration
	AnswerExperienceOther       = leadModel.AnswerExperienceOther

	AnswerScheduleYes = leadModel.AnswerScheduleYes
	AnswerScheduleNo  = leadModel.AnswerScheduleNo
)

// StepDescriptor binds one form field to its position in the flow. Steps are
// identified by Key, never by index, so the order can change safely.
type StepDescriptor struct {
	Key      string
	Kind     StepKind
	Options  []string
	Optional bool

	// ScheduleBranch marks the step whose "yes" answer suspends the linear
	// flow for the external scheduler instead of advancing.
	ScheduleBranch bool
}

// Steps returns the ordered questionnaire. The final paragraph step is
// optional: it may be empty and always allows submission.
func Steps() []StepDescriptor {
	return []StepDescriptor{
		{
			Key:  "experience_type",
			Kind: StepKindSelect,
			Options: []string{
				AnswerExperienceTeam,
				AnswerExperienceFriends,
				AnswerExperienceCelebration,
				AnswerExperienceOther,
			},
		},
		{
			Key:  "group_size",
			Kind: StepKindSelect,
			Options: []string{
				"2 to 3",
				"4 to 6",
				"7 to 10",
				"More than 10",
			},
		},
		{Key: "first_name", Kind: StepKindText},
		{Key: "last_name", Kind: StepKindText},
		{Key: "email", Kind: StepKindEmail},
		{Key: "phone", Kind: StepKindPhone},
		{
			Key:  "schedule_call",
			Kind: StepKindSelect,
			Options: []string{
				AnswerScheduleYes,
				AnswerScheduleNo,
			},
			ScheduleBranch: true,
		},
		{Key: "comments", Kind: StepKindParagraph, Optional: true},
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[+0-9][0-9\s().-]{5,}$`)
)

// ValidateValue checks a candidate value against the step's kind. An empty
// value is only acceptable on optional steps.
func (s StepDescriptor) ValidateValue(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if s.Optional {
			return nil
		}
		return fmt.Errorf("%s is required", s.Key)
	}

	switch s.Kind {
	case StepKindSelect:
		for _, opt := range s.Options {
			if value == opt {
				return nil
			}
		}
		return fmt.Errorf("%q is not an option for %s", value, s.Key)
	case StepKindEmail:
		if !emailPattern.MatchString(value) {
			return fmt.Errorf("invalid email address")
		}
	case StepKindPhone:
		if !phonePattern.MatchString(value) {
			return fmt.Errorf("invalid phone number")
		}
	}
	return nil
}
