package lead

import (
	"fmt"
	"time"

	"tour-leads/models/profile"
	"tour-leads/models/tour"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead represents a booking inquiry submitted through the wizard or created by staff
type Lead struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Source        LeadSource    `gorm:"type:varchar(20);not null;default:unknown" json:"source"`
	DepartureType DepartureType `gorm:"type:varchar(20);not null;default:none" json:"departure_type"`

	// Catalog linkage, both nullable: an unresolved destination stays free-text only
	TourID *string   `gorm:"type:uuid;index" json:"tour_id,omitempty"`
	Tour   *tour.Tour `gorm:"foreignKey:TourID" json:"tour,omitempty"`

	FixedDateID *string            `gorm:"type:uuid;index" json:"fixed_date_id,omitempty"`
	FixedDate   *tour.TourSchedule `gorm:"foreignKey:FixedDateID" json:"fixed_date,omitempty"`

	// Date-only strings (YYYY-MM-DD), no timezone attached
	CustomDepartureDate    *string `gorm:"type:varchar(10)" json:"custom_departure_date,omitempty"`
	CustomDepartureDateEnd *string `gorm:"type:varchar(10)" json:"custom_departure_date_end,omitempty"`

	// Scheduling reference; overwritten with the join URL once enrichment resolves it
	CalendlyLink *string `gorm:"type:varchar(2048)" json:"calendly_link,omitempty"`

	Status   LeadStatus `gorm:"type:varchar(20);not null;default:new" json:"status"`
	LeadType string     `gorm:"type:varchar(20);not null" json:"lead_type"`

	TravelerID *string          `gorm:"type:uuid;index" json:"traveler_id,omitempty"`
	Traveler   *profile.Profile `gorm:"foreignKey:TravelerID" json:"traveler,omitempty"`

	CreatedBy     *string `gorm:"type:uuid" json:"created_by,omitempty"`
	InternalNotes *string `gorm:"type:text" json:"internal_notes,omitempty"`

	// Overflow object: contact info, qualifying answers, enrichment payloads.
	// Updates must shallow-merge into this column, never replace it whole.
	Details datatypes.JSON `gorm:"type:jsonb" json:"details"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the row id when the caller did not
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ValidateDeparture enforces that exactly one departure family is populated:
// fixed requires a schedule reference and no custom dates, custom requires at
// least a start date and no schedule reference.
func (l *Lead) ValidateDeparture() error {
	switch l.DepartureType {
	case DepartureTypeFixed:
		if l.FixedDateID == nil || *l.FixedDateID == "" {
			return fmt.Errorf("fixed departure requires a fixed_date_id")
		}
		if l.CustomDepartureDate != nil || l.CustomDepartureDateEnd != nil {
			return fmt.Errorf("fixed departure must not carry custom dates")
		}
	case DepartureTypeCustom:
		if l.CustomDepartureDate == nil || *l.CustomDepartureDate == "" {
			return fmt.Errorf("custom departure requires custom_departure_date")
		}
		if l.FixedDateID != nil {
			return fmt.Errorf("custom departure must not carry a fixed_date_id")
		}
	case DepartureTypeFlexible, DepartureTypeNone:
		if l.FixedDateID != nil {
			return fmt.Errorf("%s departure must not carry a fixed_date_id", l.DepartureType)
		}
		if l.CustomDepartureDate != nil || l.CustomDepartureDateEnd != nil {
			return fmt.Errorf("%s departure must not carry custom dates", l.DepartureType)
		}
	default:
		return fmt.Errorf("unknown departure type: %s", l.DepartureType)
	}
	return nil
}

// TableName sets the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}
