package tour

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule statuses for fixed departures
const (
	ScheduleStatusOpen      = "open"
	ScheduleStatusFull      = "full"
	ScheduleStatusCancelled = "cancelled"
)

// TourSchedule is a fixed departure window for a tour
type TourSchedule struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	TourID string `gorm:"type:uuid;not null;index" json:"tour_id"`
	Tour   Tour   `gorm:"foreignKey:TourID" json:"tour"`

	// Date-only strings (YYYY-MM-DD). EndDate is nullable for open-ended windows.
	StartDate string  `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate   *string `gorm:"type:varchar(10)" json:"end_date,omitempty"`

	Capacity *int   `gorm:"type:int" json:"capacity,omitempty"`
	Status   string `gorm:"type:varchar(20);not null;default:open" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ts *TourSchedule) BeforeCreate(tx *gorm.DB) error {
	if ts.ID == "" {
		ts.ID = uuid.NewString()
	}
	return nil
}

// TableName sets the table name for the TourSchedule model
func (TourSchedule) TableName() string {
	return "tour_schedules"
}
