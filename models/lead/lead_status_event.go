package lead

import (
	"time"
)

// LeadStatusEvent records one triage status change for a lead
type LeadStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for lead relationship
	LeadID string `gorm:"type:uuid;not null;index" json:"lead_id"`
	Lead   Lead   `gorm:"foreignKey:LeadID" json:"lead"`

	FromStatus LeadStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   LeadStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	CreatedBy  string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the LeadStatusEvent model
func (LeadStatusEvent) TableName() string {
	return "lead_status_events"
}
