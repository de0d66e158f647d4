package profile

import (
	"strings"
	"time"
)

// Roles carried on a profile. Authorization itself is enforced by the JWT
// permission middleware; the role here is joined for display only.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleTraveler = "traveler"
)

// Profile is a user record joined onto leads for display.
// The ID matches the uuid claim of the auth token.
type Profile struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string  `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string  `gorm:"type:varchar(255)" json:"last_name"`
	Email     *string `gorm:"type:varchar(255);unique" json:"email,omitempty"`
	Phone     *string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role      string  `gorm:"type:varchar(20);not null;default:traveler" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName joins the name parts, tolerating either being empty
func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// TableName sets the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
