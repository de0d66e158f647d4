package tour

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tour is a catalog destination. Owned by the content-management side;
// this service only reads it.
type Tour struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Title string `gorm:"type:varchar(255);not null" json:"title"`

	// Slug is the human label used on marketing pages; CanonicalSlug is the
	// stable public identifier used in URLs and cross-references.
	Slug          string `gorm:"type:varchar(255);not null" json:"slug"`
	CanonicalSlug string `gorm:"type:varchar(255);not null;unique" json:"canonical_slug"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Tour) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TableName sets the table name for the Tour model
func (Tour) TableName() string {
	return "tours"
}
