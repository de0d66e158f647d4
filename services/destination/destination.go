package destination

import (
	"fmt"

	"tour-leads/logger"
	tourModel "tour-leads/models/tour"

	"gorm.io/gorm"
)

// labelToSlug maps the public-facing destination labels shown on marketing
// pages to canonical catalog slugs. "Other" deliberately has no mapping.
var labelToSlug = map[string]string{
	"Peruvian Amazon":             "peruvian-amazon",
	"Sacred Valley & Machu Picchu": "sacred-valley-machu-picchu",
	"Galápagos Islands":           "galapagos-islands",
	"Patagonia":                   "patagonia",
	"Atacama Desert":              "atacama-desert",
}

// Service resolves human destination labels and slugs to catalog tour ids.
// Every miss resolves to an empty id, never an error: callers treat "" as
// "no catalog linkage, keep the label as free text".
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// ResolveSlug returns the canonical slug for a public label, or "" when the
// label is "Other" or unmapped.
func (s *Service) ResolveSlug(label string) string {
	return labelToSlug[label]
}

// ResolveTourID looks a public label up in the catalog and returns the tour
// id, or "" when the label has no mapping or no catalog row matches.
func (s *Service) ResolveTourID(label string) string {
	slug := s.ResolveSlug(label)
	if slug == "" {
		return ""
	}
	return s.ResolveTourIDBySlug(slug)
}

// ResolveTourIDBySlug resolves directly from a canonical slug, used when the
// wizard was launched from a page that already knows the slug.
func (s *Service) ResolveTourIDBySlug(slug string) string {
	if slug == "" {
		return ""
	}

	var tour tourModel.Tour
	err := s.DB.Where("canonical_slug = ?", slug).First(&tour).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warning(fmt.Sprintf("Destination lookup failed for slug %s: %v", slug, err))
		}
		return ""
	}
	return tour.ID
}

// KnownLabels lists the labels the marketing pages may offer, "Other" last
func KnownLabels() []string {
	return []string{
		"Peruvian Amazon",
		"Sacred Valley & Machu Picchu",
		"Galápagos Islands",
		"Patagonia",
		"Atacama Desert",
		"Other",
	}
}
