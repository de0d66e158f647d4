package utils

import (
	"fmt"

	"tour-leads/database"
	profileModel "tour-leads/models/profile"
)

// GetProfileByUUID finds the profile whose id matches an auth token uuid
func GetProfileByUUID(uuid string) (*profileModel.Profile, error) {
	if uuid == "" {
		return nil, fmt.Errorf("profile not found")
	}

	var p profileModel.Profile
	if err := database.DB.First(&p, "id = ?", uuid).Error; err != nil {
		return nil, fmt.Errorf("profile not found")
	}
	return &p, nil
}
