package database

import (
	"fmt"
	"os"

	"tour-leads/logger"
	leadModel "tour-leads/models/lead"
	logModel "tour-leads/models/log"
	profileModel "tour-leads/models/profile"
	tourModel "tour-leads/models/tour"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: rows nothing else depends on
	stage1Models := []interface{}{
		&profileModel.Profile{},
		&tourModel.Tour{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: catalog rows referencing tours
	if err := DB.AutoMigrate(&tourModel.TourSchedule{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &tourModel.TourSchedule{}, err)
	}

	// Stage 3: leads and their history
	stage3Models := []interface{}{
		&leadModel.Lead{},
		&leadModel.LeadStatusEvent{},
	}

	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Logging
	if err := DB.AutoMigrate(&logModel.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &logModel.Log{}, err)
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Lead indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)").Error; err != nil {
		return fmt.Errorf("failed to create lead status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source)").Error; err != nil {
		return fmt.Errorf("failed to create lead source index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create lead created_at index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leads_details ON leads USING GIN (details)").Error; err != nil {
		return fmt.Errorf("failed to create lead details index: %w", err)
	}

	// Tour indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_tours_canonical_slug ON tours(canonical_slug)").Error; err != nil {
		return fmt.Errorf("failed to create tour canonical_slug index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_tour_schedules_start_date ON tour_schedules(start_date)").Error; err != nil {
		return fmt.Errorf("failed to create schedule start_date index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_tour_schedules_tour",
			sql: `ALTER TABLE tour_schedules ADD CONSTRAINT fk_tour_schedules_tour
				  FOREIGN KEY (tour_id) REFERENCES tours(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_leads_tour",
			sql: `ALTER TABLE leads ADD CONSTRAINT fk_leads_tour
				  FOREIGN KEY (tour_id) REFERENCES tours(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_leads_fixed_date",
			sql: `ALTER TABLE leads ADD CONSTRAINT fk_leads_fixed_date
				  FOREIGN KEY (fixed_date_id) REFERENCES tour_schedules(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_lead_status_events_lead",
			sql: `ALTER TABLE lead_status_events ADD CONSTRAINT fk_lead_status_events_lead
				  FOREIGN KEY (lead_id) REFERENCES leads(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
