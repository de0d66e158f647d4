package tour

import (
	"tour-leads/logger"
	tourModel "tour-leads/models/tour"
	"tour-leads/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TourController serves the read-only catalog the marketing pages draw from
type TourController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewTourController creates a new tour controller
func NewTourController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *TourController {
	return &TourController{
		DB:     db,
		Logger: asyncLogger,
	}
}

// Index lists the catalog
func (tc *TourController) Index(c *fiber.Ctx) error {
	var tours []tourModel.Tour
	if err := tc.DB.Order("title ASC").Find(&tours).Error; err != nil {
		logger.Error("Failed to fetch tours", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch tours",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   tours,
	})
}

// Schedules lists a tour's open fixed departures, soonest first
func (tc *TourController) Schedules(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var tour tourModel.Tour
	if err := tc.DB.Where("canonical_slug = ?", slug).First(&tour).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Tour not found",
			})
		}
		logger.Error("Failed to fetch tour", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch tour",
		})
	}

	var schedules []tourModel.TourSchedule
	err := tc.DB.
		Where("tour_id = ? AND status = ?", tour.ID, tourModel.ScheduleStatusOpen).
		Order("start_date ASC").
		Find(&schedules).Error
	if err != nil {
		logger.Error("Failed to fetch tour schedules", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch schedules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data: fiber.Map{
			"tour":      tour,
			"schedules": schedules,
		},
	})
}
