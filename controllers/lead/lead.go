package lead

import (
	"fmt"
	"strings"

	"tour-leads/logger"
	"tour-leads/middleware"
	leadModel "tour-leads/models/lead"
	detailsService "tour-leads/services/details"
	leadService "tour-leads/services/lead"
	"tour-leads/types"
	leadTypes "tour-leads/types/lead"
	"tour-leads/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeadController handles the admin triage and traveler lead endpoints.
// Role gating happens in the route middleware; handlers assume the caller
// is already authorized.
type LeadController struct {
	Service *leadService.Service
	Logger  *logger.AsyncLogger
}

// NewLeadController creates a new lead controller
func NewLeadController(service *leadService.Service, asyncLogger *logger.AsyncLogger) *LeadController {
	return &LeadController{
		Service: service,
		Logger:  asyncLogger,
	}
}

// ListResponse bundles the triage list with its summary counts, recomputed
// from the same rows the client receives
type ListResponse struct {
	Summary leadService.Summary `json:"summary"`
	Leads   []leadService.Row   `json:"leads"`
}

// Index returns every lead joined for the triage list
func (lc *LeadController) Index(c *fiber.Ctx) error {
	rows, err := lc.Service.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch leads", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch leads",
			Data:    ListResponse{Leads: rows},
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data: ListResponse{
			Summary: leadService.Summarize(rows),
			Leads:   rows,
		},
	})
}

// Show returns one joined row plus the drawer-ready view of its details,
// used to resync the detail drawer
func (lc *LeadController) Show(c *fiber.Ctx) error {
	row, err := lc.Service.FetchOne(c.Params("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Lead not found",
			})
		}
		logger.Error("Failed to fetch lead", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch lead",
		})
	}

	fields := []detailsService.Field{}
	if decoded, err := detailsService.Decode(row.Details); err == nil {
		fields = detailsService.Fields(decoded)
	} else {
		logger.Warning("Unreadable details for lead " + row.ID)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data: fiber.Map{
			"lead":          row,
			"detail_fields": fields,
		},
	})
}

// Store creates a lead manually on behalf of staff
func (lc *LeadController) Store(c *fiber.Ctx) error {
	var req leadTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	actor := middleware.UserUUID(c)
	payload := leadService.InsertPayload{
		Source:                 leadModel.LeadSource(req.Source),
		DepartureType:          leadModel.DepartureType(req.DepartureType),
		TourID:                 req.TourID,
		DestinationLabel:       req.DestinationLabel,
		FixedDateID:            req.FixedDateID,
		CustomDepartureDate:    req.CustomDepartureDate,
		CustomDepartureDateEnd: req.CustomDepartureDateEnd,
		LeadType:               req.LeadType,
		InternalNotes:          req.InternalNotes,
		Details:                req.Details,
	}
	if actor != "" {
		payload.CreatedBy = &actor
	}

	created, err := lc.Service.Insert(payload)
	if err != nil {
		logger.Error("Failed to create lead", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	row, err := lc.Service.FetchOne(created.ID)
	if err != nil {
		logger.Error("Lead created but failed to load joined row", err)
		return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
			Status:  fiber.StatusCreated,
			Message: "Lead created",
			Data:    created,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Lead created",
		Data:    row,
	})
}

// UpdateStatus writes only the status column, honoring the transition table
func (lc *LeadController) UpdateStatus(c *fiber.Ctx) error {
	var req leadTypes.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	row, err := lc.Service.UpdateStatus(c.Params("id"), leadModel.LeadStatus(req.Status), middleware.UserUUID(c))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Lead not found",
			})
		}
		if strings.Contains(err.Error(), "cannot move lead") {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
				Status:  fiber.StatusUnprocessableEntity,
				Message: err.Error(),
			})
		}
		logger.Error("Failed to update lead status", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update status",
		})
	}

	logger.Success(fmt.Sprintf("Lead %s moved to %s", row.ID, row.Status))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Status updated",
		Data:    row,
	})
}

// Update applies structured-field changes plus a details merge and returns
// the refetched joined row
func (lc *LeadController) Update(c *fiber.Ctx) error {
	var req leadTypes.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	row, err := lc.Service.Update(c.Params("id"), req)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Lead not found",
			})
		}
		if strings.Contains(err.Error(), "departure") {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ApiResponse{
				Status:  fiber.StatusUnprocessableEntity,
				Message: err.Error(),
			})
		}
		logger.Error("Failed to update lead", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update lead",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Lead updated",
		Data:    row,
	})
}

// Destroy removes a lead permanently
func (lc *LeadController) Destroy(c *fiber.Ctx) error {
	if err := lc.Service.Delete(c.Params("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Lead not found",
			})
		}
		logger.Error("Failed to delete lead", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete lead",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Lead deleted",
	})
}

// Own lists the authenticated traveler's submissions
func (lc *LeadController) Own(c *fiber.Ctx) error {
	travelerID := middleware.UserUUID(c)
	if travelerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User uuid not found in token",
		})
	}

	rows, err := lc.Service.FetchOwn(travelerID)
	if err != nil {
		logger.Error("Failed to fetch own leads", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch leads",
			Data:    rows,
		})
	}

	data := fiber.Map{"leads": rows}
	// profile hydration is best-effort; the list renders without it
	if p, err := utils.GetProfileByUUID(travelerID); err == nil {
		data["profile"] = p
	} else {
		logger.Warning("Failed to hydrate profile for " + travelerID)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   data,
	})
}
