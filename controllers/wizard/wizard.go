package wizard

import (
	"strings"

	"tour-leads/logger"
	"tour-leads/middleware"
	leadModel "tour-leads/models/lead"
	wizardService "tour-leads/services/wizard"
	"tour-leads/types"
	wizardTypes "tour-leads/types/wizard"

	"github.com/gofiber/fiber/v2"
)

// The handoff bridge only acts on this scheduler completion event
const eventScheduled = "calendly.event_scheduled"

// WizardController exposes the booking wizard session machine over HTTP
type WizardController struct {
	Store  *wizardService.Store
	Logger *logger.AsyncLogger
}

// NewWizardController creates a new wizard controller
func NewWizardController(store *wizardService.Store, asyncLogger *logger.AsyncLogger) *WizardController {
	return &WizardController{
		Store:  store,
		Logger: asyncLogger,
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}

// stepError maps a state-machine rejection onto an HTTP status
func stepError(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnprocessableEntity
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown wizard session"):
		status = fiber.StatusNotFound
	case strings.Contains(msg, "already in progress"), strings.Contains(msg, "already finished"):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: msg,
	})
}

// Open starts a fresh wizard session
func (wc *WizardController) Open(c *fiber.Ctx) error {
	var req wizardTypes.OpenRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	source := leadModel.LeadSource(req.Source)
	if !source.IsValid() {
		source = leadModel.LeadSourceUnknown
	}

	snap := wc.Store.Open(wizardService.OpenParams{
		Variant:          wizardService.Variant(req.Variant),
		Source:           source,
		TourSlug:         req.TourSlug,
		DestinationLabel: req.DestinationLabel,
		FixedDateID:      req.FixedDateID,
		TravelerID:       middleware.OptionalUserUUID(c),
	})

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Wizard session opened",
		Data:    snap,
	})
}

// Get returns the current session snapshot
func (wc *WizardController) Get(c *fiber.Ctx) error {
	snap, err := wc.Store.Get(c.Params("sessionID"))
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// Answer stores one field value on the current step
func (wc *WizardController) Answer(c *fiber.Ctx) error {
	var req wizardTypes.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	snap, err := wc.Store.Answer(c.Params("sessionID"), req.Key, req.Value)
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// Next advances one step
func (wc *WizardController) Next(c *fiber.Ctx) error {
	snap, err := wc.Store.Next(c.Params("sessionID"))
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// Previous steps back one step
func (wc *WizardController) Previous(c *fiber.Ctx) error {
	snap, err := wc.Store.Previous(c.Params("sessionID"))
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// SelectDate applies one calendar click
func (wc *WizardController) SelectDate(c *fiber.Ctx) error {
	var req wizardTypes.CalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	snap, err := wc.Store.SelectDate(c.Params("sessionID"), req.Date)
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// ContinueFromCalendar leaves the calendar once a full range is selected
func (wc *WizardController) ContinueFromCalendar(c *fiber.Ctx) error {
	snap, err := wc.Store.ContinueFromCalendar(c.Params("sessionID"))
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status: fiber.StatusOK,
		Data:   snap,
	})
}

// SchedulingEvent receives the completion message relayed from the embedded
// scheduler. Messages other than the completion event are acknowledged and
// ignored, leaving the session paused.
func (wc *WizardController) SchedulingEvent(c *fiber.Ctx) error {
	var req wizardTypes.SchedulingEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if req.Event != eventScheduled {
		return c.Status(fiber.StatusAccepted).JSON(types.ApiResponse{
			Status:  fiber.StatusAccepted,
			Message: "Event ignored",
		})
	}

	uri := ""
	if req.Payload.Event != nil && req.Payload.Event.URI != "" {
		uri = req.Payload.Event.URI
	} else if req.Payload.Invitee != nil {
		uri = req.Payload.Invitee.URI
	}

	snap, err := wc.Store.SchedulingComplete(c.Params("sessionID"), uri)
	if err != nil {
		return stepError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Scheduling captured",
		Data:    snap,
	})
}

// Submit runs the terminal insert
func (wc *WizardController) Submit(c *fiber.Ctx) error {
	snap, err := wc.Store.Submit(c.Params("sessionID"))
	if err != nil {
		return stepError(c, err)
	}

	if snap.Phase == wizardService.PhaseError {
		// committed nothing; the terminal error state carries the retry prompt
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Submission failed",
			Data:    snap,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Inquiry submitted",
		Data:    snap,
	})
}

// Close discards a session, releasing its state
func (wc *WizardController) Close(c *fiber.Ctx) error {
	wc.Store.Close(c.Params("sessionID"))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session closed",
	})
}
