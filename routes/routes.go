package routes

import (
	"os"

	"tour-leads/constants"
	leadController "tour-leads/controllers/lead"
	tourController "tour-leads/controllers/tour"
	wizardController "tour-leads/controllers/wizard"
	"tour-leads/httpServices/calendly"
	"tour-leads/logger"
	"tour-leads/middleware"
	destinationService "tour-leads/services/destination"
	enrichmentService "tour-leads/services/enrichment"
	insightService "tour-leads/services/insight"
	leadService "tour-leads/services/lead"
	wizardService "tour-leads/services/wizard"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	calendlyClient := calendly.NewClient(os.Getenv("CALENDLY_API_BASE"), os.Getenv("CALENDLY_API_TOKEN"))
	enricher := enrichmentService.NewWorker(db, calendlyClient)

	var summarizer leadService.Summarizer
	if insightService.Enabled() {
		worker := insightService.NewWorker(db)
		go worker.Process()
		summarizer = worker
	} else {
		logger.Info("GEMINI_API_KEY not set, lead insight disabled")
	}

	resolver := destinationService.NewService(db)
	leads := leadService.NewService(db, resolver, enricher, summarizer)
	wizardStore := wizardService.NewStore(leads)

	wizardCtl := wizardController.NewWizardController(wizardStore, asyncLogger)
	leadCtl := leadController.NewLeadController(leads, asyncLogger)
	tourCtl := tourController.NewTourController(db, asyncLogger)

	// Start the detached workers
	go asyncLogger.ProcessLog()
	go enricher.Process()

	app.Use(middleware.RequestLogger(asyncLogger))

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "tour-leads",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")

	api.Get("/tours", tourCtl.Index)
	api.Get("/tours/:slug/schedules", tourCtl.Schedules)

	/*=============================================================================
	| Booking Wizard Routes
	===============================================================================*/
	wizard := api.Group("/wizard")

	wizard.Post("/open", wizardCtl.Open)
	wizard.Get("/:sessionID", wizardCtl.Get)
	wizard.Post("/:sessionID/answer", wizardCtl.Answer)
	wizard.Post("/:sessionID/next", wizardCtl.Next)
	wizard.Post("/:sessionID/previous", wizardCtl.Previous)
	wizard.Post("/:sessionID/calendar", wizardCtl.SelectDate)
	wizard.Post("/:sessionID/calendar/continue", wizardCtl.ContinueFromCalendar)
	wizard.Post("/:sessionID/scheduling-event", wizardCtl.SchedulingEvent)
	wizard.Post("/:sessionID/submit", wizardCtl.Submit)
	wizard.Delete("/:sessionID", wizardCtl.Close)

	/*=============================================================================
	| Traveler Routes
	===============================================================================*/
	// any valid token may list its own submissions; Own scopes by subject uuid
	my := api.Group("/my").Use(middleware.RequireAuthentication())
	my.Get("/leads", leadCtl.Own)

	/*=============================================================================
	| Admin Triage Routes
	===============================================================================*/
	admin := api.Group("/admin").Use(middleware.RequirePermissions(
		constants.TriagePermissions...,
	))

	admin.Get("/leads", leadCtl.Index)
	admin.Post("/leads", leadCtl.Store)
	admin.Get("/leads/:id", leadCtl.Show)
	admin.Patch("/leads/:id/status", leadCtl.UpdateStatus)
	admin.Put("/leads/:id", leadCtl.Update)
	admin.Delete("/leads/:id", leadCtl.Destroy)
}
