package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lawdesk/internal/http/middleware"
	"lawdesk/internal/notify"
	"lawdesk/internal/service"
	"lawdesk/internal/session"
)

// Deps holds everything the routes are served from.
type Deps struct {
	DB            *sql.DB
	Backend       BackendStatus
	Metrics       prometheus.Gatherer
	Session       *session.Manager
	Cases         *service.CaseService
	Appointments  *service.AppointmentService
	Documents     *service.DocumentService
	Tickets       *service.TicketService
	Notifications *notify.Center
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Probes and /metrics are always reachable; /api answers 503 until the session is rehydrated.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.Backend))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", middleware.PersistGate(d.Session.Ready()))

	api.Get("/session", GetSession(d.Session))
	api.Post("/session", Login(d.Session))
	api.Delete("/session", Logout(d.Session))

	forms := map[string]FormScreen{
		"case":        d.Cases,
		"appointment": d.Appointments,
		"ticket":      d.Tickets,
	}
	api.Get("/forms/:name", GetForm(forms))
	api.Put("/forms/:name", SetFormValues(forms))
	api.Delete("/forms/:name", ResetForm(forms))
	api.Post("/forms/:name/submit", SubmitForm(forms))

	api.Get("/cases", ListCases(d.Cases))
	api.Get("/cases/:id", GetCase(d.Cases))
	api.Delete("/cases/:id", DeleteCase(d.Cases))

	api.Get("/documents", ListDocuments(d.Documents))
	api.Post("/documents", UploadDocument(d.Documents))
	api.Post("/documents/template", CreateDocumentFromTemplate(d.Documents))
	api.Put("/documents/:id", UpdateDocument(d.Documents))
	api.Delete("/documents/:id", DeleteDocument(d.Documents))
	api.Get("/reports/documents", DocumentReport(d.Documents))

	api.Get("/appointments", ListAppointments(d.Appointments))
	api.Patch("/appointments/:id", UpdateAppointmentStatus(d.Appointments))
	api.Delete("/appointments/:id", DeleteAppointment(d.Appointments))
	api.Get("/lawyers", ListLawyers(d.Appointments))

	api.Get("/tickets", ListTickets(d.Tickets))
	api.Patch("/tickets/:id", UpdateTicketStatus(d.Tickets))

	api.Get("/templates", ListTemplates())
	api.Get("/templates/:name", GetTemplate())

	api.Get("/notifications", ListNotifications(d.Notifications))
	api.Delete("/notifications/:id", DismissNotification(d.Notifications))
}
