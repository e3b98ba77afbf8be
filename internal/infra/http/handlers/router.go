package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xavierca1/agency-backoffice/internal/infra/http/middleware"
)

type Handlers struct {
	Projects   *ProjectHandler
	Leads      *LeadHandler
	Newsletter *NewsletterHandler
	Outreach   *OutreachHandler
	Chatbot    *ChatbotHandler
	Health     *HealthHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	AdminSecret    string
	// OpenAdmin serves the back office without credentials. Local use only.
	OpenAdmin bool
	// Quiet drops the per-request access log.
	Quiet bool
}

func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Method(http.MethodGet, "/metrics", middleware.Handler())

	// Public site.
	r.Get("/projects", h.Projects.List)
	r.Get("/projects/{slug}", h.Projects.GetBySlug)
	r.Post("/leads", h.Leads.Create)
	r.Post("/contact", h.Leads.Contact)
	r.Post("/newsletter", h.Newsletter.Subscribe)
	r.Post("/newsletter/unsubscribe", h.Newsletter.Unsubscribe)
	r.Post("/chatbot", h.Chatbot.Handle)

	// Back office.
	r.Group(func(r chi.Router) {
		if !opts.OpenAdmin {
			r.Use(middleware.AdminOnly(opts.AdminSecret))
		}

		r.Post("/projects", h.Projects.Create)
		r.Put("/projects", h.Projects.Update)
		r.Delete("/projects", h.Projects.Delete)

		r.Get("/leads", h.Leads.List)
		r.Put("/leads", h.Leads.Update)
		r.Delete("/leads", h.Leads.Delete)

		r.Get("/newsletter/subscribers", h.Newsletter.Subscribers)

		r.Get("/outreach/templates", h.Outreach.Templates)
		r.Post("/outreach", h.Outreach.Send)
		r.Post("/outreach/bulk", h.Outreach.Bulk)
	})

	return r
}
