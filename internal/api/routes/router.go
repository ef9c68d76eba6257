package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kruthikhak/Care-Connect/internal/api/handlers"
	"github.com/kruthikhak/Care-Connect/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every route handler
type Handlers struct {
	Search      *handlers.SearchHandler
	Hospital    *handlers.HospitalHandler
	Auth        *handlers.AuthHandler
	Appointment *handlers.AppointmentHandler
	Profile     *handlers.ProfileHandler
	Assistant   *handlers.AssistantHandler
	Feedback    *handlers.FeedbackHandler
	Review      *handlers.ReviewHandler
	Health      *handlers.HealthHandler
	Events      *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	handlers     Handlers
	auth         *middleware.Auth
	loginLimiter *middleware.LoginRateLimiter
	corsOrigins  []string
}

// NewRouter creates a new router
func NewRouter(h Handlers, auth *middleware.Auth, loginLimiter *middleware.LoginRateLimiter, corsOrigins []string) *Router {
	return &Router{
		handlers:     h,
		auth:         auth,
		loginLimiter: loginLimiter,
		corsOrigins:  corsOrigins,
	}
}

// SetupRoutes configures all application routes
func (rt *Router) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ObservabilityMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(rt.corsOrigins))

	r.Get("/health", rt.handlers.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CacheControl)

		// Event streams must reach the client unbuffered
		r.Get("/hospitals/{id}/events", rt.handlers.Events.StreamHospitalEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			rt.apiRoutes(r)
		})
	})

	return r
}

func (rt *Router) apiRoutes(r chi.Router) {
	// Public directory reads
	r.Group(func(r chi.Router) {
		r.Use(middleware.ETag)

		r.Get("/hospitals", rt.handlers.Hospital.ListHospitals)
		r.Get("/hospitals/search", rt.handlers.Search.SearchHospitals)
		r.Get("/hospitals/recommend", rt.handlers.Search.RecommendHospitals)
		r.Get("/hospitals/specialties", rt.handlers.Hospital.ListSpecialties)
		r.Get("/hospitals/types", rt.handlers.Hospital.ListTypes)
		r.Get("/hospitals/specialty/{specialty}", rt.handlers.Search.HospitalsBySpecialty)
		r.Get("/hospitals/nearby/{lat}/{lng}", rt.handlers.Search.HospitalsNearby)
		r.Get("/hospitals/nearby/{lat}/{lng}/{radius}", rt.handlers.Search.HospitalsNearby)
		r.Get("/hospitals/{id}", rt.handlers.Hospital.GetHospital)
		r.Get("/hospitals/{id}/doctors", rt.handlers.Hospital.ListHospitalDoctors)
		r.Get("/hospitals/{id}/reviews", rt.handlers.Review.ListReviews)
		r.Get("/hospitals/{id}/availability", rt.handlers.Appointment.GetAvailability)

		r.Get("/doctors/search", rt.handlers.Search.SearchDoctors)
		r.Get("/doctors/recommend", rt.handlers.Search.RecommendDoctors)
		r.Get("/doctors/{id}", rt.handlers.Hospital.GetDoctor)
		r.Get("/providers/nearby", rt.handlers.Search.SearchNearby)

		r.Get("/symptoms", rt.handlers.Assistant.ListSymptoms)
		r.Get("/chatbot/suggestions", rt.handlers.Assistant.Suggestions)
	})

	r.Post("/symptom-check", rt.handlers.Assistant.CheckSymptoms)
	r.Post("/chatbot", rt.handlers.Assistant.Chat)
	r.Post("/feedback", rt.handlers.Feedback.SubmitFeedback)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", rt.handlers.Auth.Register)
		r.With(rt.loginLimiter.Middleware).Post("/login", rt.handlers.Auth.Login)
		r.Post("/logout", rt.handlers.Auth.Logout)
		r.With(rt.auth.OptionalAuth).Get("/status", rt.handlers.Auth.Status)
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.auth.RequireAuth)

		r.Get("/appointments", rt.handlers.Appointment.ListAppointments)
		r.Post("/appointments", rt.handlers.Appointment.BookAppointment)
		r.Patch("/appointments/{id}", rt.handlers.Appointment.UpdateAppointment)

		r.Get("/profile", rt.handlers.Profile.GetProfile)
		r.Put("/profile", rt.handlers.Profile.UpdateProfile)

		r.Post("/reviews", rt.handlers.Review.CreateReview)
	})
}
