package routes

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/handlers"
	"github.com/Dosada05/tournament-admin/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Group        *handlers.GroupHandler
	Match        *handlers.MatchHandler
	Leaderboard  *handlers.LeaderboardHandler
	WebSocket    *handlers.WebSocketHandler
	Health       *handlers.HealthHandler
}

func New(h Handlers, guard *middleware.Guard, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Metrics)
	router.Use(middleware.Gateway(guard, middleware.DefaultGatewayOptions()))

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Get("/healthz", h.Health.Healthz)

	// Публичные маршруты
	router.Route("/public", func(r chi.Router) {
		r.Get("/tournaments", h.Tournament.ListPublic)
		r.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
	})
	router.Get("/leaderboard/snapshots", h.Leaderboard.ListByTour)
	router.Get("/leaderboard/snapshots/tours", h.Leaderboard.ListTours)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.With(guard.RequireStaff).Get("/me", h.Auth.Me)
	})

	// Маршруты персонала
	router.Group(func(r chi.Router) {
		r.Use(guard.RequireStaff)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.List)
			r.Post("/", h.Tournament.Create)
			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByID)
				r.Patch("/status", h.Tournament.UpdateStatus)
				r.Put("/logo", h.Tournament.UploadLogo)
				r.Get("/registrations", h.Registration.List)
				r.Post("/registrations", h.Registration.Register)
				r.Get("/groups", h.Group.Board)
				r.Get("/matches", h.Match.ListByTournament)
			})
		})

		r.Patch("/reorder", h.Registration.Reorder)

		r.Route("/groups", func(r chi.Router) {
			r.Post("/assign", h.Group.Assign)
			r.Post("/reset", h.Group.Reset)
			r.Post("/generate-matches", h.Group.GenerateMatches)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Patch("/start", h.Match.Start)
			r.Patch("/finish", h.Match.Finish)
		})

		r.Post("/leaderboard/snapshots", h.Leaderboard.CreateSnapshot)
		r.Post("/leaderboard/tours/delete", h.Leaderboard.DeleteTour)
	})

	return router
}
