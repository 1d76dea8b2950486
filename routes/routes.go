package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/courtside/tournament-api/handlers"
	"github.com/courtside/tournament-api/metrics"
	"github.com/courtside/tournament-api/middleware"
	"github.com/courtside/tournament-api/models"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Auth        *middleware.Auth
	AuthLimiter *middleware.RateLimiter
	Collector   *metrics.Collector

	AuthHandler       *handlers.AuthHandler
	TournamentHandler *handlers.TournamentHandler
	TeamHandler       *handlers.TeamHandler
	PlayerHandler     *handlers.PlayerHandler
	CoachHandler      *handlers.CoachHandler
	DivisionHandler   *handlers.DivisionHandler
	LiveHandler       *handlers.LiveHandler
}

func InitRoutes(deps Deps) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.CollectMetrics(deps.Collector))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-api-key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Roles allowed to manage entities below a tournament.
	staffOnly := middleware.AuthorizeRoles(models.RoleAdmin, models.RoleTournamentDirector, models.RoleSiteDirector)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", deps.Collector.Handler())
	router.Get("/live/{tournamentID}", deps.LiveHandler.Serve)

	router.Route("/auth", func(r chi.Router) {
		// The only route reachable without a service key is the one
		// that hands keys out.
		r.Post("/request-api-key", deps.AuthHandler.RequestAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireAPIKey)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthLimiter.Limit)
				r.Post("/login", deps.AuthHandler.Login)
				r.Post("/register", deps.AuthHandler.Register)
			})

			r.Post("/create-session", deps.AuthHandler.CreateSession)
			r.Get("/check-session", deps.AuthHandler.CheckSession)

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.Authenticate)
				r.Post("/logout", deps.AuthHandler.Logout)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AuthorizeRoles(models.RoleAdmin))
					r.Post("/register-admin", deps.AuthHandler.RegisterAdmin)
				})

				r.Group(func(r chi.Router) {
					r.Use(staffOnly)
					r.Get("/users", deps.AuthHandler.ListUsers)
					r.Get("/users/{uid}", deps.AuthHandler.GetUser)
					r.Patch("/users/{uid}", deps.AuthHandler.UpdateUser)
					r.Delete("/users/{uid}", deps.AuthHandler.DeleteUser)
				})
			})
		})
	})

	router.Route("/tournament", func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.AuthenticateOptional)
			r.Get("/all", deps.TournamentHandler.List)
			r.Get("/locations", deps.TournamentHandler.Locations)
			r.Get("/{id}", deps.TournamentHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthorizeRoles(models.RoleAdmin, models.RoleTournamentDirector))
				r.Post("/", deps.TournamentHandler.Create)
			})

			// Staff addition authorizes against the tournament itself.
			r.Post("/{id}/staff", deps.TournamentHandler.AddStaff)

			r.Group(func(r chi.Router) {
				r.Use(staffOnly)
				r.Patch("/{id}", deps.TournamentHandler.Update)
				r.Delete("/{id}", deps.TournamentHandler.Delete)
			})
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.AuthenticateOptional)
			r.Get("/", deps.TeamHandler.List)
			r.Get("/{id}", deps.TeamHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(staffOnly)
			r.Post("/", deps.TeamHandler.Create)
			r.Patch("/{id}", deps.TeamHandler.Update)
			r.Delete("/{id}", deps.TeamHandler.Delete)
			r.Put("/{id}/logo", deps.TeamHandler.UploadLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.AuthenticateOptional)
			r.Get("/", deps.PlayerHandler.List)
			r.Get("/{id}", deps.PlayerHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(staffOnly)
			r.Post("/", deps.PlayerHandler.Create)
			r.Patch("/{id}", deps.PlayerHandler.Update)
			r.Delete("/{id}", deps.PlayerHandler.Delete)
		})
	})

	router.Route("/coaches", func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.AuthenticateOptional)
			r.Get("/", deps.CoachHandler.List)
			r.Get("/{id}", deps.CoachHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(staffOnly)
			r.Post("/", deps.CoachHandler.Create)
			r.Patch("/{id}", deps.CoachHandler.Update)
			r.Delete("/{id}", deps.CoachHandler.Delete)
		})
	})

	router.Route("/divisions", func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIKey)

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.AuthenticateOptional)
			r.Get("/", deps.DivisionHandler.ListByTournament)
			r.Get("/{id}", deps.DivisionHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Authenticate)
			r.Use(staffOnly)
			r.Post("/", deps.DivisionHandler.Create)
			r.Patch("/{id}", deps.DivisionHandler.Update)
			r.Delete("/{id}", deps.DivisionHandler.Delete)
		})
	})

	return router
}
