package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/chat"
	"github.com/nmissi-nadia/liqaaspace/internal/dashboard"
	"github.com/nmissi-nadia/liqaaspace/internal/notification"
	"github.com/nmissi-nadia/liqaaspace/internal/realtime"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
	"github.com/nmissi-nadia/liqaaspace/internal/salle"
	"github.com/nmissi-nadia/liqaaspace/internal/transport/middleware"
	"github.com/nmissi-nadia/liqaaspace/internal/transport/swagger"
	"github.com/nmissi-nadia/liqaaspace/internal/user"
)

// Handlers bundles everything the route table mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Salle        *salle.Handler
	Reservation  *reservation.Handler
	Chat         *chat.Handler
	Notification *notification.Handler
	Dashboard    *dashboard.Handler
	SSE          *realtime.SSEHandler
}

// RegisterAllRoutes mounts the API under /api/v1. Role allow-lists
// follow one rule throughout: 401 when nobody is signed in, 403 when
// somebody is but the role does not clear the route.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	deciders := []auth.Role{auth.RoleAdmin, auth.RoleResponsable}

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// the handshake endpoints manage the session cookie themselves;
		// a fresh client has no session yet
		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/csrf", h.Auth.CSRF)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/register", h.Auth.Register)
			ar.Post("/logout", h.Auth.Logout)
		})

		// authenticated by the bearer token from /broadcasting/auth,
		// not by the cookie (EventSource cannot send custom headers)
		r.Get("/broadcast/{channel}", h.SSE.Stream)

		// every route below requires an authenticated session
		r.Group(func(sr chi.Router) {
			sr.Use(h.Auth.SessionMiddleware)

			sr.Get("/users/me", h.User.GetCurrentUser)
			sr.Post("/broadcasting/auth", h.Auth.BroadcastAuth)

			// admin-only user management
			sr.Group(func(ur chi.Router) {
				ur.Use(rbac.RequireRoles(auth.RoleAdmin))
				ur.Route("/users", func(uur chi.Router) {
					uur.Get("/", h.User.ListUsers)
					uur.Post("/", h.User.CreateUser)
					uur.Get("/{id}", h.User.GetUser)
					uur.Patch("/{id}", h.User.UpdateUser)
					uur.Delete("/{id}", h.User.DeleteUser)
				})
			})

			sr.Route("/salles", func(slr chi.Router) {
				slr.Group(func(rr chi.Router) {
					rr.Use(rbac.RequireRoles(auth.KnownRoles...))
					rr.Get("/", h.Salle.ListSalles)
					rr.Get("/{id}", h.Salle.GetSalle)
				})
				slr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireRoles(deciders...))
					mr.Post("/", h.Salle.CreateSalle)
					mr.Patch("/{id}", h.Salle.UpdateSalle)
					mr.Delete("/{id}", h.Salle.DeleteSalle)
					mr.Post("/{id}/images", h.Salle.UploadImage)
					mr.Delete("/{id}/images/{imageID}", h.Salle.DeleteImage)
				})
			})

			sr.Route("/reservations", func(rr chi.Router) {
				rr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireRoles(auth.KnownRoles...))
					ar.Post("/", h.Reservation.CreateReservation)
					ar.Get("/me", h.Reservation.ListMyReservations)
					ar.Get("/{id}", h.Reservation.GetReservation)
					ar.Post("/{id}/cancel", h.Reservation.CancelReservation)
					ar.Delete("/{id}", h.Reservation.DeleteReservation)
				})
				rr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireRoles(deciders...))
					mr.Get("/", h.Reservation.ListReservations)
					mr.Get("/pending", h.Reservation.ListPendingReservations)
					mr.Patch("/{id}/approve", h.Reservation.ApproveReservation)
					mr.Patch("/{id}/reject", h.Reservation.RejectReservation)
					mr.Patch("/{id}/statut", h.Reservation.UpdateReservationStatut)
				})
			})

			sr.Route("/chat", func(cr chi.Router) {
				cr.Use(rbac.RequireRoles(auth.KnownRoles...))
				cr.Get("/messages", h.Chat.ListMessages)
				cr.Post("/messages", h.Chat.SendMessage)
			})

			sr.Route("/notifications", func(nr chi.Router) {
				nr.Use(rbac.RequireRoles(auth.KnownRoles...))
				nr.Get("/", h.Notification.ListNotifications)
				nr.Get("/unread-count", h.Notification.UnreadCount)
				nr.Post("/{id}/read", h.Notification.MarkRead)
				nr.Post("/read-all", h.Notification.MarkAllRead)
			})

			sr.Route("/dashboard", func(dr chi.Router) {
				dr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireRoles(deciders...))
					mr.Get("/stats", h.Dashboard.GetOverview)
				})
				dr.Group(func(ur chi.Router) {
					ur.Use(rbac.RequireRoles(auth.KnownRoles...))
					ur.Get("/me", h.Dashboard.GetMyStats)
				})
			})
		})
	})
}
