// Package dashboard aggregates the per-role counters the landing page
// shows.
package dashboard

// Stats is the admin/responsable overview. Each map is one independent
// query slot.
type Stats struct {
	SallesByStatut       map[string]int64 `json:"salles_by_statut"`
	ReservationsByStatut map[string]int64 `json:"reservations_by_statut"`
	UsersByRole          map[string]int64 `json:"users_by_role,omitempty"`
	ReservationsToday    int64            `json:"reservations_today"`
	PendingCount         int64            `json:"pending_count"`
}

// UserStats is the collaborateur's personal summary.
type UserStats struct {
	ReservationsByStatut map[string]int64 `json:"reservations_by_statut"`
	UpcomingCount        int64            `json:"upcoming_count"`
	UnreadNotifications  int64            `json:"unread_notifications"`
}
