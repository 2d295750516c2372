package postgres

import (
	"time"

	"gorm.io/gorm"

	notificationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/notification"
	reservationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/reservation"
	salleDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/salle"
	userDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/user"
	"github.com/nmissi-nadia/liqaaspace/internal/dashboard"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) dashboard.Repository {
	return &DashboardRepository{db: db}
}

type bucket struct {
	Key   string
	Count int64
}

func (r *DashboardRepository) CountSallesByStatut() (map[string]int64, error) {
	var rows []bucket
	err := r.db.Model(&salleDatamodel.Salle{}).
		Select("statut AS key, COUNT(*) AS count").
		Group("statut").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *DashboardRepository) CountReservationsByStatut() (map[string]int64, error) {
	var rows []bucket
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Select("statut AS key, COUNT(*) AS count").
		Group("statut").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *DashboardRepository) CountUsersByRole() (map[string]int64, error) {
	var rows []bucket
	err := r.db.Model(&userDatamodel.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *DashboardRepository) CountReservationsOn(date time.Time) (int64, error) {
	var count int64
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Where("date = ? AND statut = ?", day, reservation.StatutApprouvee).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Where("statut = ?", reservation.StatutEnAttente).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountUserReservationsByStatut(userID int64) (map[string]int64, error) {
	var rows []bucket
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Select("statut AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("statut").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *DashboardRepository) CountUserUpcoming(userID int64, from time.Time) (int64, error) {
	var count int64
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Where("user_id = ? AND date >= ? AND statut IN ?", userID, day,
			[]string{reservation.StatutEnAttente, reservation.StatutApprouvee}).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountUnreadNotifications(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func toMap(rows []bucket) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Key] = row.Count
	}
	return m
}
