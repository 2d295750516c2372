package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	reservationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/reservation"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(res *reservation.Reservation) error {
	row := reservation.ToDataModel(res)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	res.ID = row.ID
	return nil
}

func (r *ReservationRepository) GetByID(id int64) (*reservation.Reservation, error) {
	var row reservationDatamodel.Reservation
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrReservationNotFound
		}
		return nil, err
	}
	return reservation.FromDataModel(&row), nil
}

func (r *ReservationRepository) GetByUser(userID int64, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []*reservationDatamodel.Reservation
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, heure_debut DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return reservation.FromDataModelSlice(rows), nil
}

func (r *ReservationRepository) GetAll(filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	var rows []*reservationDatamodel.Reservation
	q := r.db.Order("date DESC, heure_debut DESC")
	if filter.SalleID != 0 {
		q = q.Where("salle_id = ?", filter.SalleID)
	}
	if filter.Statut != "" {
		q = q.Where("statut = ?", filter.Statut)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return reservation.FromDataModelSlice(rows), nil
}

// GetPending returns the approval queue in filing order.
func (r *ReservationRepository) GetPending() ([]*reservation.Reservation, error) {
	var rows []*reservationDatamodel.Reservation
	err := r.db.Where("statut = ?", reservation.StatutEnAttente).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return reservation.FromDataModelSlice(rows), nil
}

// FindOverlapping returns reservations of the salle on the given date
// whose slot intersects [debut, fin). Boundary-sharing slots do not
// overlap.
func (r *ReservationRepository) FindOverlapping(salleID int64, date, debut, fin time.Time, statuts []string) ([]*reservation.Reservation, error) {
	var rows []*reservationDatamodel.Reservation
	err := r.db.Where("salle_id = ? AND date = ? AND statut IN ?", salleID, date, statuts).
		Where("heure_debut < ? AND ? < heure_fin", fin, debut).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return reservation.FromDataModelSlice(rows), nil
}

func (r *ReservationRepository) Update(res *reservation.Reservation) error {
	return r.db.Save(reservation.ToDataModel(res)).Error
}

func (r *ReservationRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&reservationDatamodel.Reservation{}).Error
}
