package postgres

import (
	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	reservationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/reservation"
	salleDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/salle"
	"github.com/nmissi-nadia/liqaaspace/internal/salle"
)

type SalleRepository struct {
	db *gorm.DB
}

func NewSalleRepository(db *gorm.DB) salle.Repository {
	return &SalleRepository{db: db}
}

func (r *SalleRepository) Create(s *salle.Salle) error {
	row := salle.ToDataModel(s)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	s.ID = row.ID
	return nil
}

func (r *SalleRepository) GetByID(id int64) (*salle.Salle, error) {
	var row salleDatamodel.Salle
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrSalleNotFound
		}
		return nil, err
	}
	return salle.FromDataModel(&row), nil
}

func (r *SalleRepository) GetAll(onlyActive bool) ([]*salle.Salle, error) {
	var rows []*salleDatamodel.Salle
	q := r.db.Order("nom ASC")
	if onlyActive {
		q = q.Where("statut = ?", salle.StatutActive)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return salle.FromDataModelSlice(rows), nil
}

func (r *SalleRepository) Update(s *salle.Salle) error {
	return r.db.Save(salle.ToDataModel(s)).Error
}

func (r *SalleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("salle_id = ?", id).Delete(&salleDatamodel.SalleImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&salleDatamodel.Salle{}).Error
	})
}

func (r *SalleRepository) CountOpenReservations(salleID int64) (int64, error) {
	var count int64
	err := r.db.Model(&reservationDatamodel.Reservation{}).
		Where("salle_id = ? AND statut IN ?", salleID, []string{"en_attente", "approuvee"}).
		Count(&count).Error
	return count, err
}

func (r *SalleRepository) AddImage(salleID int64, objectKey, fileName string) (*salle.Image, error) {
	row := &salleDatamodel.SalleImage{
		SalleID:   salleID,
		ObjectKey: objectKey,
		FileName:  fileName,
	}
	if err := r.db.Create(row).Error; err != nil {
		return nil, err
	}
	return &salle.Image{
		ID:        row.ID,
		ObjectKey: row.ObjectKey,
		FileName:  row.FileName,
	}, nil
}

func (r *SalleRepository) GetImages(salleID int64) ([]salle.Image, error) {
	var rows []salleDatamodel.SalleImage
	err := r.db.Where("salle_id = ?", salleID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	images := make([]salle.Image, len(rows))
	for i, row := range rows {
		images[i] = salle.Image{
			ID:        row.ID,
			ObjectKey: row.ObjectKey,
			FileName:  row.FileName,
		}
	}
	return images, nil
}

func (r *SalleRepository) CountImages(salleID int64) (int64, error) {
	var count int64
	err := r.db.Model(&salleDatamodel.SalleImage{}).
		Where("salle_id = ?", salleID).
		Count(&count).Error
	return count, err
}

// DeleteImage removes the row and returns the orphaned object key so the
// caller can reap it from the store.
func (r *SalleRepository) DeleteImage(salleID, imageID int64) (string, error) {
	var row salleDatamodel.SalleImage
	err := r.db.Where("id = ? AND salle_id = ?", imageID, salleID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", internal.ErrSalleImageNotFound
		}
		return "", err
	}
	if err := r.db.Delete(&row).Error; err != nil {
		return "", err
	}
	return row.ObjectKey, nil
}
