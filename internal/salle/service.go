package salle

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/nmissi-nadia/liqaaspace/internal"
)

type Repository interface {
	Create(s *Salle) error
	GetByID(id int64) (*Salle, error)
	GetAll(onlyActive bool) ([]*Salle, error)
	Update(s *Salle) error
	Delete(id int64) error
	CountOpenReservations(salleID int64) (int64, error)
	AddImage(salleID int64, objectKey, fileName string) (*Image, error)
	GetImages(salleID int64) ([]Image, error)
	CountImages(salleID int64) (int64, error)
	DeleteImage(salleID, imageID int64) (string, error)
}

// ObjectStorage is the S3-backed store holding room photos.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	PresignGet(ctx context.Context, key string) (string, error)
	NewObjectKey(fileName string) string
}

type Service struct {
	repo    Repository
	storage ObjectStorage
	logger  *slog.Logger
}

func NewService(repo Repository, storage ObjectStorage, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) Create(dto CreateSalleDTO) (*Salle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	statut := dto.Statut
	if statut == "" {
		statut = StatutActive
	}

	sl := &Salle{
		Nom:         dto.Nom,
		Capacite:    dto.Capacite,
		Etage:       dto.Etage,
		Description: dto.Description,
		Statut:      statut,
		Images:      []Image{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.Create(sl); err != nil {
		s.logger.Error("failed to create salle", "error", err, "nom", dto.Nom)
		return nil, err
	}

	s.logger.Info("salle created", "salle_id", sl.ID, "nom", sl.Nom)
	return sl, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Salle, error) {
	sl, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrSalleNotFound
	}
	if err := s.attachImageURLs(ctx, sl); err != nil {
		s.logger.Warn("failed to presign salle images", "salle_id", id, "error", err)
	}
	return sl, nil
}

// GetAll returns every salle, or only the reservable ones when onlyActive
// is set. The empty case is an empty slice, never nil.
func (s *Service) GetAll(ctx context.Context, onlyActive bool) ([]*Salle, error) {
	salles, err := s.repo.GetAll(onlyActive)
	if err != nil {
		s.logger.Error("failed to list salles", "error", err)
		return nil, err
	}
	if salles == nil {
		salles = []*Salle{}
	}
	for _, sl := range salles {
		if err := s.attachImageURLs(ctx, sl); err != nil {
			s.logger.Warn("failed to presign salle images", "salle_id", sl.ID, "error", err)
		}
	}
	return salles, nil
}

func (s *Service) Update(id int64, dto UpdateSalleDTO) (*Salle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sl, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrSalleNotFound
	}

	if dto.Nom != nil {
		sl.Nom = *dto.Nom
	}
	if dto.Capacite != nil {
		sl.Capacite = *dto.Capacite
	}
	if dto.Etage != nil {
		sl.Etage = *dto.Etage
	}
	if dto.Description != nil {
		sl.Description = *dto.Description
	}
	if dto.Statut != nil {
		sl.Statut = *dto.Statut
	}
	sl.UpdatedAt = time.Now()

	if err := s.repo.Update(sl); err != nil {
		s.logger.Error("failed to update salle", "error", err, "salle_id", id)
		return nil, err
	}

	return sl, nil
}

// Delete refuses while the salle still has pending or approved
// reservations.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrSalleNotFound
	}

	open, err := s.repo.CountOpenReservations(id)
	if err != nil {
		return internal.NewInternalError("failed to count reservations", err)
	}
	if open > 0 {
		return internal.ErrSalleHasReservation
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete salle", "error", err, "salle_id", id)
		return err
	}

	s.logger.Info("salle deleted", "salle_id", id)
	return nil
}

// UploadImage stores one photo and records its object key. The five-image
// cap is enforced here, before any byte reaches the object store.
func (s *Service) UploadImage(ctx context.Context, salleID int64, fileName, contentType string, body io.Reader) (*Image, error) {
	if _, err := s.repo.GetByID(salleID); err != nil {
		return nil, internal.ErrSalleNotFound
	}

	count, err := s.repo.CountImages(salleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to count images", err)
	}
	if count >= MaxImages {
		return nil, internal.ErrTooManyImages
	}

	key := s.storage.NewObjectKey(fileName)
	if err := s.storage.Upload(ctx, key, contentType, body); err != nil {
		s.logger.Error("image upload failed", "error", err, "salle_id", salleID)
		return nil, internal.NewInternalError("failed to store image", err)
	}

	img, err := s.repo.AddImage(salleID, key, fileName)
	if err != nil {
		return nil, err
	}

	if url, err := s.storage.PresignGet(ctx, key); err == nil {
		img.URL = url
	}

	s.logger.Info("salle image stored", "salle_id", salleID, "image_id", img.ID)
	return img, nil
}

func (s *Service) DeleteImage(salleID, imageID int64) error {
	if _, err := s.repo.DeleteImage(salleID, imageID); err != nil {
		return err
	}
	return nil
}

func (s *Service) attachImageURLs(ctx context.Context, sl *Salle) error {
	images, err := s.repo.GetImages(sl.ID)
	if err != nil {
		return err
	}
	for i := range images {
		url, err := s.storage.PresignGet(ctx, images[i].ObjectKey)
		if err != nil {
			return err
		}
		images[i].URL = url
	}
	sl.Images = images
	return nil
}
