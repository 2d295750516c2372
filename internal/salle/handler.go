package salle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

// maxImageUploadBytes caps a single room photo at 8 MiB.
const maxImageUploadBytes = 8 << 20

type ServiceAPI interface {
	Create(dto CreateSalleDTO) (*Salle, error)
	GetByID(ctx context.Context, id int64) (*Salle, error)
	GetAll(ctx context.Context, onlyActive bool) ([]*Salle, error)
	Update(id int64, dto UpdateSalleDTO) (*Salle, error)
	Delete(id int64) error
	UploadImage(ctx context.Context, salleID int64, fileName, contentType string, body io.Reader) (*Image, error)
	DeleteImage(salleID, imageID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		Service:     svc,
	}
}

// ListSalles handles GET /salles. ?statut=active narrows to reservable
// rooms, which is what the booking form wants.
func (h *Handler) ListSalles(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("statut") == string(StatutActive)

	salles, err := h.Service.GetAll(r.Context(), onlyActive)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, salles)
}

func (h *Handler) GetSalle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid salle id")
		return
	}

	sl, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sl)
}

func (h *Handler) CreateSalle(w http.ResponseWriter, r *http.Request) {
	var dto CreateSalleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sl, err := h.Service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sl)
}

func (h *Handler) UpdateSalle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid salle id")
		return
	}

	var dto UpdateSalleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sl, err := h.Service.Update(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sl)
}

func (h *Handler) DeleteSalle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid salle id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /salles/{id}/images as multipart/form-data
// with the photo under the "image" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid salle id")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	img, err := h.Service.UploadImage(r.Context(), id, header.Filename, contentType, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, img)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid salle id")
		return
	}

	imageID, err := strconv.ParseInt(chi.URLParam(r, "imageID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.Service.DeleteImage(id, imageID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
