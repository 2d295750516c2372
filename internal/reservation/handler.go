package reservation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

type ServiceAPI interface {
	Create(userID int64, dto CreateReservationDTO) (*Reservation, error)
	GetByID(id, requesterID int64, isDecider bool) (*Reservation, error)
	ListMine(userID int64, limit, offset int) ([]*Reservation, error)
	ListAll(filter ListFilter) ([]*Reservation, error)
	ListPending() ([]*Reservation, error)
	Approve(id, deciderID int64) (*Reservation, error)
	Reject(id, deciderID int64, dto RejectDTO) (*Reservation, error)
	Cancel(id, requesterID int64, isDecider bool) (*Reservation, error)
	UpdateStatut(id, deciderID int64, dto UpdateStatutDTO) (*Reservation, error)
	Delete(id, requesterID int64, isDecider bool) error
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

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.Create(current.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, res)
}

// ListMyReservations handles GET /reservations/me.
func (h *Handler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r, 50)
	rows, err := h.Service.ListMine(current.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

// ListReservations handles GET /reservations for deciders, with
// optional ?salle_id= and ?statut= filters.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)
	filter := ListFilter{
		Statut: r.URL.Query().Get("statut"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := r.URL.Query().Get("salle_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid salle_id filter")
			return
		}
		filter.SalleID = id
	}

	rows, err := h.Service.ListAll(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

// ListPendingReservations handles GET /reservations/pending, the
// approval queue.
func (h *Handler) ListPendingReservations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListPending()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := h.Service.GetByID(id, current.ID, isDecider(current))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := h.Service.Approve(id, current.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var dto RejectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.Reject(id, current.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

// UpdateReservationStatut handles PATCH /reservations/{id}/statut,
// accepting legacy statut spellings.
func (h *Handler) UpdateReservationStatut(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var dto UpdateStatutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Service.UpdateStatut(id, current.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := h.Service.Cancel(id, current.ID, isDecider(current))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	if err := h.Service.Delete(id, current.ID, isDecider(current)); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isDecider(u *auth.User) bool {
	return u.Role == auth.RoleAdmin || u.Role == auth.RoleResponsable
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
