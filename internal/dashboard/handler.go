package dashboard

import (
	"net/http"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

type ServiceAPI interface {
	Overview(includeUsers bool) (*Stats, error)
	MyStats(userID int64) (*UserStats, error)
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

// GetOverview handles GET /dashboard/stats for deciders. Only admins
// get the per-role user breakdown.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.Overview(current.Role == auth.RoleAdmin)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

// GetMyStats handles GET /dashboard/me.
func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.MyStats(current.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
