package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

const maxAttachmentBytes = 16 << 20

type ServiceAPI interface {
	History(ctx context.Context, limit int) ([]*Message, error)
	Send(ctx context.Context, userID int64, userName string, dto SendMessageDTO, att *Attachment) (*Message, error)
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

// ListMessages handles GET /chat/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	messages, err := h.Service.History(r.Context(), limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /chat/messages. Plain JSON carries text only;
// multipart/form-data carries text in "message" plus an optional "file".
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SendMessageDTO
	var att *Attachment

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		dto.Message = r.FormValue("message")

		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			att = &Attachment{
				FileName:    header.Filename,
				ContentType: contentType,
				Body:        file,
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	msg, err := h.Service.Send(r.Context(), current.ID, current.Name, dto, att)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, msg)
}
