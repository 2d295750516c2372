package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/transport"
	"github.com/nmissi-nadia/liqaaspace/pkg/logger"
)

const csrfHeader = "X-CSRF-Token"

type ServiceAPI interface {
	StartSession() (*Session, error)
	Login(sessionToken, csrfToken string, dto LoginDTO) (*User, error)
	Register(sessionToken, csrfToken string, dto RegisterDTO) (*User, error)
	Logout(sessionToken, csrfToken string) error
	CurrentUser(sessionToken string) (*User, error)
	ChannelToken(u *User, channel string) (string, error)
	BroadcastTokenTTL() time.Duration
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	cookieName   string
	secureCookie bool
	sessionTTL   time.Duration
}

func NewHandler(svc ServiceAPI, cfg internal.SecurityConfig) *Handler {
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(logger.Default()),
		Service:      svc,
		cookieName:   cfg.SessionCookie,
		secureCookie: cfg.SecureCookies,
		sessionTTL:   cfg.SessionTTL,
	}
}

func (h *Handler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRF is step one of the login handshake: it mints a pre-session, sets the
// session cookie and hands the anti-forgery token back in the body. The
// subsequent credential POST must echo it in X-CSRF-Token.
func (h *Handler) CSRF(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.StartSession()
	if err != nil {
		h.Logger.Error("csrf: failed to start session", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	h.WriteJSON(w, http.StatusOK, CSRFResponse{CSRFToken: session.CSRFToken})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Login(h.sessionToken(r), r.Header.Get(csrfHeader), dto)
	if err != nil {
		h.Logger.Warn("login failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Register(h.sessionToken(r), r.Header.Get(csrfHeader), dto)
	if err != nil {
		h.Logger.Warn("registration failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

// Logout clears the cookie even when the session row was already gone; only
// a live session with a missing or wrong CSRF token is refused.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(h.sessionToken(r), r.Header.Get(csrfHeader)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// BroadcastAuth exchanges the session for a bearer token scoped to one
// realtime channel.
func (h *Handler) BroadcastAuth(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ChannelAuthDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	token, err := h.Service.ChannelToken(user, dto.Channel)
	if err != nil {
		h.Logger.Warn("channel auth denied", "user_id", user.ID, "channel", dto.Channel, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ChannelAuthResponse{
		Token:     token,
		ExpiresIn: int64(h.Service.BroadcastTokenTTL().Seconds()),
	})
}

// SessionMiddleware resolves the cookie to a user and stores it in context.
// Requests without a live authenticated session stop here with a 401.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.Service.CurrentUser(h.sessionToken(r))
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
