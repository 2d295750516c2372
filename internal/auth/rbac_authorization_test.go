package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
)

var _ = Describe("RBACAuthorization", func() {
	var (
		rbac    *auth.RBACAuthorization
		next    http.Handler
		reached bool
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		rbac = auth.NewRBACAuthorization(logger)
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(user *auth.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/salles", nil)
		if user != nil {
			req = req.WithContext(auth.ContextWithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		rbac.RequireRoles(auth.RoleAdmin, auth.RoleResponsable)(next).ServeHTTP(rec, req)
		return rec
	}

	Context("when nobody is signed in", func() {
		It("answers 401 and never calls the handler", func() {
			rec := request(nil)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})
	})

	Context("when the role is outside the allow-list", func() {
		It("answers 403", func() {
			rec := request(&auth.User{ID: 5, Role: auth.RoleCollaborateur})

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})
	})

	Context("when the role is unknown", func() {
		It("answers 403, not 500", func() {
			rec := request(&auth.User{ID: 5, Role: auth.Role("superviseur")})

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})
	})

	Context("when the role clears the allow-list", func() {
		It("lets the request through", func() {
			rec := request(&auth.User{ID: 2, Role: auth.RoleResponsable})

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})
	})
})

var _ = Describe("Role", func() {
	It("parses known roles and rejects the rest", func() {
		role, ok := auth.ParseRole("admin")
		Expect(ok).To(BeTrue())
		Expect(role).To(Equal(auth.RoleAdmin))

		_, ok = auth.ParseRole("root")
		Expect(ok).To(BeFalse())
	})

	It("scopes channel access to the owner", func() {
		u := &auth.User{ID: 42, Role: auth.RoleCollaborateur}

		Expect(auth.ChannelAllowed(u, "chat")).To(BeTrue())
		Expect(auth.ChannelAllowed(u, "notifications.42")).To(BeTrue())
		Expect(auth.ChannelAllowed(u, "notifications.43")).To(BeFalse())
		Expect(auth.ChannelAllowed(u, "presence.42")).To(BeFalse())
	})
})
