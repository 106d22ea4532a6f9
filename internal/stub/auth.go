package stub

import (
	"context"
	"net/http"
	"strings"

	"github.com/assistant-app/console/pkg/httputil"
)

type ctxKey string

const ctxKeyUser ctxKey = "stub_user"

// requireAuth gates a handler behind the bearer token issued at login.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httputil.RespondError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		h.mu.Lock()
		email, ok := h.tokens[token]
		var account *user
		if ok {
			account = h.users[email]
		}
		h.mu.Unlock()

		if account == nil {
			httputil.RespondError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, account)
		next(w, r.WithContext(ctx))
	}
}

func (h *Handler) currentUser(r *http.Request) *user {
	account, _ := r.Context().Value(ctxKeyUser).(*user)
	if account == nil {
		return &user{Name: "User"}
	}
	return account
}
