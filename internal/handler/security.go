package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/edutext/edutext-api/internal/domain/user"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID   string
	Username string
	Role     user.Role
}

// IsStaff reports whether the identity carries the staff role.
func (id Identity) IsStaff() bool {
	return id.Role == user.RoleStaff
}

type identityKey struct{}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// withAuth requires a valid access token and stores the caller's identity in
// the request context.
func (h *Handler) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	}
}

// withStaff requires a valid access token carrying the staff role.
func (h *Handler) withStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.IsStaff() {
			writeError(w, http.StatusForbidden, "staff access required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	}
}

func (h *Handler) authenticate(r *http.Request) (Identity, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return Identity{}, false
	}

	claims, err := h.tokens.VerifyAccess(token)
	if err != nil {
		return Identity{}, false
	}
	return Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     user.Role(claims.Role),
	}, true
}
