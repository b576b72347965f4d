package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/edutext/edutext-api/internal/domain/user"
)

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Level        string `json:"level"`
	MatricNumber string `json:"matric_number"`
	PhoneNumber  string `json:"phone_number"`
}

// Register creates a new user account. The response never carries the
// password or its hash.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	role := user.Role(req.Role)
	if req.Role == "" {
		role = user.RoleStudent
	}
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role "+req.Role)
		return
	}

	hash, err := user.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Department:   req.Department,
		Level:        req.Level,
		MatricNumber: req.MatricNumber,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("user")
		encodeUser(e, *u)
		e.FieldStart("message")
		e.Str("User registered successfully")
		e.ObjEnd()
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues an access/refresh token pair. The
// user is embedded in the response so clients need no follow-up request.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.internalError(w, r, err)
		return
	}
	if !u.CheckPassword(req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := h.tokens.IssuePair(u)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("access")
		e.Str(pair.Access)
		e.FieldStart("refresh")
		e.Str(pair.Refresh)
		e.FieldStart("user")
		encodeUser(e, *u)
		e.ObjEnd()
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh rotates a valid refresh token into a fresh token pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	claims, err := h.tokens.VerifyRefresh(req.Refresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		h.internalError(w, r, err)
		return
	}

	pair, err := h.tokens.IssuePair(u)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("access")
		e.Str(pair.Access)
		e.FieldStart("refresh")
		e.Str(pair.Refresh)
		e.ObjEnd()
	})
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	u, err := h.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeUser(e, *u)
	})
}
