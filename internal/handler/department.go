package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/edutext/edutext-api/internal/domain/department"
)

type departmentRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (r departmentRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Code == "" {
		return "code is required"
	}
	return ""
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	list, err := h.departments.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, d := range list {
			encodeDepartment(e, d)
		}
		e.ArrEnd()
	})
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	d := &department.Department{Name: req.Name, Code: req.Code}
	if err := h.departments.Create(r.Context(), d); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeDepartment(e, *d)
	})
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	d := &department.Department{
		ID:   r.PathValue("id"),
		Name: req.Name,
		Code: req.Code,
	}
	if err := h.departments.Update(r.Context(), d); err != nil {
		if errors.Is(err, department.ErrNotFound) {
			writeError(w, http.StatusNotFound, "department not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeDepartment(e, *d)
	})
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.departments.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, department.ErrNotFound) {
			writeError(w, http.StatusNotFound, "department not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
