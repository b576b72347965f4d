package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edutext/edutext-api/internal/domain/catalog"
)

// ListTextbooks returns catalog entries, optionally filtered by department,
// level, and a free-text search over title and course code. Department and
// level accept either the machine value or the display label.
func (h *Handler) ListTextbooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Department: q.Get("department"),
		Level:      q.Get("level"),
		Search:     q.Get("search"),
	}.Normalized()

	books, err := h.textbooks.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, t := range books {
			encodeTextbook(e, t)
		}
		e.ArrEnd()
	})
}

// FilterOptions reports the full static set of department and level labels.
// It deliberately does not derive the lists from catalog data.
func (h *Handler) FilterOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("departments")
		encodeStrings(e, append([]string{catalog.AllDepartments}, catalog.DepartmentLabels()...))
		e.FieldStart("levels")
		encodeStrings(e, append([]string{catalog.AllLevels}, catalog.LevelLabels()...))
		e.ObjEnd()
	})
}

// GetTextbook returns a single catalog entry.
func (h *Handler) GetTextbook(w http.ResponseWriter, r *http.Request) {
	t, err := h.textbooks.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "textbook not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeTextbook(e, *t)
	})
}

type textbookRequest struct {
	Title       string          `json:"title"`
	CourseCode  string          `json:"course_code"`
	Department  string          `json:"department"`
	Level       string          `json:"level"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	IsPopular   bool            `json:"is_popular"`
	IsNew       bool            `json:"is_new"`
}

func (req textbookRequest) validate() string {
	switch {
	case req.Title == "":
		return "title required"
	case req.CourseCode == "":
		return "course_code required"
	case !catalog.ValidDepartment(req.Department):
		return "unknown department " + req.Department
	case !catalog.ValidLevel(req.Level):
		return "unknown level " + req.Level
	case req.Price.IsNegative():
		return "price must not be negative"
	case req.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}

// CreateTextbook adds a catalog entry.
func (h *Handler) CreateTextbook(w http.ResponseWriter, r *http.Request) {
	var req textbookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := &catalog.Textbook{
		ID:          uuid.New().String(),
		Title:       req.Title,
		CourseCode:  req.CourseCode,
		Department:  req.Department,
		Level:       req.Level,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsPopular:   req.IsPopular,
		IsNew:       req.IsNew,
	}
	if err := h.textbooks.Create(r.Context(), t); err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeTextbook(e, *t)
	})
}

// ReplaceTextbook overwrites all mutable fields of a catalog entry.
func (h *Handler) ReplaceTextbook(w http.ResponseWriter, r *http.Request) {
	var req textbookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := &catalog.Textbook{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		CourseCode:  req.CourseCode,
		Department:  req.Department,
		Level:       req.Level,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsPopular:   req.IsPopular,
		IsNew:       req.IsNew,
	}
	h.saveTextbook(w, r, t)
}

type textbookPatch struct {
	Title       *string          `json:"title"`
	CourseCode  *string          `json:"course_code"`
	Department  *string          `json:"department"`
	Level       *string          `json:"level"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url"`
	IsPopular   *bool            `json:"is_popular"`
	IsNew       *bool            `json:"is_new"`
}

// PatchTextbook updates only the fields present in the request body. This is
// how staff restock: PATCH with a new stock value.
func (h *Handler) PatchTextbook(w http.ResponseWriter, r *http.Request) {
	var req textbookPatch
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := h.textbooks.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "textbook not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.CourseCode != nil {
		t.CourseCode = *req.CourseCode
	}
	if req.Department != nil {
		t.Department = *req.Department
	}
	if req.Level != nil {
		t.Level = *req.Level
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Stock != nil {
		t.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		t.ImageURL = *req.ImageURL
	}
	if req.IsPopular != nil {
		t.IsPopular = *req.IsPopular
	}
	if req.IsNew != nil {
		t.IsNew = *req.IsNew
	}

	full := textbookRequest{
		Title: t.Title, CourseCode: t.CourseCode, Department: t.Department,
		Level: t.Level, Price: t.Price, Stock: t.Stock,
	}
	if msg := full.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.saveTextbook(w, r, t)
}

func (h *Handler) saveTextbook(w http.ResponseWriter, r *http.Request, t *catalog.Textbook) {
	if err := h.textbooks.Update(r.Context(), t); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "textbook not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	// Re-read so timestamps reflect the committed row.
	updated, err := h.textbooks.GetByID(r.Context(), t.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeTextbook(e, *updated)
	})
}

// DeleteTextbook removes a catalog entry. Deletion is blocked while order
// line items reference the book, preserving order history.
func (h *Handler) DeleteTextbook(w http.ResponseWriter, r *http.Request) {
	err := h.textbooks.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "textbook not found")
	case errors.Is(err, catalog.ErrInUse):
		writeError(w, http.StatusConflict, "textbook is referenced by existing orders")
	default:
		h.internalError(w, r, err)
	}
}
