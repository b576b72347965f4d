package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/edutext/edutext-api/internal/domain/order"
)

type placeOrderItem struct {
	TextbookID string           `json:"textbook_id"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	Reference    string           `json:"reference"`
	StudentName  string           `json:"student_name"`
	StudentEmail string           `json:"student_email"`
	MatricNumber string           `json:"matric_number"`
	Department   string           `json:"department"`
	Level        string           `json:"level"`
	PhoneNumber  string           `json:"phone_number"`
	Items        []placeOrderItem `json:"items"`
}

// PlaceOrder converts the request into a domain placement, delegates to the
// order service, and maps the result (or error) back to a response.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StudentName == "" || req.StudentEmail == "" {
		writeError(w, http.StatusBadRequest, "student_name and student_email required")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.ItemRequest{
			TextbookID: it.TextbookID,
			Quantity:   it.Quantity,
			Price:      it.Price,
		}
	}

	o, err := h.orders.Place(r.Context(), order.PlaceRequest{
		Reference: req.Reference,
		Student: order.Student{
			Name:         req.StudentName,
			Email:        req.StudentEmail,
			MatricNumber: req.MatricNumber,
			Department:   req.Department,
			Level:        req.Level,
			PhoneNumber:  req.PhoneNumber,
		},
		Items: items,
	})
	if err != nil {
		h.mapPlacementError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// mapPlacementError translates the placement error taxonomy to HTTP statuses:
// validation 400/422, stock conflicts 409, transient store failures 503.
func (h *Handler) mapPlacementError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidQty   *order.InvalidQuantityError
		notFound     *order.TextbookNotFoundError
		insufficient *order.InsufficientStockError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, order.ErrEmptyItems.Error())
	case errors.As(err, &invalidQty):
		writeError(w, http.StatusBadRequest, invalidQty.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusUnprocessableEntity, notFound.Error())
	case errors.As(err, &insufficient):
		writeError(w, http.StatusConflict, insufficient.Error())
	default:
		h.internalError(w, r, err)
	}
}

// GetOrder returns a single order by its exact reference. No authentication
// is required: knowing the reference is the capability.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("reference"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// ListOrders returns every order. Routed staff-only.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, o := range list {
			encodeOrder(e, o)
		}
		e.ArrEnd()
	})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus transitions a pending order to completed or failed.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reference := r.PathValue("reference")
	err := h.orders.UpdateStatus(r.Context(), reference, order.Status(req.Status))
	if err != nil {
		var transition *order.InvalidTransitionError
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.As(err, &transition):
			writeError(w, http.StatusConflict, transition.Error())
		default:
			h.internalError(w, r, err)
		}
		return
	}

	o, err := h.orders.Get(r.Context(), reference)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}
