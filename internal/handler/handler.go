// Package handler implements the JSON HTTP API, delegating business logic to
// the domain services and repositories.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edutext/edutext-api/internal/domain/auth"
	"github.com/edutext/edutext-api/internal/domain/catalog"
	"github.com/edutext/edutext-api/internal/domain/department"
	"github.com/edutext/edutext-api/internal/domain/order"
	"github.com/edutext/edutext-api/internal/domain/user"
)

// Handler holds the dependencies shared by all endpoint methods.
type Handler struct {
	textbooks   catalog.Repository
	departments department.Repository
	users       user.Repository
	orders      *order.Service
	tokens      *auth.Manager
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	textbooks catalog.Repository,
	departments department.Repository,
	users user.Repository,
	orders *order.Service,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		textbooks:   textbooks,
		departments: departments,
		users:       users,
		orders:      orders,
		tokens:      tokens,
	}
}

// Routes returns the API route table under /api/v1.
//
// Catalog reads and order placement are public; catalog and department
// writes require any authenticated identity (the contract inherited from the
// previous system; tightening writes to staff only means swapping withAuth
// for withStaff here); order listing and fulfillment are staff only.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/token", h.Login)
	mux.HandleFunc("POST /api/v1/token/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/auth/me", h.withAuth(h.Me))

	mux.HandleFunc("GET /api/v1/textbooks", h.ListTextbooks)
	mux.HandleFunc("GET /api/v1/textbooks/filters", h.FilterOptions)
	mux.HandleFunc("GET /api/v1/textbooks/{id}", h.GetTextbook)
	mux.HandleFunc("POST /api/v1/textbooks", h.withAuth(h.CreateTextbook))
	mux.HandleFunc("PUT /api/v1/textbooks/{id}", h.withAuth(h.ReplaceTextbook))
	mux.HandleFunc("PATCH /api/v1/textbooks/{id}", h.withAuth(h.PatchTextbook))
	mux.HandleFunc("DELETE /api/v1/textbooks/{id}", h.withAuth(h.DeleteTextbook))

	mux.HandleFunc("GET /api/v1/departments", h.ListDepartments)
	mux.HandleFunc("POST /api/v1/departments", h.withAuth(h.CreateDepartment))
	mux.HandleFunc("PUT /api/v1/departments/{id}", h.withAuth(h.UpdateDepartment))
	mux.HandleFunc("DELETE /api/v1/departments/{id}", h.withAuth(h.DeleteDepartment))

	mux.HandleFunc("POST /api/v1/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/v1/orders", h.withStaff(h.ListOrders))
	mux.HandleFunc("GET /api/v1/orders/{reference}", h.GetOrder)
	mux.HandleFunc("PATCH /api/v1/orders/{reference}", h.withStaff(h.UpdateOrderStatus))

	return mux
}

// decode reads the request body as JSON into dst.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
