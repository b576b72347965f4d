package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutext/edutext-api/internal/domain/auth"
	"github.com/edutext/edutext-api/internal/domain/catalog"
	"github.com/edutext/edutext-api/internal/domain/department"
	"github.com/edutext/edutext-api/internal/domain/order"
	"github.com/edutext/edutext-api/internal/domain/store"
	"github.com/edutext/edutext-api/internal/domain/user"
)

// --- Mock implementations ---

type mockTextbookRepo struct {
	books      []catalog.Textbook
	byID       map[string]*catalog.Textbook
	lastFilter catalog.Filter
	listErr    error
	deleteErr  error
}

func (m *mockTextbookRepo) List(_ context.Context, f catalog.Filter) ([]catalog.Textbook, error) {
	m.lastFilter = f
	return m.books, m.listErr
}

func (m *mockTextbookRepo) GetByID(_ context.Context, id string) (*catalog.Textbook, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return t, nil
}

func (m *mockTextbookRepo) Create(_ context.Context, t *catalog.Textbook) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	if m.byID == nil {
		m.byID = make(map[string]*catalog.Textbook)
	}
	m.byID[t.ID] = t
	return nil
}

func (m *mockTextbookRepo) Update(_ context.Context, t *catalog.Textbook) error {
	if _, ok := m.byID[t.ID]; !ok {
		return catalog.ErrNotFound
	}
	m.byID[t.ID] = t
	return nil
}

func (m *mockTextbookRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.byID[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockDepartmentRepo struct {
	departments []department.Department
	updateErr   error
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]department.Department, error) {
	return m.departments, nil
}

func (m *mockDepartmentRepo) Create(_ context.Context, d *department.Department) error {
	d.ID = "dep-1"
	m.departments = append(m.departments, *d)
	return nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, _ *department.Department) error {
	return m.updateErr
}

func (m *mockDepartmentRepo) Delete(_ context.Context, _ string) error {
	return m.updateErr
}

type mockUserRepo struct {
	byID       map[string]*user.User
	byUsername map[string]*user.User
	createErr  error
}

func (m *mockUserRepo) Create(_ context.Context, u *user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byUsername[u.Username]; ok {
		return user.ErrUsernameTaken
	}
	if m.byID == nil {
		m.byID = make(map[string]*user.User)
		m.byUsername = make(map[string]*user.User)
	}
	m.byID[u.ID] = u
	m.byUsername[u.Username] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// mockOrderRepo mimics the transactional placement contract: it fills
// snapshots and the total from a fixed stock table, or fails with the
// configured error.
type mockOrderRepo struct {
	stock     map[string]catalog.Textbook
	orders    map[string]*order.Order
	placeErr  error
	statusErr error
	lastOrder *order.Order
}

func (m *mockOrderRepo) Place(_ context.Context, o *order.Order) error {
	if m.placeErr != nil {
		return m.placeErr
	}
	total := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		book, ok := m.stock[it.TextbookID]
		if !ok {
			return &order.TextbookNotFoundError{TextbookID: it.TextbookID}
		}
		if book.Stock < it.Quantity {
			return &order.InsufficientStockError{
				TextbookID: it.TextbookID,
				Title:      book.Title,
				Available:  book.Stock,
				Requested:  it.Quantity,
			}
		}
		if it.Price.IsZero() {
			it.Price = book.Price
		}
		it.BookTitle = book.Title
		it.CourseCode = book.CourseCode
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o.Total = total.Round(2)
	o.CreatedAt = time.Now()
	if m.orders == nil {
		m.orders = make(map[string]*order.Order)
	}
	m.orders[o.Reference] = o
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) GetByReference(_ context.Context, reference string) (*order.Order, error) {
	o, ok := m.orders[reference]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, reference string, status order.Status) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	o, ok := m.orders[reference]
	if !ok {
		return order.ErrNotFound
	}
	if o.Status != order.StatusPending {
		return &order.InvalidTransitionError{From: o.Status, To: status}
	}
	o.Status = status
	return nil
}

// --- Helpers ---

type env struct {
	books   *mockTextbookRepo
	deps    *mockDepartmentRepo
	users   *mockUserRepo
	orders  *mockOrderRepo
	tokens  *auth.Manager
	handler http.Handler
}

func newTestBook(id, title, courseCode string, price string, stock int) catalog.Textbook {
	return catalog.Textbook{
		ID:         id,
		Title:      title,
		CourseCode: courseCode,
		Department: "computer_science",
		Level:      "nd1",
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
}

func newEnv(books ...catalog.Textbook) *env {
	byID := make(map[string]*catalog.Textbook, len(books))
	stock := make(map[string]catalog.Textbook, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
		stock[books[i].ID] = books[i]
	}

	e := &env{
		books:  &mockTextbookRepo{books: books, byID: byID},
		deps:   &mockDepartmentRepo{},
		users:  &mockUserRepo{byID: map[string]*user.User{}, byUsername: map[string]*user.User{}},
		orders: &mockOrderRepo{stock: stock},
		tokens: auth.NewManager([]byte("test-secret"), time.Hour, 24*time.Hour),
	}
	h := NewHandler(e.books, e.deps, e.users, order.NewService(e.orders), e.tokens)
	e.handler = h.Routes()
	return e
}

func (e *env) addUser(t *testing.T, username string, role user.Role) (*user.User, string) {
	t.Helper()
	hash, err := user.HashPassword("pass1234")
	require.NoError(t, err)

	u := &user.User{
		ID:           "u-" + username,
		Username:     username,
		Role:         role,
		PasswordHash: hash,
	}
	require.NoError(t, e.users.Create(context.Background(), u))

	pair, err := e.tokens.IssuePair(u)
	require.NoError(t, err)
	return u, pair.Access
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// --- Tests ---

func TestListTextbooks_Filters(t *testing.T) {
	e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))

	tests := []struct {
		name  string
		query string
		want  catalog.Filter
	}{
		{
			name:  "machine values pass through",
			query: "?department=computer_science&level=nd1",
			want:  catalog.Filter{Department: "computer_science", Level: "nd1"},
		},
		{
			name:  "human labels normalize to values",
			query: "?department=Computer%20Science&level=ND%201",
			want:  catalog.Filter{Department: "computer_science", Level: "nd1"},
		},
		{
			name:  "sentinels clear the filter",
			query: "?department=All%20Departments&level=All%20Levels",
			want:  catalog.Filter{},
		},
		{
			name:  "unknown label clears the filter",
			query: "?department=Astrology",
			want:  catalog.Filter{},
		},
		{
			name:  "search is passed through",
			query: "?search=circuits",
			want:  catalog.Filter{Search: "circuits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/api/v1/textbooks"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, e.books.lastFilter)
		})
	}
}

func TestGetTextbook(t *testing.T) {
	e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))

	rec := e.do(t, http.MethodGet, "/api/v1/textbooks/t1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "Circuit Theory", body["title"])
	assert.InDelta(t, 15.00, body["price"], 0.001)

	rec = e.do(t, http.MethodGet, "/api/v1/textbooks/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterOptions(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodGet, "/api/v1/textbooks/filters", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	deps, ok := body["departments"].([]any)
	require.True(t, ok)
	assert.Len(t, deps, 13) // 12 departments plus the All Departments sentinel
	assert.Equal(t, "All Departments", deps[0])

	levels, ok := body["levels"].([]any)
	require.True(t, ok)
	assert.Len(t, levels, 5)
	assert.Equal(t, "All Levels", levels[0])
}

func TestTextbookWrites_RequireAuth(t *testing.T) {
	e := newEnv()

	body := map[string]any{
		"title": "New Book", "course_code": "GNS101",
		"department": "computer_science", "level": "nd1",
		"price": "10.00", "stock": 5,
	}

	rec := e.do(t, http.MethodPost, "/api/v1/textbooks", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, token := e.addUser(t, "alice", user.RoleStudent)
	rec = e.do(t, http.MethodPost, "/api/v1/textbooks", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeMap(t, rec)
	assert.Equal(t, "New Book", created["title"])
	assert.NotEmpty(t, created["id"])
}

func TestCreateTextbook_Validation(t *testing.T) {
	e := newEnv()
	_, token := e.addUser(t, "alice", user.RoleStudent)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"course_code": "X", "department": "computer_science", "level": "nd1"}},
		{"missing course code", map[string]any{"title": "X", "department": "computer_science", "level": "nd1"}},
		{"unknown department", map[string]any{"title": "X", "course_code": "X", "department": "astrology", "level": "nd1"}},
		{"unknown level", map[string]any{"title": "X", "course_code": "X", "department": "computer_science", "level": "nd9"}},
		{"negative stock", map[string]any{"title": "X", "course_code": "X", "department": "computer_science", "level": "nd1", "stock": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/v1/textbooks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDeleteTextbook_InUse(t *testing.T) {
	e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))
	e.books.deleteErr = catalog.ErrInUse
	_, token := e.addUser(t, "alice", user.RoleStudent)

	rec := e.do(t, http.MethodDelete, "/api/v1/textbooks/t1", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrder(t *testing.T) {
	student := map[string]any{
		"student_name":  "Ada Obi",
		"student_email": "ada@example.edu",
	}
	withItems := func(items ...map[string]any) map[string]any {
		body := make(map[string]any, len(student)+1)
		for k, v := range student {
			body[k] = v
		}
		body["items"] = items
		return body
	}

	t.Run("placement snapshots and total", func(t *testing.T) {
		e := newEnv(
			newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10),
			newTestBook("t2", "Thermodynamics", "MEC211", "22.50", 4),
		)

		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "t1", "quantity": 3},
			map[string]any{"textbook_id": "t2", "quantity": 2},
		))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		assert.Equal(t, "pending", body["status"])
		assert.NotEmpty(t, body["reference"])
		assert.InDelta(t, 90.00, body["total_amount"], 0.001)

		items, ok := body["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 2)
		first := items[0].(map[string]any)
		assert.Equal(t, "Circuit Theory", first["book_title"])
		assert.Equal(t, "EEC125", first["course_code"])
		assert.InDelta(t, 15.00, first["price"], 0.001)
	})

	t.Run("insufficient stock returns 409", func(t *testing.T) {
		e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 2))

		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "t1", "quantity": 5},
		))
		require.Equal(t, http.StatusConflict, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, "Insufficient stock for Circuit Theory. Only 2 available.", body["message"])
	})

	t.Run("empty items returns 400", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero quantity returns 400", func(t *testing.T) {
		e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))
		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "t1", "quantity": 0},
		))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown textbook returns 422", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "missing", "quantity": 1},
		))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing buyer contact returns 400", func(t *testing.T) {
		e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))
		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", map[string]any{
			"items": []map[string]any{{"textbook_id": "t1", "quantity": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("transient store failure returns 503", func(t *testing.T) {
		e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))
		e.orders.placeErr = errors.Wrap(store.ErrTransient, "deadlock detected")

		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "t1", "quantity": 1},
		))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("caller price overrides snapshot", func(t *testing.T) {
		e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))

		rec := e.do(t, http.MethodPost, "/api/v1/orders", "", withItems(
			map[string]any{"textbook_id": "t1", "quantity": 2, "price": "9.99"},
		))
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeMap(t, rec)
		assert.InDelta(t, 19.98, body["total_amount"], 0.001)
	})
}

func TestGetOrder(t *testing.T) {
	e := newEnv(newTestBook("t1", "Circuit Theory", "EEC125", "15.00", 10))
	e.orders.orders = map[string]*order.Order{
		"EDU-1": {ID: "o1", Reference: "EDU-1", Status: order.StatusPending},
	}

	rec := e.do(t, http.MethodGet, "/api/v1/orders/EDU-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EDU-1", decodeMap(t, rec)["reference"])

	rec = e.do(t, http.MethodGet, "/api/v1/orders/EDU-2", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders_StaffOnly(t *testing.T) {
	e := newEnv()
	e.orders.orders = map[string]*order.Order{
		"EDU-1": {ID: "o1", Reference: "EDU-1", Status: order.StatusPending},
	}

	rec := e.do(t, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, studentToken := e.addUser(t, "alice", user.RoleStudent)
	rec = e.do(t, http.MethodGet, "/api/v1/orders", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, staffToken := e.addUser(t, "bob", user.RoleStaff)
	rec = e.do(t, http.MethodGet, "/api/v1/orders", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	newEnvWithOrder := func(status order.Status) *env {
		e := newEnv()
		e.orders.orders = map[string]*order.Order{
			"EDU-1": {ID: "o1", Reference: "EDU-1", Status: status},
		}
		return e
	}

	t.Run("pending to completed", func(t *testing.T) {
		e := newEnvWithOrder(order.StatusPending)
		_, token := e.addUser(t, "bob", user.RoleStaff)

		rec := e.do(t, http.MethodPatch, "/api/v1/orders/EDU-1", token, map[string]any{"status": "completed"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "completed", decodeMap(t, rec)["status"])
	})

	t.Run("completed order cannot change again", func(t *testing.T) {
		e := newEnvWithOrder(order.StatusCompleted)
		_, token := e.addUser(t, "bob", user.RoleStaff)

		rec := e.do(t, http.MethodPatch, "/api/v1/orders/EDU-1", token, map[string]any{"status": "failed"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown target status rejected", func(t *testing.T) {
		e := newEnvWithOrder(order.StatusPending)
		_, token := e.addUser(t, "bob", user.RoleStaff)

		rec := e.do(t, http.MethodPatch, "/api/v1/orders/EDU-1", token, map[string]any{"status": "shipped"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		e := newEnvWithOrder(order.StatusPending)
		_, token := e.addUser(t, "bob", user.RoleStaff)

		rec := e.do(t, http.MethodPatch, "/api/v1/orders/EDU-9", token, map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("student forbidden", func(t *testing.T) {
		e := newEnvWithOrder(order.StatusPending)
		_, token := e.addUser(t, "alice", user.RoleStudent)

		rec := e.do(t, http.MethodPatch, "/api/v1/orders/EDU-1", token, map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "pass1234", "email": "alice@example.edu",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	created, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", created["username"])
	assert.Equal(t, "student", created["role"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "carol", "password": "p", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	e := newEnv()
	e.addUser(t, "alice", user.RoleStudent)

	rec := e.do(t, http.MethodPost, "/api/v1/token", "", map[string]any{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/token", "", map[string]any{
		"username": "alice", "password": "pass1234",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeMap(t, rec)
	access, _ := body["access"].(string)
	refresh, _ := body["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	rec = e.do(t, http.MethodGet, "/api/v1/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decodeMap(t, rec)["username"])

	// Refresh tokens must not pass access verification.
	rec = e.do(t, http.MethodGet, "/api/v1/auth/me", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/token/refresh", "", map[string]any{"refresh": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decodeMap(t, rec)
	assert.NotEmpty(t, rotated["access"])
	assert.NotEmpty(t, rotated["refresh"])

	rec = e.do(t, http.MethodPost, "/api/v1/token/refresh", "", map[string]any{"refresh": access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDepartments(t *testing.T) {
	e := newEnv()
	_, token := e.addUser(t, "alice", user.RoleStudent)

	rec := e.do(t, http.MethodPost, "/api/v1/departments", "", map[string]any{
		"name": "Computer Science", "code": "CSC",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/departments", token, map[string]any{"name": "Computer Science"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/departments", token, map[string]any{
		"name": "Computer Science", "code": "CSC",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "CSC", decodeMap(t, rec)["code"])

	rec = e.do(t, http.MethodGet, "/api/v1/departments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Computer Science", list[0]["name"])

	e.deps.updateErr = department.ErrNotFound
	rec = e.do(t, http.MethodDelete, "/api/v1/departments/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
