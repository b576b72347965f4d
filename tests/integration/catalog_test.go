//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestListTextbooks_Seeded(t *testing.T) {
	resp := doGet(t, "/api/v1/textbooks")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	books := decodeJSON[[]textbookResponse](t, resp)
	if len(books) < seededTextbooks {
		t.Fatalf("got %d textbooks, want at least %d", len(books), seededTextbooks)
	}
}

func TestListTextbooks_SearchCaseInsensitive(t *testing.T) {
	resp := doGet(t, "/api/v1/textbooks?search=circuit")
	defer resp.Body.Close()

	books := decodeJSON[[]textbookResponse](t, resp)
	if len(books) == 0 {
		t.Fatal("search returned no results")
	}
	for _, b := range books {
		title := strings.ToLower(b.Title)
		code := strings.ToLower(b.CourseCode)
		if !strings.Contains(title, "circuit") && !strings.Contains(code, "circuit") {
			t.Errorf("unexpected match: %q / %q", b.Title, b.CourseCode)
		}
	}
}

func TestListTextbooks_FilterByLabel(t *testing.T) {
	// The human label must behave exactly like the machine value.
	forLabel := doGet(t, "/api/v1/textbooks?department="+url.QueryEscape("Electrical Engineering"))
	defer forLabel.Body.Close()
	byLabel := decodeJSON[[]textbookResponse](t, forLabel)

	forValue := doGet(t, "/api/v1/textbooks?department=electrical_engineering")
	defer forValue.Body.Close()
	byValue := decodeJSON[[]textbookResponse](t, forValue)

	if len(byLabel) == 0 || len(byLabel) != len(byValue) {
		t.Fatalf("label gave %d results, value gave %d", len(byLabel), len(byValue))
	}
	for _, b := range byLabel {
		if b.Department != "electrical_engineering" {
			t.Errorf("unexpected department %q", b.Department)
		}
	}
}

func TestListTextbooks_UnknownLabelDisablesFilter(t *testing.T) {
	all := doGet(t, "/api/v1/textbooks")
	defer all.Body.Close()
	everything := decodeJSON[[]textbookResponse](t, all)

	unknown := doGet(t, "/api/v1/textbooks?department=Astrology")
	defer unknown.Body.Close()
	unfiltered := decodeJSON[[]textbookResponse](t, unknown)

	if len(unfiltered) != len(everything) {
		t.Errorf("unknown label filtered: got %d, want %d", len(unfiltered), len(everything))
	}
}

func TestFilterOptions(t *testing.T) {
	resp := doGet(t, "/api/v1/textbooks/filters")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	opts := decodeJSON[struct {
		Departments []string `json:"departments"`
		Levels      []string `json:"levels"`
	}](t, resp)

	if len(opts.Departments) == 0 || opts.Departments[0] != "All Departments" {
		t.Errorf("departments: got %v", opts.Departments)
	}
	if len(opts.Levels) == 0 || opts.Levels[0] != "All Levels" {
		t.Errorf("levels: got %v", opts.Levels)
	}
}

func TestTextbookWrite_RequiresAuth(t *testing.T) {
	resp := doPost(t, "/api/v1/textbooks", map[string]any{
		"title": "No Auth", "course_code": "X", "department": "computer_science", "level": "nd1",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRestock(t *testing.T) {
	token := loginStaff(t)
	book := createTextbook(t, token, "Restock Me", "9.00", 1)

	resp := doRequest(t, http.MethodPatch, "/api/v1/textbooks/"+book.ID, token,
		map[string]any{"stock": 30})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := decodeJSON[textbookResponse](t, resp).Stock; got != 30 {
		t.Errorf("stock: got %d, want 30", got)
	}
}

func TestDeleteTextbook_BlockedWhileOrdered(t *testing.T) {
	token := loginStaff(t)
	book := createTextbook(t, token, "Ordered Then Deleted", "9.00", 10)

	placed := placeOrder(t, orderItemRequest{TextbookID: book.ID, Quantity: 1})
	placed.Body.Close()
	if placed.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", placed.StatusCode)
	}

	del := doRequest(t, http.MethodDelete, "/api/v1/textbooks/"+book.ID, token, nil)
	defer del.Body.Close()
	if del.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", del.StatusCode)
	}

	// Order history keeps the book alive.
	if got := getTextbook(t, book.ID).ID; got != book.ID {
		t.Errorf("textbook disappeared after blocked delete")
	}
}

func TestDeleteTextbook_Unordered(t *testing.T) {
	token := loginStaff(t)
	book := createTextbook(t, token, "Never Ordered", "9.00", 10)

	del := doRequest(t, http.MethodDelete, "/api/v1/textbooks/"+book.ID, token, nil)
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}

	lookup := doGet(t, "/api/v1/textbooks/"+book.ID)
	defer lookup.Body.Close()
	if lookup.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", lookup.StatusCode)
	}
}

func TestDepartments_SeededAndListed(t *testing.T) {
	resp := doGet(t, "/api/v1/departments")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	departments := decodeJSON[[]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}](t, resp)

	if len(departments) < 12 {
		t.Fatalf("got %d departments, want at least 12", len(departments))
	}
}
