package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/edutext/edutext-api/internal/domain/catalog"
	"github.com/edutext/edutext-api/internal/domain/department"
	"github.com/edutext/edutext-api/internal/domain/order"
	"github.com/edutext/edutext-api/internal/domain/user"
)

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard error body: {"code": ..., "message": ...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	// Prices serialize as JSON numbers with two fraction digits.
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}

func encodeTextbook(e *jx.Encoder, t catalog.Textbook) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(t.ID)
	e.FieldStart("title")
	e.Str(t.Title)
	e.FieldStart("course_code")
	e.Str(t.CourseCode)
	e.FieldStart("department")
	e.Str(t.Department)
	e.FieldStart("level")
	e.Str(t.Level)
	e.FieldStart("price")
	encodeDecimal(e, t.Price)
	e.FieldStart("description")
	e.Str(t.Description)
	e.FieldStart("stock")
	e.Int(t.Stock)
	e.FieldStart("image_url")
	e.Str(t.ImageURL)
	e.FieldStart("is_popular")
	e.Bool(t.IsPopular)
	e.FieldStart("is_new")
	e.Bool(t.IsNew)
	e.FieldStart("created_at")
	encodeTime(e, t.CreatedAt)
	e.FieldStart("updated_at")
	encodeTime(e, t.UpdatedAt)
	e.ObjEnd()
}

func encodeDepartment(e *jx.Encoder, d department.Department) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(d.ID)
	e.FieldStart("name")
	e.Str(d.Name)
	e.FieldStart("code")
	e.Str(d.Code)
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("reference")
	e.Str(o.Reference)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("total_amount")
	encodeDecimal(e, o.Total)
	e.FieldStart("student_name")
	e.Str(o.Student.Name)
	e.FieldStart("student_email")
	e.Str(o.Student.Email)
	e.FieldStart("matric_number")
	e.Str(o.Student.MatricNumber)
	e.FieldStart("department")
	e.Str(o.Student.Department)
	e.FieldStart("level")
	e.Str(o.Student.Level)
	e.FieldStart("phone_number")
	e.Str(o.Student.PhoneNumber)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		e.ObjStart()
		e.FieldStart("textbook_id")
		e.Str(it.TextbookID)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("price")
		encodeDecimal(e, it.Price)
		e.FieldStart("book_title")
		e.Str(it.BookTitle)
		e.FieldStart("course_code")
		e.Str(it.CourseCode)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("created_at")
	encodeTime(e, o.CreatedAt)
	e.ObjEnd()
}

// encodeUser never includes the password hash.
func encodeUser(e *jx.Encoder, u user.User) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(u.ID)
	e.FieldStart("username")
	e.Str(u.Username)
	e.FieldStart("email")
	e.Str(u.Email)
	e.FieldStart("first_name")
	e.Str(u.FirstName)
	e.FieldStart("last_name")
	e.Str(u.LastName)
	e.FieldStart("role")
	e.Str(string(u.Role))
	e.FieldStart("department")
	e.Str(u.Department)
	e.FieldStart("level")
	e.Str(u.Level)
	e.FieldStart("matric_number")
	e.Str(u.MatricNumber)
	e.FieldStart("phone_number")
	e.Str(u.PhoneNumber)
	e.ObjEnd()
}

func encodeStrings(e *jx.Encoder, values []string) {
	e.ArrStart()
	for _, v := range values {
		e.Str(v)
	}
	e.ArrEnd()
}
