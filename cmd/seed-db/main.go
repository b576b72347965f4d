// Command seed-db loads textbooks and departments into the database and
// provisions a staff account. Textbook files may be plain JSON or
// gzip-compressed JSON (.gz).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/edutext/edutext-api/internal/domain/catalog"
	"github.com/edutext/edutext-api/internal/domain/user"
	"github.com/edutext/edutext-api/internal/repository"
)

type textbookJSON struct {
	ID          string          `json:"id"`
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

func main() {
	var (
		databaseURL   string
		textbooksFile string
		staffUsername string
		staffPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&textbooksFile, "textbooks-file", "db/seed/textbooks.json", "path to textbooks JSON file (.json or .json.gz)")
	flag.StringVar(&staffUsername, "staff-username", "admin", "username for the provisioned staff account")
	flag.StringVar(&staffPassword, "staff-password", "", "password for the staff account (or EDUTEXT_SEED_STAFF_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if staffPassword == "" {
		staffPassword = os.Getenv("EDUTEXT_SEED_STAFF_PASSWORD")
	}
	if staffPassword == "" {
		slog.Error("staff password is required: set --staff-password or EDUTEXT_SEED_STAFF_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, textbooksFile, staffUsername, staffPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, textbooksFile, staffUsername, staffPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedTextbooks(ctx, pool, textbooksFile); err != nil {
		return errors.Wrap(err, "seed textbooks")
	}

	if err := seedDepartments(ctx, pool); err != nil {
		return errors.Wrap(err, "seed departments")
	}

	if err := seedStaffUser(ctx, pool, staffUsername, staffPassword); err != nil {
		return errors.Wrap(err, "seed staff user")
	}

	return nil
}

// readSeedFile opens a seed file, transparently gunzipping .gz files.
func readSeedFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

const upsertTextbookSQL = `
INSERT INTO textbooks (id, title, course_code, department, level, price, description, stock, image_url, is_popular, is_new)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    course_code = EXCLUDED.course_code,
    department = EXCLUDED.department,
    level = EXCLUDED.level,
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    stock = EXCLUDED.stock,
    image_url = EXCLUDED.image_url,
    is_popular = EXCLUDED.is_popular,
    is_new = EXCLUDED.is_new,
    updated_at = now()`

func seedTextbooks(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading textbooks file", slog.String("path", path))

	data, err := readSeedFile(path)
	if err != nil {
		return err
	}

	var books []textbookJSON
	if err := json.Unmarshal(data, &books); err != nil {
		return errors.Wrap(err, "parse textbooks JSON")
	}

	slog.Info("upserting textbooks", slog.Int("count", len(books)))

	for _, b := range books {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if !catalog.ValidDepartment(b.Department) {
			return errors.Errorf("textbook %s: unknown department %q", b.Title, b.Department)
		}
		if !catalog.ValidLevel(b.Level) {
			return errors.Errorf("textbook %s: unknown level %q", b.Title, b.Level)
		}

		_, err := pool.Exec(ctx, upsertTextbookSQL,
			b.ID, b.Title, b.CourseCode, b.Department, b.Level,
			b.Price, b.Description, b.Stock, b.ImageURL, b.IsPopular, b.IsNew,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert textbook %s", b.ID)
		}

		slog.Info("upserted textbook", slog.String("id", b.ID), slog.String("title", b.Title))
	}

	return nil
}

const upsertDepartmentSQL = `
INSERT INTO departments (id, name, code)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code`

func seedDepartments(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding departments", slog.Int("count", len(catalog.Departments)))

	for _, d := range catalog.Departments {
		if _, err := pool.Exec(ctx, upsertDepartmentSQL, d.Value, d.Label, departmentCode(d.Label)); err != nil {
			return errors.Wrapf(err, "upsert department %s", d.Value)
		}
	}

	return nil
}

// departmentCode derives a short code from the label initials, e.g.
// "Science Laboratory Technology" becomes "SLT".
func departmentCode(label string) string {
	var b strings.Builder
	for _, word := range strings.Fields(label) {
		b.WriteByte(word[0])
	}
	return strings.ToUpper(b.String())
}

const upsertStaffSQL = `
INSERT INTO users (id, username, role, password_hash)
VALUES ($1, $2, 'staff', $3)
ON CONFLICT (username) DO UPDATE SET role = 'staff', password_hash = EXCLUDED.password_hash`

func seedStaffUser(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	slog.Info("seeding staff user", slog.String("username", username))

	hash, err := user.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, upsertStaffSQL, uuid.New().String(), username, hash); err != nil {
		return errors.Wrapf(err, "upsert staff user %s", username)
	}

	return nil
}
