package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/artem13815/enrich/pkg/contact"
)

// ContactRepository хранит справочные данные контактов.
type ContactRepository struct {
	db      DB
	timeout time.Duration
}

func NewContactRepository(db DB, timeout time.Duration) *ContactRepository {
	return &ContactRepository{db: db, timeout: timeout}
}

const contactColumns = `id, email, full_name, department, job_title, phone_number, company, location, created_at, updated_at`

func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE email = $1`, contact.NormalizeEmail(email))
	return r.get(row, "select contact")
}

func (r *ContactRepository) GetByEmails(ctx context.Context, emails []string) ([]contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	keys := make([]string, len(emails))
	for i, e := range emails {
		keys[i] = contact.NormalizeEmail(e)
	}
	rows, err := r.db.Query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE email = ANY($1)`, keys)
	return r.list(rows, err, "select contacts by email")
}

// Search ranks exact email, exact name, email substring, name substring, then the rest.
func (r *ContactRepository) Search(ctx context.Context, term string, limit int) ([]contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	term = strings.ToLower(strings.TrimSpace(term))
	rows, err := r.db.Query(ctx, `
SELECT `+contactColumns+` FROM contacts
WHERE LOWER(email) LIKE $1
	OR LOWER(full_name) LIKE $1
	OR LOWER(department) LIKE $1
	OR LOWER(job_title) LIKE $1
	OR LOWER(company) LIKE $1
ORDER BY
	CASE
		WHEN LOWER(email) = $2 THEN 1
		WHEN LOWER(full_name) = $2 THEN 2
		WHEN LOWER(email) LIKE $1 THEN 3
		WHEN LOWER(full_name) LIKE $1 THEN 4
		ELSE 5
	END,
	full_name
LIMIT $3
`, "%"+escapeLike(term)+"%", term, limit)
	return r.list(rows, err, "search contacts")
}

func (r *ContactRepository) ListByDepartment(ctx context.Context, department string, limit int) ([]contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
SELECT `+contactColumns+` FROM contacts
WHERE LOWER(department) = $1
ORDER BY full_name
LIMIT $2
`, strings.ToLower(strings.TrimSpace(department)), limit)
	return r.list(rows, err, "list contacts by department")
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = contact.DefaultListLimit
	}
	rows, err := r.db.Query(ctx, `
SELECT `+contactColumns+` FROM contacts
ORDER BY full_name
LIMIT $1 OFFSET $2
`, limit, offset)
	return r.list(rows, err, "list contacts")
}

func (r *ContactRepository) Stats(ctx context.Context) (contact.Stats, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var s contact.Stats
	err := r.db.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(DISTINCT department),
	COUNT(DISTINCT company),
	COUNT(phone_number)
FROM contacts
`).Scan(&s.TotalContacts, &s.TotalDepartments, &s.TotalCompanies, &s.ContactsWithPhone)
	if err != nil {
		return contact.Stats{}, storeError("contact stats", err)
	}
	return s, nil
}

// Upsert inserts a contact or replaces every field of the one with the same email.
func (r *ContactRepository) Upsert(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
INSERT INTO contacts (id, email, full_name, department, job_title, phone_number, company, location)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (email) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	department = EXCLUDED.department,
	job_title = EXCLUDED.job_title,
	phone_number = EXCLUDED.phone_number,
	company = EXCLUDED.company,
	location = EXCLUDED.location,
	updated_at = now()
RETURNING `+contactColumns,
		c.ID, contact.NormalizeEmail(c.Email), c.FullName, c.Department, c.JobTitle, c.PhoneNumber, c.Company, c.Location)
	return r.get(row, "upsert contact")
}

// Update applies a typed patch. Every updatable column has a fixed assignment;
// a NULL parameter keeps the stored value.
func (r *ContactRepository) Update(ctx context.Context, email string, p contact.Patch) (contact.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
UPDATE contacts SET
	full_name = COALESCE($2, full_name),
	department = COALESCE($3, department),
	job_title = COALESCE($4, job_title),
	phone_number = COALESCE($5, phone_number),
	company = COALESCE($6, company),
	location = COALESCE($7, location),
	updated_at = now()
WHERE email = $1
RETURNING `+contactColumns,
		contact.NormalizeEmail(email), p.FullName, p.Department, p.JobTitle, p.PhoneNumber, p.Company, p.Location)
	return r.get(row, "update contact")
}

func (r *ContactRepository) get(row pgx.Row, op string) (contact.Contact, error) {
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, storeError(op, err)
	}
	return c, nil
}

func (r *ContactRepository) list(rows pgx.Rows, err error, op string) ([]contact.Contact, error) {
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	res := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return res, nil
}

func scanContact(row pgx.Row) (contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(&c.ID, &c.Email, &c.FullName, &c.Department, &c.JobTitle,
		&c.PhoneNumber, &c.Company, &c.Location, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return contact.Contact{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
