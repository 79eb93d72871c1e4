package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is directory data used to enrich an email sender or recipient.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	Department  *string   `json:"department"`
	JobTitle    *string   `json:"job_title"`
	PhoneNumber *string   `json:"phone_number"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch lists the updatable fields. A nil field is left unchanged; id and email
// are not patchable.
type Patch struct {
	FullName    *string `json:"full_name"`
	Department  *string `json:"department"`
	JobTitle    *string `json:"job_title"`
	PhoneNumber *string `json:"phone_number"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
}

func (p Patch) Empty() bool {
	return p.FullName == nil && p.Department == nil && p.JobTitle == nil &&
		p.PhoneNumber == nil && p.Company == nil && p.Location == nil
}

type Stats struct {
	TotalContacts     int64 `json:"total_contacts"`
	TotalDepartments  int64 `json:"total_departments"`
	TotalCompanies    int64 `json:"total_companies"`
	ContactsWithPhone int64 `json:"contacts_with_phone"`
}

type BulkResult struct {
	Email    string   `json:"email"`
	Enriched bool     `json:"enriched"`
	Data     *Contact `json:"data"`
}

var ErrNotFound = errors.New("contact not found")

// InvalidEmailsError lists the rejected addresses of a bulk request.
type InvalidEmailsError struct {
	Emails []string
}

func (e *InvalidEmailsError) Error() string {
	return "invalid email addresses: " + strings.Join(e.Emails, ", ")
}

// Repository описывает хранилище контактов.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (Contact, error)
	GetByEmails(ctx context.Context, emails []string) ([]Contact, error)
	Search(ctx context.Context, term string, limit int) ([]Contact, error)
	ListByDepartment(ctx context.Context, department string, limit int) ([]Contact, error)
	List(ctx context.Context, limit, offset int) ([]Contact, error)
	Stats(ctx context.Context) (Stats, error)
	Upsert(ctx context.Context, c Contact) (Contact, error)
	Update(ctx context.Context, email string, p Patch) (Contact, error)
}

// NormalizeEmail is the lookup key for a contact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
