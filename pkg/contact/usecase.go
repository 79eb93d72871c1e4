package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/artem13815/enrich/pkg/validation"
)

const (
	MaxBulkEmails      = 50
	MaxLimit           = 100
	DefaultSearchLimit = 10
	DefaultListLimit   = 50
)

// UseCase инкапсулирует сценарии обогащения контактов.
type UseCase interface {
	Enrich(ctx context.Context, email string) (Contact, error)
	BulkEnrich(ctx context.Context, emails []string) ([]BulkResult, error)
	Search(ctx context.Context, term string, limit int) ([]Contact, error)
	ByDepartment(ctx context.Context, department string, limit int) ([]Contact, error)
	List(ctx context.Context, limit, offset int) ([]Contact, error)
	Stats(ctx context.Context) (Stats, error)
	Upsert(ctx context.Context, c Contact) (Contact, error)
	Update(ctx context.Context, email string, p Patch) (Contact, error)
}

// EmailValidator reports whether an address is well formed.
type EmailValidator interface {
	Email(s string) bool
}

type service struct {
	repo   Repository
	emails EmailValidator
}

func NewService(repo Repository, emails EmailValidator) UseCase {
	return &service{repo: repo, emails: emails}
}

func (s *service) Enrich(ctx context.Context, email string) (Contact, error) {
	email = NormalizeEmail(email)
	if !s.emails.Email(email) {
		return Contact{}, validation.Field("email", "Please provide a valid email address")
	}
	return s.repo.GetByEmail(ctx, email)
}

// BulkEnrich looks up every address in one query and answers in request order.
func (s *service) BulkEnrich(ctx context.Context, emails []string) ([]BulkResult, error) {
	if len(emails) == 0 {
		return nil, validation.Field("emails", "Please provide an array of email addresses")
	}
	if len(emails) > MaxBulkEmails {
		return nil, validation.Field("emails", fmt.Sprintf("Maximum %d emails allowed per request", MaxBulkEmails))
	}
	var invalid []string
	keys := make([]string, 0, len(emails))
	for _, e := range emails {
		key := NormalizeEmail(e)
		if !s.emails.Email(key) {
			invalid = append(invalid, e)
			continue
		}
		keys = append(keys, key)
	}
	if len(invalid) > 0 {
		return nil, &InvalidEmailsError{Emails: invalid}
	}

	found, err := s.repo.GetByEmails(ctx, keys)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]Contact, len(found))
	for _, c := range found {
		byEmail[c.Email] = c
	}
	results := make([]BulkResult, 0, len(emails))
	for i, e := range emails {
		res := BulkResult{Email: e}
		if c, ok := byEmail[keys[i]]; ok {
			res.Enriched = true
			res.Data = &c
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *service) Search(ctx context.Context, term string, limit int) ([]Contact, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validation.Field("q", "Search query is required")
	}
	limit, err := checkLimit(limit, DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, term, limit)
}

func (s *service) ByDepartment(ctx context.Context, department string, limit int) ([]Contact, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, validation.Field("department", "Department name is required")
	}
	limit, err := checkLimit(limit, DefaultListLimit)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDepartment(ctx, department, limit)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Contact, error) {
	limit, err := checkLimit(limit, DefaultListLimit)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, validation.Field("offset", "Offset must be 0 or greater")
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *service) Upsert(ctx context.Context, c Contact) (Contact, error) {
	c.Email = NormalizeEmail(c.Email)
	if !s.emails.Email(c.Email) {
		return Contact{}, validation.Field("email", "Please provide a valid email address")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return s.repo.Upsert(ctx, c)
}

func (s *service) Update(ctx context.Context, email string, p Patch) (Contact, error) {
	email = NormalizeEmail(email)
	if !s.emails.Email(email) {
		return Contact{}, validation.Field("email", "Please provide a valid email address")
	}
	if p.Empty() {
		return s.repo.GetByEmail(ctx, email)
	}
	return s.repo.Update(ctx, email, p)
}

// checkLimit applies def to an unset limit and rejects values outside 1..MaxLimit.
func checkLimit(limit, def int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, validation.Field("limit", fmt.Sprintf("Limit must be between 1 and %d", MaxLimit))
	}
	return limit, nil
}
