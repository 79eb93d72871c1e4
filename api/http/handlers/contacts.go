package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/enrich/api/http/presenter"
	"github.com/artem13815/enrich/pkg/contact"
)

type ContactHandler struct {
	uc  contact.UseCase
	log *slog.Logger
}

func NewContactHandler(uc contact.UseCase, log *slog.Logger) *ContactHandler {
	return &ContactHandler{uc: uc, log: log.With("component", "contact_handler")}
}

type enrichRequest struct {
	Email string `json:"email"`
}

type bulkEnrichRequest struct {
	Emails []string `json:"emails"`
}

type upsertContactRequest struct {
	FullName    *string `json:"full_name"`
	Department  *string `json:"department"`
	JobTitle    *string `json:"job_title"`
	PhoneNumber *string `json:"phone_number"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
}

// EnrichResponse wraps a single lookup.
type EnrichResponse struct {
	Email    string           `json:"email"`
	Enriched bool             `json:"enriched"`
	Data     *contact.Contact `json:"data"`
}

// @Summary  Enrich an email address
// @Tags     contacts
// @Produce  json
// @Param    email path string true "email address"
// @Security BearerAuth
// @Success  200 {object} EnrichResponse
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} map[string]any
// @Router   /contacts/enrich/{email} [get]
func (h *ContactHandler) Enrich(c *fiber.Ctx) error {
	email := c.Params("email")
	ct, err := h.uc.Enrich(c.UserContext(), email)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			return presenter.JSON(c, http.StatusNotFound, fiber.Map{
				"error":    "Contact not found",
				"message":  "No contact information found for this email",
				"email":    contact.NormalizeEmail(email),
				"enriched": false,
			})
		}
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, EnrichResponse{Email: ct.Email, Enriched: true, Data: &ct})
}

// EnrichBody is the body-based lookup used by the add-in. A miss is not an
// error here: it answers 200 with a null contact.
// @Summary  Enrich an email address from the request body
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    input body enrichRequest true "email address"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /contacts/enrich [post]
func (h *ContactHandler) EnrichBody(c *fiber.Ctx) error {
	var req enrichRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	ct, err := h.uc.Enrich(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			h.log.DebugContext(c.UserContext(), "no contact found", "email", contact.NormalizeEmail(req.Email))
			return presenter.JSON(c, http.StatusOK, fiber.Map{"contact": nil})
		}
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"contact": ct})
}

// @Summary  Enrich several email addresses
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    input body bulkEnrichRequest true "up to 50 addresses"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /contacts/enrich/bulk [post]
func (h *ContactHandler) BulkEnrich(c *fiber.Ctx) error {
	var req bulkEnrichRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	results, err := h.uc.BulkEnrich(c.UserContext(), req.Emails)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	enriched := 0
	for _, r := range results {
		if r.Enriched {
			enriched++
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"results":        results,
		"total":          len(results),
		"enriched_count": enriched,
	})
}

// @Summary  Search contacts
// @Tags     contacts
// @Produce  json
// @Param    q     query string true  "search term"
// @Param    limit query int    false "1..100, default 10"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /contacts/search [get]
func (h *ContactHandler) Search(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	q := c.Query("q")
	list, err := h.uc.Search(c.UserContext(), q, limit)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"query":   q,
		"results": list,
		"count":   len(list),
	})
}

// @Summary  List contacts of a department
// @Tags     contacts
// @Produce  json
// @Param    department path  string true  "department name"
// @Param    limit      query int    false "1..100, default 50"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Router   /contacts/department/{department} [get]
func (h *ContactHandler) ByDepartment(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	dept := c.Params("department")
	list, err := h.uc.ByDepartment(c.UserContext(), dept, limit)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"department": dept,
		"contacts":   list,
		"count":      len(list),
	})
}

// @Summary  List contacts
// @Tags     contacts
// @Produce  json
// @Param    limit  query int false "1..100, default 50"
// @Param    offset query int false "offset"
// @Security BearerAuth
// @Success  200 {object} map[string]any
// @Router   /contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	limit, offset, err := parseLimitOffset(c)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	list, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	if limit == 0 {
		limit = contact.DefaultListLimit
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"contacts": list,
		"count":    len(list),
		"limit":    limit,
		"offset":   offset,
	})
}

// @Summary  Contact directory statistics
// @Tags     contacts
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} contact.Stats
// @Router   /contacts/stats [get]
func (h *ContactHandler) Stats(c *fiber.Ctx) error {
	st, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, st)
}

// @Summary  Create or replace a contact
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    email path string true "email address"
// @Param    input body upsertContactRequest true "contact fields"
// @Security BearerAuth
// @Success  200 {object} contact.Contact
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /contacts/{email} [put]
func (h *ContactHandler) Upsert(c *fiber.Ctx) error {
	var req upsertContactRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	ct, err := h.uc.Upsert(c.UserContext(), contact.Contact{
		Email:       c.Params("email"),
		FullName:    req.FullName,
		Department:  req.Department,
		JobTitle:    req.JobTitle,
		PhoneNumber: req.PhoneNumber,
		Company:     req.Company,
		Location:    req.Location,
	})
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, ct)
}

// @Summary  Update selected contact fields
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    email path string        true "email address"
// @Param    input body contact.Patch true "fields to change"
// @Security BearerAuth
// @Success  200 {object} contact.Contact
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /contacts/{email} [patch]
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	var p contact.Patch
	if err := c.BodyParser(&p); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid request", "invalid JSON payload")
	}
	ct, err := h.uc.Update(c.UserContext(), c.Params("email"), p)
	if err != nil {
		return presenter.FromError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, ct)
}
