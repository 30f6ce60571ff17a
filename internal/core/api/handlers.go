// Package api exposes the rule catalog and compiler over HTTP.
//
// Handlers stay thin: business invariants live in internal/rules,
// compilation in internal/sqlgen, persistence in internal/core/db. A
// handler parses the request, calls through, and maps sentinel errors
// to status codes in errors.go.
package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/solatis/bookkeeper/internal/core/db"
	"github.com/solatis/bookkeeper/internal/rules"
	"github.com/solatis/bookkeeper/internal/sqlgen"
	"github.com/solatis/bookkeeper/internal/types"
)

const defaultPageSize = 20

// Handler serves the rule and section endpoints.
type Handler struct {
	db       *sqlx.DB
	rules    *db.RuleRepository
	sections *db.SectionRepository
}

// NewHandler creates a handler over the repositories.
func NewHandler(database *sqlx.DB, ruleRepo *db.RuleRepository, sectionRepo *db.SectionRepository) *Handler {
	return &Handler{db: database, rules: ruleRepo, sections: sectionRepo}
}

// RegisterRoutes mounts every endpoint on the app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/healthz", h.Health)

	app.Post("/rules", h.CreateRule)
	app.Get("/rules", h.ListRules)
	app.Get("/rules/:id", h.GetRule)
	app.Put("/rules/:id", h.UpdateRule)
	app.Delete("/rules/:id", h.DeleteRule)
	app.Patch("/rules/:id/status", h.UpdateRuleStatus)
	app.Post("/rules/:id/sql", h.CompileRuleSQL)
	app.Get("/rules/:id/parameters", h.GetRuleParameters)

	app.Post("/sections", h.CreateSection)
	app.Get("/sections", h.ListSections)
	app.Get("/sections/:id", h.GetSection)
	app.Delete("/sections/:id", h.DeleteSection)
}

// Health reports liveness and database reachability.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- Rule endpoints ---

func (h *Handler) CreateRule(c *fiber.Ctx) error {
	var in rules.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	if _, err := h.sections.FindByID(c.Context(), in.SectionID); err != nil {
		if errors.Is(err, types.ErrSectionNotFound) {
			return respondError(c, fmt.Errorf("%w: section %s does not exist", types.ErrInvalidRule, in.SectionID))
		}
		return respondError(c, err)
	}

	rule, err := rules.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.rules.Insert(c.Context(), rule); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": rule})
}

func (h *Handler) ListRules(c *fiber.Ctx) error {
	p, err := paginationFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	var filter sqlgen.FilterSpec
	for _, field := range []string{"profile_type", "balance_type", "status", "section_id"} {
		if v := c.Query(field); v != "" {
			filter = filter.Eq(field, v)
		}
	}

	page, err := h.rules.FindAll(c.Context(), p, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": page})
}

func (h *Handler) GetRule(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rule})
}

func (h *Handler) UpdateRule(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}

	var in rules.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	if in.SectionID != nil {
		if _, err := h.sections.FindByID(c.Context(), *in.SectionID); err != nil {
			if errors.Is(err, types.ErrSectionNotFound) {
				return respondError(c, fmt.Errorf("%w: section %s does not exist", types.ErrInvalidRule, *in.SectionID))
			}
			return respondError(c, err)
		}
	}

	if err := rules.Update(rule, in); err != nil {
		return respondError(c, err)
	}
	if err := h.rules.Update(c.Context(), rule); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rule})
}

func (h *Handler) DeleteRule(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := rules.CheckDelete(rule); err != nil {
		return respondError(c, err)
	}
	if err := h.rules.Delete(c.Context(), rule.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": rule.ID, "deleted": true}})
}

func (h *Handler) UpdateRuleStatus(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Status types.RuleStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	from := rule.Status
	if err := rules.Transition(rule, body.Status); err != nil {
		return respondError(c, err)
	}
	if rule.Status != from {
		if err := h.rules.UpdateStatus(c.Context(), rule.ID, from, rule.Status); err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(fiber.Map{"data": rule})
}

// CompileRuleSQL resolves the supplied parameters against the rule's
// schema and returns the SQL text plus its named bind map. The statement
// is never executed here.
func (h *Handler) CompileRuleSQL(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Parameters map[string]any `json:"parameters"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return badBody(c)
		}
	}

	resolved, err := sqlgen.ResolveParams(rule.Config.Parameters, body.Parameters)
	if err != nil {
		return respondError(c, err)
	}
	compiled, err := sqlgen.CompileRule(rule.Config, resolved)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"rule_id":  rule.ID,
		"sql_text": compiled.SQL,
		"binds":    compiled.Binds,
	}})
}

func (h *Handler) GetRuleParameters(c *fiber.Ctx) error {
	rule, err := h.loadRule(c)
	if err != nil {
		return respondError(c, err)
	}
	params := rule.Config.Parameters
	if params == nil {
		params = map[string]types.ParameterSpec{}
	}
	return c.JSON(fiber.Map{"data": params})
}

// --- Section endpoints ---

func (h *Handler) CreateSection(c *fiber.Ctx) error {
	var in rules.SectionInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	section, err := rules.CreateSection(in)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.sections.Insert(c.Context(), section); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": section})
}

func (h *Handler) ListSections(c *fiber.Ctx) error {
	sections, err := h.sections.FindAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": sections})
}

func (h *Handler) GetSection(c *fiber.Ctx) error {
	id, err := types.ParseSectionID(c.Params("id"))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %v", types.ErrSectionNotFound, err))
	}
	section, err := h.sections.FindByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": section})
}

func (h *Handler) DeleteSection(c *fiber.Ctx) error {
	id, err := types.ParseSectionID(c.Params("id"))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %v", types.ErrSectionNotFound, err))
	}
	if err := h.sections.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

// --- Helpers ---

func (h *Handler) loadRule(c *fiber.Ctx) (*types.Rule, error) {
	id, err := types.ParseRuleID(c.Params("id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRuleNotFound, err)
	}
	return h.rules.FindByID(c.Context(), id)
}

func paginationFromQuery(c *fiber.Ctx) (types.PaginationParams, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return types.PaginationParams{}, err
	}
	size, err := intQuery(c, "size", defaultPageSize)
	if err != nil {
		return types.PaginationParams{}, err
	}
	return types.NewPaginationParams(page, size)
}

func intQuery(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", types.ErrInvalidPagination, name, raw)
	}
	return v, nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": errorBody{Code: "INVALID_PAYLOAD", Message: "invalid JSON body"},
	})
}
