package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/solatis/bookkeeper/internal/types"
)

// Sentinel-to-HTTP mapping. Compiler and validation errors are the
// caller's fault and map to 422; lifecycle conflicts to 409; lookups to
// 404. Anything unrecognized is a 500 with the message withheld.

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": errorBody{Code: code, Message: message}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrRuleNotFound),
		errors.Is(err, types.ErrSectionNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"

	case errors.Is(err, types.ErrRuleActiveConflict),
		errors.Is(err, types.ErrSectionRuleConflict),
		errors.Is(err, types.ErrInvalidTransition):
		return fiber.StatusConflict, "CONFLICT"

	case errors.Is(err, types.ErrInvalidPagination):
		return fiber.StatusBadRequest, "INVALID_REQUEST"

	case errors.Is(err, types.ErrInvalidRule),
		errors.Is(err, types.ErrMissingParameter),
		errors.Is(err, types.ErrInvalidParameterType),
		errors.Is(err, types.ErrUnknownOperator),
		errors.Is(err, types.ErrUnknownJoinType),
		errors.Is(err, types.ErrUnresolvedTemplate),
		errors.Is(err, types.ErrEmptySelect),
		errors.Is(err, types.ErrInvalidValue):
		return fiber.StatusUnprocessableEntity, "VALIDATION_FAILED"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}
