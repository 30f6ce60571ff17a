package types

import "errors"

// Sentinel errors for Bookkeeper operations. Compiler errors are
// synchronous, local and non-retryable; callers wrap them with the
// offending field or parameter name via fmt.Errorf("%w: ...").
var (
	// ErrUnknownOperator indicates a filter or where clause names an
	// operator missing from the operator table.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownJoinType indicates a join type outside INNER/LEFT/RIGHT/FULL.
	ErrUnknownJoinType = errors.New("unknown join type")

	// ErrMissingParameter indicates a required parameter without a default
	// was not supplied by the caller.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameterType indicates a supplied parameter value failed
	// type validation against its schema.
	ErrInvalidParameterType = errors.New("invalid parameter type")

	// ErrUnresolvedTemplate indicates a {{name}} token has no matching key
	// in the plan's parameter schema.
	ErrUnresolvedTemplate = errors.New("unresolved template parameter")

	// ErrEmptySelect indicates a plan with no select fields.
	ErrEmptySelect = errors.New("select clause has no fields")

	// ErrInvalidValue indicates an operator/value arity mismatch, such as
	// BETWEEN without exactly two values or IN with an empty list.
	ErrInvalidValue = errors.New("invalid value for operator")

	// ErrRuleActiveConflict indicates a mutation or delete attempted on an
	// ACTIVE rule. Deactivate first.
	ErrRuleActiveConflict = errors.New("rule is active")

	// ErrInvalidTransition indicates a status change outside the
	// DRAFT/ACTIVE/INACTIVE state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidRule indicates a rule violating a business invariant.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrRuleNotFound indicates the requested rule does not exist.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrSectionNotFound indicates the requested section does not exist.
	ErrSectionNotFound = errors.New("section not found")

	// ErrSectionRuleConflict indicates a delete attempted on a section
	// that rules still reference.
	ErrSectionRuleConflict = errors.New("section has rules")

	// ErrInvalidPagination indicates page/size outside the allowed range.
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
