// Package sqlgen compiles declarative query plans and ad-hoc filters into
// parameterized SQL text plus bound values.
//
// The package is a pure, stateless transformation: every compile call reads
// only its own input and allocates only local buffers, so callers may run
// any number of compilations concurrently without synchronization. Nothing
// here executes SQL; execution belongs to the persistence collaborator.
package sqlgen

import (
	"fmt"

	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Operator table.
 *
 * Operators form a closed enum with an exhaustive switch in the renderer,
 * so adding an operator is a compiler-checked change rather than a
 * stringly-typed lookup. Each operator carries an arity class that pins how
 * many bound values it consumes:
 *
 *   - scalar: one bind (eq, ne, gt, gte, lt, lte, like, not_like, ilike)
 *   - list:   N binds, one per element (in, not_in)
 *   - pair:   exactly two binds (between)
 *   - none:   no binds (is_null, is_not_null)
 *
 * like/ilike values pass through unescaped except for binding; wildcard
 * characters in user input are the caller's responsibility.
 */

// Operator identifies a comparison operator in the operator table.
type Operator int

const (
	OpUnknown Operator = iota
	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpLike
	OpNotLike
	OpILike
	OpIn
	OpNotIn
	OpBetween
	OpIsNull
	OpIsNotNull
)

// arity classes pin the bound-value count per operator.
type arity int

const (
	arityScalar arity = iota
	arityList
	arityPair
	arityNone
)

// Token returns the SQL fragment for the operator.
func (op Operator) Token() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpLike:
		return "LIKE"
	case OpNotLike:
		return "NOT LIKE"
	case OpILike:
		return "ILIKE"
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpBetween:
		return "BETWEEN"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	default:
		return ""
	}
}

// arity returns the operator's arity class.
func (op Operator) arity() arity {
	switch op {
	case OpIn, OpNotIn:
		return arityList
	case OpBetween:
		return arityPair
	case OpIsNull, OpIsNotNull:
		return arityNone
	default:
		return arityScalar
	}
}

// planOperators maps the stored QueryPlan operator symbols (the JSON
// compatibility contract) to the closed enum.
var planOperators = map[string]Operator{
	"=":           OpEq,
	"!=":          OpNe,
	">":           OpGt,
	">=":          OpGte,
	"<":           OpLt,
	"<=":          OpLte,
	"LIKE":        OpLike,
	"NOT LIKE":    OpNotLike,
	"ILIKE":       OpILike,
	"IN":          OpIn,
	"NOT IN":      OpNotIn,
	"BETWEEN":     OpBetween,
	"IS NULL":     OpIsNull,
	"IS NOT NULL": OpIsNotNull,
}

// filterOperators maps the ad-hoc filter operator names to the closed enum.
// The filter path deliberately exposes a smaller surface than stored plans.
var filterOperators = map[string]Operator{
	"eq":     OpEq,
	"ne":     OpNe,
	"gt":     OpGt,
	"gte":    OpGte,
	"lt":     OpLt,
	"lte":    OpLte,
	"in":     OpIn,
	"not_in": OpNotIn,
	"like":   OpLike,
	"ilike":  OpILike,
}

// ParsePlanOperator resolves a stored plan operator symbol.
func ParsePlanOperator(symbol string) (Operator, error) {
	op, ok := planOperators[symbol]
	if !ok {
		return OpUnknown, fmt.Errorf("%w: %q", types.ErrUnknownOperator, symbol)
	}
	return op, nil
}

// ParseFilterOperator resolves an ad-hoc filter operator name.
func ParseFilterOperator(name string) (Operator, error) {
	op, ok := filterOperators[name]
	if !ok {
		return OpUnknown, fmt.Errorf("%w: %q", types.ErrUnknownOperator, name)
	}
	return op, nil
}

// JoinType identifies a join variant in a query plan.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

// Token returns the SQL join keyword.
func (j JoinType) Token() string {
	switch j {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL OUTER JOIN"
	default:
		return "INNER JOIN"
	}
}

// ParseJoinType resolves a stored plan join type.
func ParseJoinType(s string) (JoinType, error) {
	switch s {
	case "INNER":
		return JoinInner, nil
	case "LEFT":
		return JoinLeft, nil
	case "RIGHT":
		return JoinRight, nil
	case "FULL":
		return JoinFull, nil
	default:
		return JoinInner, fmt.Errorf("%w: %q", types.ErrUnknownJoinType, s)
	}
}

// LogicalOperator chains adjacent where clauses.
type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

// Token returns the SQL connective keyword.
func (l LogicalOperator) Token() string {
	if l == LogicalOr {
		return "OR"
	}
	return "AND"
}

// parseLogicalOperator resolves a clause connective. Empty defaults to AND;
// the terminal-clause rule is enforced by the caller, not here.
func parseLogicalOperator(s string) (LogicalOperator, error) {
	switch s {
	case "", "AND":
		return LogicalAnd, nil
	case "OR":
		return LogicalOr, nil
	default:
		return LogicalAnd, fmt.Errorf("%w: logical operator %q", types.ErrUnknownOperator, s)
	}
}
