package sqlgen

import (
	"strings"
)

/*
 * Ad-hoc filter compilation.
 *
 * FilterSpec is the slice-backed form of "field -> operator -> value" used
 * by paginated list/count queries. A slice rather than a map keeps
 * insertion order, which the compiler preserves in the emitted fragment so
 * identical specs always produce identical SQL.
 *
 * Documented limitations: predicates are AND-joined only (no OR, no
 * nesting), and field names are trusted identifiers supplied by calling
 * code, never raw request input. Callers expose at most an allow-listed
 * subset of fields over HTTP.
 */

// FilterCond is one field/operator/value predicate.
type FilterCond struct {
	Field string
	Op    string
	Value any
}

// FilterSpec is an ordered list of AND-joined predicates.
type FilterSpec []FilterCond

// Where appends a predicate with an explicit operator name.
func (f FilterSpec) Where(field, op string, value any) FilterSpec {
	return append(f, FilterCond{Field: field, Op: op, Value: value})
}

// Eq appends an implicit-equality predicate, the shorthand for a scalar
// filter value.
func (f FilterSpec) Eq(field string, value any) FilterSpec {
	return f.Where(field, "eq", value)
}

// CompileFilter compiles the spec into a WHERE fragment with positional `?`
// placeholders plus the bound values in placeholder order.
//
// tableAlias, when non-empty, prefixes every field as "alias.field".
// startIndex is the 1-based index of the first placeholder this fragment
// consumes; the returned next index lets callers chain fragments into one
// statement. An empty spec compiles to an empty fragment.
func CompileFilter(tableAlias string, spec FilterSpec, startIndex int) (string, []any, int, error) {
	if len(spec) == 0 {
		return "", nil, startIndex, nil
	}

	var sb strings.Builder
	binds := make([]any, 0, len(spec))

	for i, cond := range spec {
		op, err := ParseFilterOperator(cond.Op)
		if err != nil {
			return "", nil, startIndex, err
		}

		value := cond.Value
		if op.arity() == arityList {
			// Accept typed slices from calling code, not just []any.
			value = normalizeList(value)
		}

		field := cond.Field
		if tableAlias != "" {
			field = tableAlias + "." + field
		}

		pred, err := newPredicate(field, op, value)
		if err != nil {
			return "", nil, startIndex, err
		}

		if i > 0 {
			sb.WriteString(" AND ")
		}
		pred.renderPositional(&sb, &binds)
	}

	return sb.String(), binds, startIndex + len(binds), nil
}

// normalizeList widens common typed slices to []any so list operators can
// be built from idiomatic call sites ([]string{...}, []int{...}).
func normalizeList(value any) any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	case []int64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	case []float64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	default:
		return value
	}
}
