package sqlgen

import (
	"fmt"
	"strings"

	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Predicate AST and renderers.
 *
 * Predicates are built and arity-checked once, then rendered to text with
 * the bound values collected in the same walk. Text and binds come from a
 * single pass over the same node, so placeholder numbering cannot drift
 * from the emitted fragment.
 *
 * Two renderers share the AST: the ad-hoc filter path emits positional `?`
 * placeholders (rebound downstream via sqlx.Rebind), the rule path emits
 * freshly named `:pN` placeholders collected into a bind map.
 */

// predicate is one arity-checked comparison ready for rendering.
type predicate struct {
	field string
	op    Operator
	args  []any
}

// newPredicate validates the operator/value arity and normalizes the value
// into the argument list: one element for scalar operators, two for
// BETWEEN, N for IN/NOT IN, zero for null checks.
func newPredicate(field string, op Operator, value any) (predicate, error) {
	p := predicate{field: field, op: op}

	switch op.arity() {
	case arityNone:
		if value != nil {
			return p, fmt.Errorf("%w: %s takes no value", types.ErrInvalidValue, op.Token())
		}
	case arityScalar:
		if _, ok := value.([]any); ok {
			return p, fmt.Errorf("%w: %s requires a scalar value", types.ErrInvalidValue, op.Token())
		}
		p.args = []any{value}
	case arityList:
		list, ok := value.([]any)
		if !ok || len(list) == 0 {
			return p, fmt.Errorf("%w: %s requires a non-empty list", types.ErrInvalidValue, op.Token())
		}
		p.args = list
	case arityPair:
		pair, ok := value.([]any)
		if !ok || len(pair) != 2 {
			return p, fmt.Errorf("%w: BETWEEN requires exactly 2 values", types.ErrInvalidValue)
		}
		p.args = pair
	}

	return p, nil
}

// renderPositional writes the predicate with `?` placeholders and appends
// the bound values to binds in placeholder order.
func (p predicate) renderPositional(sb *strings.Builder, binds *[]any) {
	sb.WriteString(p.field)
	sb.WriteByte(' ')
	sb.WriteString(p.op.Token())

	switch p.op.arity() {
	case arityNone:
	case arityScalar:
		sb.WriteString(" ?")
		*binds = append(*binds, p.args[0])
	case arityPair:
		sb.WriteString(" ? AND ?")
		*binds = append(*binds, p.args[0], p.args[1])
	case arityList:
		sb.WriteString(" (")
		for i, arg := range p.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('?')
			*binds = append(*binds, arg)
		}
		sb.WriteByte(')')
	}
}

// nameGen hands out deterministic bind placeholder names p1, p2, ...
type nameGen struct {
	n int
}

func (g *nameGen) next() string {
	g.n++
	return fmt.Sprintf("p%d", g.n)
}

// renderNamed writes the predicate with `:name` placeholders, registering
// each bound value in binds under a freshly generated name.
func (p predicate) renderNamed(sb *strings.Builder, binds map[string]any, gen *nameGen) {
	sb.WriteString(p.field)
	sb.WriteByte(' ')
	sb.WriteString(p.op.Token())

	bind := func(v any) {
		name := gen.next()
		binds[name] = v
		sb.WriteByte(':')
		sb.WriteString(name)
	}

	switch p.op.arity() {
	case arityNone:
	case arityScalar:
		sb.WriteByte(' ')
		bind(p.args[0])
	case arityPair:
		sb.WriteByte(' ')
		bind(p.args[0])
		sb.WriteString(" AND ")
		bind(p.args[1])
	case arityList:
		sb.WriteString(" (")
		for i, arg := range p.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			bind(arg)
		}
		sb.WriteByte(')')
	}
}
