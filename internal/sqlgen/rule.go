package sqlgen

import (
	"fmt"
	"strings"

	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Rule compilation.
 *
 * CompileRule turns a QueryPlan plus a resolved parameter map (see
 * ResolveParams) into one parameterized SELECT statement and a name->value
 * bind map. Pure and deterministic: identical inputs yield byte-identical
 * SQL and identical bind maps.
 *
 * Clause order is fixed: SELECT, FROM, joins, WHERE, GROUP BY, HAVING,
 * ORDER BY, one clause per line, empty clauses omitted. Values always
 * become :pN binds; the only strings spliced into the text are the plan's
 * own field/expression/on fragments, which are author-trusted (see
 * internal/types plan.go).
 *
 * Optional-filter behavior: a clause whose value references a declared
 * optional parameter that resolved to absent is dropped together with its
 * trailing connective, so the surviving chain never starts or ends with a
 * dangling AND/OR.
 */

// Compiled is the output of a rule compilation.
type Compiled struct {
	SQL   string
	Binds map[string]any
}

// CompileRule compiles the plan against a resolved parameter map.
func CompileRule(plan *types.QueryPlan, resolved map[string]any) (*Compiled, error) {
	if len(plan.Select.Fields) == 0 {
		return nil, types.ErrEmptySelect
	}
	if strings.TrimSpace(plan.From.MainTable) == "" {
		return nil, fmt.Errorf("%w: from.main_table is empty", types.ErrInvalidValue)
	}

	binds := make(map[string]any)
	gen := &nameGen{}
	var parts []string

	parts = append(parts, buildSelect(plan.Select.Fields))
	parts = append(parts, buildFrom(plan.From))

	for _, join := range plan.Joins {
		line, err := buildJoin(join)
		if err != nil {
			return nil, err
		}
		parts = append(parts, line)
	}

	where, err := buildChain(plan.Conditions.Where, plan.Parameters, resolved, true)
	if err != nil {
		return nil, err
	}
	if len(where) > 0 {
		parts = append(parts, "WHERE "+renderChain(where, binds, gen))
	}

	if len(plan.GroupBy) > 0 {
		parts = append(parts, "GROUP BY "+strings.Join(plan.GroupBy, ", "))
	}

	// HAVING reuses the where-clause machinery but chains with AND only.
	having, err := buildChain(plan.Having, plan.Parameters, resolved, false)
	if err != nil {
		return nil, err
	}
	if len(having) > 0 {
		parts = append(parts, "HAVING "+renderChain(having, binds, gen))
	}

	if len(plan.OrderBy) > 0 {
		orderBy, err := buildOrderBy(plan.OrderBy)
		if err != nil {
			return nil, err
		}
		parts = append(parts, orderBy)
	}

	return &Compiled{SQL: strings.Join(parts, "\n"), Binds: binds}, nil
}

func buildSelect(fields []types.SelectField) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		if f.Alias != "" {
			cols[i] = f.Expression + " AS " + f.Alias
		} else {
			cols[i] = f.Expression
		}
	}
	return "SELECT " + strings.Join(cols, ", ")
}

func buildFrom(from types.TableRef) string {
	if from.Alias != "" {
		return "FROM " + from.MainTable + " " + from.Alias
	}
	return "FROM " + from.MainTable
}

func buildJoin(join types.Join) (string, error) {
	jt, err := ParseJoinType(join.Type)
	if err != nil {
		return "", err
	}
	table := join.Table
	if join.Alias != "" {
		table += " " + join.Alias
	}
	return jt.Token() + " " + table + " ON " + join.On, nil
}

func buildOrderBy(entries []types.OrderBy) (string, error) {
	cols := make([]string, len(entries))
	for i, o := range entries {
		dir := o.Direction
		switch dir {
		case "":
			dir = "ASC"
		case "ASC", "DESC":
		default:
			return "", fmt.Errorf("%w: order_by direction %q", types.ErrInvalidValue, o.Direction)
		}
		cols[i] = o.Field + " " + dir
	}
	return "ORDER BY " + strings.Join(cols, ", "), nil
}

// chainLink is one surviving clause plus its trailing connective.
type chainLink struct {
	pred predicate
	conn LogicalOperator
}

// buildChain resolves templates and assembles the surviving clause chain.
// allowOr permits per-clause connectives; having chains pass false and
// always join with AND.
func buildChain(clauses []types.WhereClause, schema map[string]types.ParameterSpec,
	resolved map[string]any, allowOr bool) ([]chainLink, error) {

	var chain []chainLink
	for _, clause := range clauses {
		op, err := ParsePlanOperator(clause.Operator)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", clause.Field, err)
		}

		value, skip, err := resolveClauseValue(op, clause.Value, schema, resolved)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", clause.Field, err)
		}
		if skip {
			// Unresolved optional parameter: drop the clause and its
			// trailing connective.
			continue
		}

		pred, err := newPredicate(clause.Field, op, value)
		if err != nil {
			return nil, err
		}

		conn := LogicalAnd
		if allowOr {
			conn, err = parseLogicalOperator(clause.LogicalOperator)
			if err != nil {
				return nil, err
			}
		}

		chain = append(chain, chainLink{pred: pred, conn: conn})
	}
	return chain, nil
}

// renderChain writes the surviving clauses, joining each pair with the
// leading clause's trailing connective. The last clause's connective is
// never emitted, which keeps the fragment free of dangling AND/OR no
// matter which clauses were dropped.
func renderChain(chain []chainLink, binds map[string]any, gen *nameGen) string {
	var sb strings.Builder
	for i, link := range chain {
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(chain[i-1].conn.Token())
			sb.WriteByte(' ')
		}
		link.pred.renderNamed(&sb, binds, gen)
	}
	return sb.String()
}

// resolveClauseValue substitutes {{name}} tokens in the clause value.
// Lists and pairs are substituted element-wise; one absent optional
// parameter anywhere in the value skips the whole clause.
func resolveClauseValue(op Operator, value any, schema map[string]types.ParameterSpec,
	resolved map[string]any) (any, bool, error) {

	if op.arity() == arityNone {
		return nil, false, nil
	}

	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		for i, elem := range list {
			v, skip, err := resolveScalar(elem, schema, resolved)
			if err != nil || skip {
				return nil, skip, err
			}
			out[i] = v
		}
		return out, false, nil
	}

	return resolveScalar(value, schema, resolved)
}

func resolveScalar(value any, schema map[string]types.ParameterSpec,
	resolved map[string]any) (any, bool, error) {

	name, ok := templateName(value)
	if !ok {
		return value, false, nil
	}
	if _, declared := schema[name]; !declared {
		return nil, false, fmt.Errorf("%w: {{%s}}", types.ErrUnresolvedTemplate, name)
	}
	v, present := resolved[name]
	if !present {
		return nil, true, nil
	}
	return v, false, nil
}
