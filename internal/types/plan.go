package types

/*
 * QueryPlan is the persisted, declarative description of a SELECT statement.
 *
 * The JSON layout below is a compatibility contract: stored rule configs are
 * decoded straight into these structs. Operator, join type and direction
 * fields stay strings here; internal/sqlgen parses them into closed enums
 * and rejects unknown members at compile time.
 *
 * Trust boundary: Field, Expression, On and GroupBy strings pass through to
 * the emitted SQL verbatim. They are author-supplied rule definitions, not
 * end-user input; the activation gate cross-checks table names against the
 * rule's database_table_name list but does not parse expressions.
 */

// QueryPlan describes a full SELECT statement plus its parameter schema.
type QueryPlan struct {
	Select     SelectClause             `json:"select"`
	From       TableRef                 `json:"from"`
	Joins      []Join                   `json:"joins,omitempty"`
	Conditions Conditions               `json:"conditions"`
	GroupBy    []string                 `json:"group_by,omitempty"`
	Having     []WhereClause            `json:"having,omitempty"`
	OrderBy    []OrderBy                `json:"order_by,omitempty"`
	Parameters map[string]ParameterSpec `json:"parameters,omitempty"`
}

// SelectClause lists the projected fields in declaration order.
// Aggregations is informational (documents which aggregate functions the
// plan uses); the activation gate detects aggregates from expressions.
type SelectClause struct {
	Fields       []SelectField `json:"fields"`
	Aggregations []string      `json:"aggregations,omitempty"`
}

// SelectField is one projected expression, optionally aliased.
type SelectField struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Alias      string `json:"alias,omitempty"`
}

// TableRef names the main table of the FROM clause.
type TableRef struct {
	MainTable string `json:"main_table"`
	Alias     string `json:"alias,omitempty"`
}

// Join describes one JOIN in declaration order.
// Type must parse to a sqlgen.JoinType (INNER, LEFT, RIGHT, FULL).
type Join struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	Alias string `json:"alias,omitempty"`
	On    string `json:"on"`
}

// Conditions holds the ordered WHERE clause list.
type Conditions struct {
	Where []WhereClause `json:"where,omitempty"`
}

// WhereClause is one predicate of a WHERE or HAVING chain.
//
// Value may be a scalar, a list (IN/NOT IN/BETWEEN), or a "{{name}}"
// template reference resolved against the plan's parameter schema.
// LogicalOperator chains this clause to the next one; it is legal to omit
// only on the last clause of a chain. HAVING chains ignore it and always
// join with AND.
type WhereClause struct {
	Field           string `json:"field"`
	Operator        string `json:"operator"`
	Value           any    `json:"value,omitempty"`
	LogicalOperator string `json:"logical_operator,omitempty"`
}

// OrderBy is one ORDER BY entry. Direction is ASC or DESC.
type OrderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// Parameter schema types accepted in ParameterSpec.Type.
const (
	ParamString   = "string"
	ParamInteger  = "integer"
	ParamFloat    = "float"
	ParamDate     = "date"
	ParamDateTime = "datetime"
	ParamBoolean  = "boolean"
	ParamEnum     = "enum"
)

// ParameterSpec declares one named template parameter.
// Values is required iff Type is "enum" and lists the allowed members.
type ParameterSpec struct {
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Values      []string `json:"values,omitempty"`
}

// TableNames returns every table referenced by the plan: the main table
// followed by join tables, deduplicated, declaration order preserved.
func (p *QueryPlan) TableNames() []string {
	seen := make(map[string]bool, 1+len(p.Joins))
	tables := make([]string, 0, 1+len(p.Joins))
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}
	add(p.From.MainTable)
	for _, j := range p.Joins {
		add(j.Table)
	}
	return tables
}
