package sqlgen

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/bookkeeper/internal/types"
)

// Property-based test: every bound value has exactly one placeholder
func TestCompileRule_PropertyBindCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("bind count equals placeholder count", prop.ForAll(
		func(clauseCount int) bool {
			plan := &types.QueryPlan{
				Select: types.SelectClause{
					Fields: []types.SelectField{{Name: "id", Expression: "id"}},
				},
				From: types.TableRef{MainTable: "transactions"},
			}
			for i := 0; i < clauseCount; i++ {
				plan.Conditions.Where = append(plan.Conditions.Where, types.WhereClause{
					Field:           fmt.Sprintf("col%d", i),
					Operator:        "=",
					Value:           i,
					LogicalOperator: "AND",
				})
			}

			compiled, err := CompileRule(plan, nil)
			if err != nil {
				return false
			}
			return len(compiled.Binds) == clauseCount &&
				strings.Count(compiled.SQL, ":p") == clauseCount
		},
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}

// Property-based test: compilation is deterministic
func TestCompileRule_PropertyDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs produce identical output", prop.ForAll(
		func(value string) bool {
			plan := revenuePlan()
			plan.Conditions.Where[1].LogicalOperator = "AND"
			plan.Conditions.Where = append(plan.Conditions.Where, types.WhereClause{
				Field: "t.memo", Operator: "=", Value: value,
			})
			resolved := map[string]any{
				"start_date": "2024-01-01",
				"end_date":   "2024-03-31",
			}

			first, err1 := CompileRule(plan, resolved)
			second, err2 := CompileRule(plan, resolved)
			if err1 != nil || err2 != nil {
				return false
			}
			return first.SQL == second.SQL && reflect.DeepEqual(first.Binds, second.Binds)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// Property-based test: dropped optional clauses never leave a dangling
// connective, whatever subset of parameters resolves
func TestCompileRule_PropertyNoDanglingConnectives(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("WHERE chain has no dangling AND/OR", prop.ForAll(
		func(hasA, hasB, hasC bool) bool {
			plan := &types.QueryPlan{
				Select: types.SelectClause{
					Fields: []types.SelectField{{Name: "id", Expression: "id"}},
				},
				From: types.TableRef{MainTable: "transactions"},
				Conditions: types.Conditions{
					Where: []types.WhereClause{
						{Field: "a", Operator: "=", Value: "{{a}}", LogicalOperator: "AND"},
						{Field: "b", Operator: "=", Value: "{{b}}", LogicalOperator: "OR"},
						{Field: "c", Operator: "=", Value: "{{c}}"},
					},
				},
				Parameters: map[string]types.ParameterSpec{
					"a": {Type: types.ParamString},
					"b": {Type: types.ParamString},
					"c": {Type: types.ParamString},
				},
			}

			resolved := map[string]any{}
			if hasA {
				resolved["a"] = "1"
			}
			if hasB {
				resolved["b"] = "2"
			}
			if hasC {
				resolved["c"] = "3"
			}

			compiled, err := CompileRule(plan, resolved)
			if err != nil {
				return false
			}

			survivors := 0
			for _, present := range []bool{hasA, hasB, hasC} {
				if present {
					survivors++
				}
			}

			var whereLine string
			for _, line := range strings.Split(compiled.SQL, "\n") {
				if strings.HasPrefix(line, "WHERE ") {
					whereLine = line
				}
			}

			if survivors == 0 {
				return whereLine == "" && len(compiled.Binds) == 0
			}
			if whereLine == "" || len(compiled.Binds) != survivors {
				return false
			}
			if strings.HasSuffix(whereLine, " AND") || strings.HasSuffix(whereLine, " OR") {
				return false
			}
			if strings.Contains(whereLine, "AND AND") || strings.Contains(whereLine, "OR OR") ||
				strings.Contains(whereLine, "AND OR") || strings.Contains(whereLine, "OR AND") {
				return false
			}
			return true
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property-based test: filter fragment placeholders match bind order
func TestCompileFilter_PropertyPlaceholderOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("placeholder count equals bind count", prop.ForAll(
		func(scalars int, listLen int) bool {
			spec := FilterSpec{}
			for i := 0; i < scalars; i++ {
				spec = spec.Eq(fmt.Sprintf("col%d", i), i)
			}
			if listLen > 0 {
				list := make([]int, listLen)
				for i := range list {
					list[i] = i
				}
				spec = spec.Where("status", "in", list)
			}

			fragment, binds, next, err := CompileFilter("", spec, 1)
			if err != nil {
				return false
			}
			return strings.Count(fragment, "?") == len(binds) &&
				next == 1+len(binds)
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}
