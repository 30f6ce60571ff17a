package sqlgen

import (
	"fmt"
	"regexp"

	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Activation gate.
 *
 * A rule may only move to ACTIVE when its plan compiles against a synthetic
 * parameter set built purely from the schema: each default where present, a
 * type-appropriate placeholder for required parameters lacking one. The
 * gate also enforces the GROUP BY invariant here rather than on every
 * compile, keeping the hot path cheap.
 */

// aggregateExpr matches select expressions wrapping an aggregate function.
// The name set follows standard SQL aggregates; free-form expressions that
// bury an aggregate deeper than the leading function are out of scope for
// this check (trusted author input).
var aggregateExpr = regexp.MustCompile(`(?i)^\s*(SUM|AVG|MIN|MAX|COUNT|STDDEV|STDDEV_POP|STDDEV_SAMP|VARIANCE|VAR_POP|VAR_SAMP|MEDIAN|MODE)\s*\(`)

// ValidateForActivation runs the activation gate over the plan.
func ValidateForActivation(plan *types.QueryPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: missing config", types.ErrInvalidRule)
	}
	if len(plan.Select.Fields) == 0 {
		return types.ErrEmptySelect
	}

	if err := checkGroupBy(plan); err != nil {
		return err
	}

	synthetic := syntheticParams(plan.Parameters)
	resolved, err := ResolveParams(plan.Parameters, synthetic)
	if err != nil {
		return err
	}
	if _, err := CompileRule(plan, resolved); err != nil {
		return err
	}
	return nil
}

// checkGroupBy requires a GROUP BY whenever the select list mixes
// aggregated and bare expressions.
func checkGroupBy(plan *types.QueryPlan) error {
	var aggregated, bare bool
	for _, f := range plan.Select.Fields {
		if aggregateExpr.MatchString(f.Expression) {
			aggregated = true
		} else {
			bare = true
		}
	}
	if aggregated && bare && len(plan.GroupBy) == 0 {
		return fmt.Errorf("%w: select mixes aggregated and bare expressions without group_by",
			types.ErrInvalidRule)
	}
	return nil
}

// syntheticParams builds the gate's parameter set: defaults where present,
// deterministic placeholders otherwise. Optional parameters without a
// default stay absent so their optional-drop path is exercised too.
func syntheticParams(schema map[string]types.ParameterSpec) map[string]any {
	params := make(map[string]any, len(schema))
	for name, spec := range schema {
		if spec.Default != nil {
			continue // ResolveParams applies the default itself
		}
		if !spec.Required {
			continue
		}
		params[name] = placeholderFor(spec)
	}
	return params
}

func placeholderFor(spec types.ParameterSpec) any {
	switch spec.Type {
	case types.ParamInteger:
		return int64(1)
	case types.ParamFloat:
		return 1.0
	case types.ParamBoolean:
		return true
	case types.ParamDate:
		return "2024-01-01"
	case types.ParamDateTime:
		return "2024-01-01 00:00:00"
	case types.ParamEnum:
		if len(spec.Values) > 0 {
			return spec.Values[0]
		}
		return ""
	default:
		return "placeholder"
	}
}
