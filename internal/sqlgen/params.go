package sqlgen

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Parameter resolution.
 *
 * ResolveParams turns a parameter schema plus caller-supplied values into a
 * fully validated, defaulted name->value map. A declared optional parameter
 * with no value and no default is simply absent from the result; the rule
 * compiler drops any clause that references an absent parameter (the
 * documented optional-filter behavior).
 *
 * Values are validated, never silently coerced. The one normalization is
 * JSON's number representation: an integer parameter arriving as a whole
 * float64 (the only number type encoding/json produces) is accepted and
 * stored as int64.
 */

// date/datetime layouts accepted for parameter values.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ResolveParams validates and defaults supplied against the schema.
// Returns ErrMissingParameter for a required parameter with no value and no
// default, ErrInvalidParameterType when a value fails validation.
func ResolveParams(schema map[string]types.ParameterSpec, supplied map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(schema))

	// Sorted walk keeps error reporting deterministic across runs.
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := schema[name]

		value, ok := supplied[name]
		if !ok || value == nil {
			if spec.Default != nil {
				value = spec.Default
			} else if spec.Required {
				return nil, fmt.Errorf("%w: %q", types.ErrMissingParameter, name)
			} else {
				continue // optional, unresolved: clauses referencing it are dropped
			}
		}

		validated, err := validateParam(name, spec, value)
		if err != nil {
			return nil, err
		}
		resolved[name] = validated
	}

	return resolved, nil
}

// validateParam checks one value against its spec and returns the value to
// bind. Unknown schema types are rejected rather than passed through.
func validateParam(name string, spec types.ParameterSpec, value any) (any, error) {
	switch spec.Type {
	case types.ParamString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, typeError(name, "string", value)

	case types.ParamInteger:
		switch n := value.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		}
		return nil, typeError(name, "integer", value)

	case types.ParamFloat:
		switch n := value.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, typeError(name, "float", value)

	case types.ParamBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, typeError(name, "boolean", value)

	case types.ParamDate:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(name, "date", value)
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, fmt.Errorf("%w: %q expects a %s date, got %q",
				types.ErrInvalidParameterType, name, dateLayout, s)
		}
		return s, nil

	case types.ParamDateTime:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(name, "datetime", value)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			if _, err := time.Parse(dateTimeLayout, s); err != nil {
				return nil, fmt.Errorf("%w: %q expects an RFC 3339 or %q datetime, got %q",
					types.ErrInvalidParameterType, name, dateTimeLayout, s)
			}
		}
		return s, nil

	case types.ParamEnum:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(name, "enum", value)
		}
		for _, allowed := range spec.Values {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %q must be one of %v, got %q",
			types.ErrInvalidParameterType, name, spec.Values, s)

	default:
		return nil, fmt.Errorf("%w: %q has unknown schema type %q",
			types.ErrInvalidParameterType, name, spec.Type)
	}
}

func typeError(name, expected string, actual any) error {
	return fmt.Errorf("%w: %q expects %s, got %T",
		types.ErrInvalidParameterType, name, expected, actual)
}

// templateName extracts the parameter name from a "{{name}}" token.
// Substitution is a single non-recursive pass: resolved parameter values
// are never themselves scanned for further tokens.
func templateName(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	if len(s) < 5 || !strings.HasPrefix(s, "{{") || !strings.HasSuffix(s, "}}") {
		return "", false
	}
	return s[2 : len(s)-2], true
}
