package sqlgen

import (
	"errors"
	"testing"

	"github.com/solatis/bookkeeper/internal/types"
)

func TestResolveParams_Normal(t *testing.T) {
	tests := []struct {
		name     string
		schema   map[string]types.ParameterSpec
		supplied map[string]any
		expected map[string]any
	}{
		{
			name: "supplied value passes through",
			schema: map[string]types.ParameterSpec{
				"region": {Type: types.ParamString, Required: true},
			},
			supplied: map[string]any{"region": "EMEA"},
			expected: map[string]any{"region": "EMEA"},
		},
		{
			name: "default applied when absent",
			schema: map[string]types.ParameterSpec{
				"limit": {Type: types.ParamInteger, Default: float64(10)},
			},
			supplied: nil,
			expected: map[string]any{"limit": int64(10)},
		},
		{
			name: "supplied value wins over default",
			schema: map[string]types.ParameterSpec{
				"limit": {Type: types.ParamInteger, Default: float64(10)},
			},
			supplied: map[string]any{"limit": float64(25)},
			expected: map[string]any{"limit": int64(25)},
		},
		{
			name: "optional without default stays absent",
			schema: map[string]types.ParameterSpec{
				"region": {Type: types.ParamString, Required: false},
			},
			supplied: nil,
			expected: map[string]any{},
		},
		{
			name: "whole float64 accepted as integer",
			schema: map[string]types.ParameterSpec{
				"count": {Type: types.ParamInteger, Required: true},
			},
			supplied: map[string]any{"count": float64(42)},
			expected: map[string]any{"count": int64(42)},
		},
		{
			name: "int widened to float",
			schema: map[string]types.ParameterSpec{
				"rate": {Type: types.ParamFloat, Required: true},
			},
			supplied: map[string]any{"rate": 3},
			expected: map[string]any{"rate": float64(3)},
		},
		{
			name: "enum member accepted",
			schema: map[string]types.ParameterSpec{
				"tier": {Type: types.ParamEnum, Required: true, Values: []string{"GOLD", "SILVER"}},
			},
			supplied: map[string]any{"tier": "SILVER"},
			expected: map[string]any{"tier": "SILVER"},
		},
		{
			name: "date kept as string",
			schema: map[string]types.ParameterSpec{
				"start_date": {Type: types.ParamDate, Required: true},
			},
			supplied: map[string]any{"start_date": "2024-03-31"},
			expected: map[string]any{"start_date": "2024-03-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ResolveParams(tt.schema, tt.supplied)
			if err != nil {
				t.Fatalf("ResolveParams() error = %v, want nil", err)
			}
			if len(resolved) != len(tt.expected) {
				t.Fatalf("ResolveParams() len = %d, want %d", len(resolved), len(tt.expected))
			}
			for name, want := range tt.expected {
				if got := resolved[name]; got != want {
					t.Errorf("resolved[%q] = %v (%T), want %v (%T)", name, got, got, want, want)
				}
			}
		})
	}
}

func TestResolveParams_Errors(t *testing.T) {
	tests := []struct {
		name     string
		schema   map[string]types.ParameterSpec
		supplied map[string]any
		wantErr  error
	}{
		{
			name: "required without default missing",
			schema: map[string]types.ParameterSpec{
				"region": {Type: types.ParamString, Required: true},
			},
			supplied: nil,
			wantErr:  types.ErrMissingParameter,
		},
		{
			name: "string expected",
			schema: map[string]types.ParameterSpec{
				"region": {Type: types.ParamString, Required: true},
			},
			supplied: map[string]any{"region": 7},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "fractional float rejected as integer",
			schema: map[string]types.ParameterSpec{
				"count": {Type: types.ParamInteger, Required: true},
			},
			supplied: map[string]any{"count": 1.5},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "boolean expected",
			schema: map[string]types.ParameterSpec{
				"flag": {Type: types.ParamBoolean, Required: true},
			},
			supplied: map[string]any{"flag": "true"},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "malformed date",
			schema: map[string]types.ParameterSpec{
				"start_date": {Type: types.ParamDate, Required: true},
			},
			supplied: map[string]any{"start_date": "31/03/2024"},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "malformed datetime",
			schema: map[string]types.ParameterSpec{
				"at": {Type: types.ParamDateTime, Required: true},
			},
			supplied: map[string]any{"at": "2024-03-31T25:00"},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "enum non-member",
			schema: map[string]types.ParameterSpec{
				"tier": {Type: types.ParamEnum, Required: true, Values: []string{"GOLD", "SILVER"}},
			},
			supplied: map[string]any{"tier": "BRONZE"},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "unknown schema type",
			schema: map[string]types.ParameterSpec{
				"blob": {Type: "bytes", Required: true},
			},
			supplied: map[string]any{"blob": "x"},
			wantErr:  types.ErrInvalidParameterType,
		},
		{
			name: "invalid default rejected too",
			schema: map[string]types.ParameterSpec{
				"start_date": {Type: types.ParamDate, Default: "not-a-date"},
			},
			supplied: nil,
			wantErr:  types.ErrInvalidParameterType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveParams(tt.schema, tt.supplied)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveParams() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveParams_DateTimeLayouts(t *testing.T) {
	schema := map[string]types.ParameterSpec{
		"at": {Type: types.ParamDateTime, Required: true},
	}

	for _, value := range []string{"2024-03-31T12:00:00Z", "2024-03-31 12:00:00"} {
		resolved, err := ResolveParams(schema, map[string]any{"at": value})
		if err != nil {
			t.Fatalf("ResolveParams(%q) error = %v, want nil", value, err)
		}
		if resolved["at"] != value {
			t.Errorf("resolved[at] = %v, want %v", resolved["at"], value)
		}
	}
}

func TestTemplateName(t *testing.T) {
	tests := []struct {
		value any
		name  string
		ok    bool
	}{
		{"{{start_date}}", "start_date", true},
		{"{{x}}", "x", true},
		{"{{}}", "", false},
		{"start_date", "", false},
		{"{{start_date}", "", false},
		{"prefix{{name}}", "", false},
		{42, "", false},
		{nil, "", false},
	}

	for _, tt := range tests {
		name, ok := templateName(tt.value)
		if ok != tt.ok || name != tt.name {
			t.Errorf("templateName(%v) = %q, %v, want %q, %v", tt.value, name, ok, tt.name, tt.ok)
		}
	}
}
