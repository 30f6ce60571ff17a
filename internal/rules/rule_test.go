package rules

import (
	"errors"
	"testing"

	"github.com/solatis/bookkeeper/internal/types"
)

func validPlan() *types.QueryPlan {
	return &types.QueryPlan{
		Select: types.SelectClause{
			Fields: []types.SelectField{
				{Name: "total_revenue", Expression: "SUM(t.amount)", Alias: "total_revenue"},
			},
		},
		From: types.TableRef{MainTable: "transactions", Alias: "t"},
		Conditions: types.Conditions{
			Where: []types.WhereClause{
				{Field: "t.profile_type", Operator: "=", Value: "PREPAID"},
			},
		},
	}
}

func validInput() CreateInput {
	return CreateInput{
		Name:              "prepaid-revenue",
		ProfileType:       types.ProfilePrepaid,
		BalanceType:       types.BalanceMain,
		SectionID:         types.NewSectionID(),
		DatabaseTableName: []string{"transactions"},
		Config:            validPlan(),
	}
}

func TestCreate_StartsDraft(t *testing.T) {
	rule, err := Create(validInput())
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if rule.Status != types.StatusDraft {
		t.Errorf("Status = %v, want DRAFT", rule.Status)
	}
	if rule.ID == "" {
		t.Errorf("ID is empty, want generated")
	}
	if rule.CreatedAt.IsZero() || rule.UpdatedAt.IsZero() {
		t.Errorf("timestamps not set: created=%v updated=%v", rule.CreatedAt, rule.UpdatedAt)
	}
}

func TestCreate_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = "  " }},
		{"nil config", func(in *CreateInput) { in.Config = nil }},
		{"missing section", func(in *CreateInput) { in.SectionID = "" }},
		{"unknown profile type", func(in *CreateInput) { in.ProfileType = "POSTPAID" }},
		{"unknown balance type", func(in *CreateInput) { in.BalanceType = "BONUS" }},
		{"prepaid requires main balance", func(in *CreateInput) {
			in.ProfileType = types.ProfilePrepaid
			in.BalanceType = types.BalanceCredit
		}},
		{"no tables declared", func(in *CreateInput) { in.DatabaseTableName = nil }},
		{"plan table not declared", func(in *CreateInput) {
			in.DatabaseTableName = []string{"other_table"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := Create(in); !errors.Is(err, types.ErrInvalidRule) {
				t.Fatalf("Create() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestCreate_HybridCreditAllowed(t *testing.T) {
	in := validInput()
	in.ProfileType = types.ProfileHybrid
	in.BalanceType = types.BalanceCredit

	if _, err := Create(in); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
}

func TestCreate_JoinTablesMustBeDeclared(t *testing.T) {
	in := validInput()
	in.Config.Joins = []types.Join{
		{Type: "INNER", Table: "accounts", On: "accounts.id = t.account_id"},
	}

	if _, err := Create(in); !errors.Is(err, types.ErrInvalidRule) {
		t.Fatalf("Create() with undeclared join table: error = %v, want ErrInvalidRule", err)
	}

	in.DatabaseTableName = []string{"transactions", "accounts"}
	if _, err := Create(in); err != nil {
		t.Fatalf("Create() with declared join table: error = %v, want nil", err)
	}
}

func TestUpdate_AppliesFields(t *testing.T) {
	rule, err := Create(validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "renamed"
	profile := types.ProfileHybrid
	balance := types.BalanceCredit
	if err := Update(rule, UpdateInput{
		Name:        &name,
		ProfileType: &profile,
		BalanceType: &balance,
	}); err != nil {
		t.Fatalf("Update() error = %v, want nil", err)
	}
	if rule.Name != "renamed" || rule.ProfileType != types.ProfileHybrid {
		t.Errorf("rule = %+v, want applied updates", rule)
	}
}

func TestUpdate_RevalidatesInvariants(t *testing.T) {
	rule, err := Create(validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Prepaid rule flipping to credit balance must be rejected.
	balance := types.BalanceCredit
	if err := Update(rule, UpdateInput{BalanceType: &balance}); !errors.Is(err, types.ErrInvalidRule) {
		t.Fatalf("Update() error = %v, want ErrInvalidRule", err)
	}
}

func TestUpdate_ActiveRejected(t *testing.T) {
	rule, err := Create(validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	rule.Status = types.StatusActive

	name := "renamed"
	if err := Update(rule, UpdateInput{Name: &name}); !errors.Is(err, types.ErrRuleActiveConflict) {
		t.Fatalf("Update() on ACTIVE rule: error = %v, want ErrRuleActiveConflict", err)
	}
	if rule.Name != "prepaid-revenue" {
		t.Errorf("Name = %q, want unchanged", rule.Name)
	}
}

func TestCheckDelete(t *testing.T) {
	rule, err := Create(validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, status := range []types.RuleStatus{types.StatusDraft, types.StatusInactive} {
		rule.Status = status
		if err := CheckDelete(rule); err != nil {
			t.Errorf("CheckDelete(%s) error = %v, want nil", status, err)
		}
	}

	rule.Status = types.StatusActive
	if err := CheckDelete(rule); !errors.Is(err, types.ErrRuleActiveConflict) {
		t.Errorf("CheckDelete(ACTIVE) error = %v, want ErrRuleActiveConflict", err)
	}
}

func TestCreateSection(t *testing.T) {
	section, err := CreateSection(SectionInput{Name: "Revenue", Description: "revenue reports"})
	if err != nil {
		t.Fatalf("CreateSection() error = %v, want nil", err)
	}
	if section.Status != types.SectionActive {
		t.Errorf("Status = %v, want ACTIVE", section.Status)
	}
	if section.ID == "" {
		t.Errorf("ID is empty, want generated")
	}

	if _, err := CreateSection(SectionInput{Name: "   "}); !errors.Is(err, types.ErrInvalidRule) {
		t.Errorf("CreateSection(blank name) error = %v, want ErrInvalidRule", err)
	}
}
