// Package rules holds the business invariants and lifecycle of rule and
// section entities. Persistence lives in internal/core/db, compilation in
// internal/sqlgen; this package only decides what a valid rule is and which
// mutations are legal in each status.
package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/solatis/bookkeeper/internal/types"
)

// CreateInput carries the fields of a new rule. Status is not accepted:
// every rule starts in DRAFT.
type CreateInput struct {
	Name              string           `json:"name"`
	ProfileType       types.ProfileType `json:"profile_type"`
	BalanceType       types.BalanceType `json:"balance_type"`
	SectionID         types.SectionID   `json:"section_id"`
	DatabaseTableName []string          `json:"database_table_name"`
	Config            *types.QueryPlan  `json:"config"`
}

// UpdateInput carries optional mutations; nil fields are left unchanged.
type UpdateInput struct {
	Name              *string            `json:"name,omitempty"`
	ProfileType       *types.ProfileType `json:"profile_type,omitempty"`
	BalanceType       *types.BalanceType `json:"balance_type,omitempty"`
	SectionID         *types.SectionID   `json:"section_id,omitempty"`
	DatabaseTableName []string           `json:"database_table_name,omitempty"`
	Config            *types.QueryPlan   `json:"config,omitempty"`
}

// Create builds a new DRAFT rule and validates its invariants.
func Create(in CreateInput) (*types.Rule, error) {
	now := time.Now().UTC()
	rule := &types.Rule{
		ID:                types.NewRuleID(),
		Name:              in.Name,
		ProfileType:       in.ProfileType,
		BalanceType:       in.BalanceType,
		Status:            types.StatusDraft,
		SectionID:         in.SectionID,
		DatabaseTableName: in.DatabaseTableName,
		Config:            in.Config,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := Validate(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update applies the mutations to the rule. ACTIVE rules are immutable
// except for status transitions and reject every update.
func Update(rule *types.Rule, in UpdateInput) error {
	if rule.Status == types.StatusActive {
		return fmt.Errorf("%w: deactivate before updating", types.ErrRuleActiveConflict)
	}

	if in.Name != nil {
		rule.Name = *in.Name
	}
	if in.ProfileType != nil {
		rule.ProfileType = *in.ProfileType
	}
	if in.BalanceType != nil {
		rule.BalanceType = *in.BalanceType
	}
	if in.SectionID != nil {
		rule.SectionID = *in.SectionID
	}
	if in.DatabaseTableName != nil {
		rule.DatabaseTableName = in.DatabaseTableName
	}
	if in.Config != nil {
		rule.Config = in.Config
	}

	if err := Validate(rule); err != nil {
		return err
	}
	rule.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckDelete reports whether the rule may be deleted in its current
// status. ACTIVE rules must be deactivated first.
func CheckDelete(rule *types.Rule) error {
	if rule.Status == types.StatusActive {
		return fmt.Errorf("%w: deactivate before deleting", types.ErrRuleActiveConflict)
	}
	return nil
}

// Validate enforces every business invariant of a rule.
func Validate(rule *types.Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: name is required", types.ErrInvalidRule)
	}
	if rule.Config == nil {
		return fmt.Errorf("%w: config is required", types.ErrInvalidRule)
	}
	if rule.SectionID == "" {
		return fmt.Errorf("%w: section_id is required", types.ErrInvalidRule)
	}
	if !rule.ProfileType.Valid() {
		return fmt.Errorf("%w: unknown profile type %q", types.ErrInvalidRule, rule.ProfileType)
	}
	if !rule.BalanceType.Valid() {
		return fmt.Errorf("%w: unknown balance type %q", types.ErrInvalidRule, rule.BalanceType)
	}

	// Prepaid profiles settle against the main balance only.
	if rule.ProfileType == types.ProfilePrepaid && rule.BalanceType != types.BalanceMain {
		return fmt.Errorf("%w: prepaid profile requires main balance", types.ErrInvalidRule)
	}

	if len(rule.DatabaseTableName) == 0 {
		return fmt.Errorf("%w: at least one database table is required", types.ErrInvalidRule)
	}

	// Table-level allow-listing: every table the plan touches must be
	// declared on the rule.
	declared := make(map[string]bool, len(rule.DatabaseTableName))
	for _, t := range rule.DatabaseTableName {
		declared[t] = true
	}
	for _, t := range rule.Config.TableNames() {
		if !declared[t] {
			return fmt.Errorf("%w: table %q used in config but not listed in database_table_name",
				types.ErrInvalidRule, t)
		}
	}

	return nil
}
