package rules

import (
	"fmt"
	"time"

	"github.com/solatis/bookkeeper/internal/sqlgen"
	"github.com/solatis/bookkeeper/internal/types"
)

/*
 * Rule lifecycle.
 *
 * DRAFT -> ACTIVE      activation gate must pass
 * ACTIVE -> INACTIVE   always permitted
 * INACTIVE -> ACTIVE   re-runs the activation gate
 *
 * Everything else is rejected. Transitioning to the current status is a
 * no-op. The concurrent-activation race (two callers both passing the gate)
 * is closed at the persistence layer with a compare-and-swap on status;
 * this package only decides legality.
 */

// Transition moves the rule to the target status, running the activation
// gate when the target is ACTIVE.
func Transition(rule *types.Rule, to types.RuleStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", types.ErrInvalidTransition, to)
	}
	if rule.Status == to {
		return nil
	}

	switch {
	case to == types.StatusActive &&
		(rule.Status == types.StatusDraft || rule.Status == types.StatusInactive):
		if err := Activate(rule); err != nil {
			return err
		}
	case to == types.StatusInactive && rule.Status == types.StatusActive:
		rule.Status = types.StatusInactive
	default:
		return fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, rule.Status, to)
	}

	rule.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate runs the activation gate and, on success, marks the rule ACTIVE.
func Activate(rule *types.Rule) error {
	if err := Validate(rule); err != nil {
		return err
	}
	if err := sqlgen.ValidateForActivation(rule.Config); err != nil {
		return err
	}
	rule.Status = types.StatusActive
	return nil
}
