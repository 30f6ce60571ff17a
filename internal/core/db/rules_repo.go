package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/bookkeeper/internal/sqlgen"
	"github.com/solatis/bookkeeper/internal/types"
)

// RuleRepository persists rules. Dynamic list/count filtering is compiled
// by internal/sqlgen and appended to the dotsql base queries; everything
// else is a fixed named query.
type RuleRepository struct {
	db *sqlx.DB
	q  *Queries
}

// NewRuleRepository creates a repository over an open database.
func NewRuleRepository(database *sqlx.DB, q *Queries) *RuleRepository {
	return &RuleRepository{db: database, q: q}
}

// ruleRow is the persistence shape of a rule. Config and the table list
// are JSON documents; timestamps are RFC 3339 text for driver parity.
type ruleRow struct {
	RuleID         string `db:"rule_id"`
	Name           string `db:"name"`
	ProfileType    string `db:"profile_type"`
	BalanceType    string `db:"balance_type"`
	Status         string `db:"status"`
	SectionID      string `db:"section_id"`
	DatabaseTables string `db:"database_tables"`
	Config         string `db:"config"`
	CreatedAt      string `db:"created_at"`
	UpdatedAt      string `db:"updated_at"`
}

func toRuleRow(rule *types.Rule) (*ruleRow, error) {
	tables, err := json.Marshal(rule.DatabaseTableName)
	if err != nil {
		return nil, fmt.Errorf("failed to encode database tables: %w", err)
	}
	config, err := json.Marshal(rule.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return &ruleRow{
		RuleID:         string(rule.ID),
		Name:           rule.Name,
		ProfileType:    string(rule.ProfileType),
		BalanceType:    string(rule.BalanceType),
		Status:         string(rule.Status),
		SectionID:      string(rule.SectionID),
		DatabaseTables: string(tables),
		Config:         string(config),
		CreatedAt:      rule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      rule.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (r *ruleRow) toDomain() (*types.Rule, error) {
	var tables []string
	if err := json.Unmarshal([]byte(r.DatabaseTables), &tables); err != nil {
		return nil, fmt.Errorf("failed to decode database tables for rule %s: %w", r.RuleID, err)
	}
	var config types.QueryPlan
	if err := json.Unmarshal([]byte(r.Config), &config); err != nil {
		return nil, fmt.Errorf("failed to decode config for rule %s: %w", r.RuleID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for rule %s: %w", r.RuleID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for rule %s: %w", r.RuleID, err)
	}
	return &types.Rule{
		ID:                types.RuleID(r.RuleID),
		Name:              r.Name,
		ProfileType:       types.ProfileType(r.ProfileType),
		BalanceType:       types.BalanceType(r.BalanceType),
		Status:            types.RuleStatus(r.Status),
		SectionID:         types.SectionID(r.SectionID),
		DatabaseTableName: tables,
		Config:            &config,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

// Insert stores a new rule.
func (r *RuleRepository) Insert(ctx context.Context, rule *types.Rule) error {
	row, err := toRuleRow(rule)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, "insert-rule",
		row.RuleID, row.Name, row.ProfileType, row.BalanceType, row.Status,
		row.SectionID, row.DatabaseTables, row.Config, row.CreatedAt, row.UpdatedAt)
	return err
}

// FindByID returns the rule or types.ErrRuleNotFound.
func (r *RuleRepository) FindByID(ctx context.Context, id types.RuleID) (*types.Rule, error) {
	var row ruleRow
	err := r.q.Get(ctx, "get-rule", &row, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrRuleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// FindAll returns one page of rules matching the filter, newest first.
func (r *RuleRepository) FindAll(ctx context.Context, p types.PaginationParams,
	filter sqlgen.FilterSpec) (types.PaginatedResult[*types.Rule], error) {

	var empty types.PaginatedResult[*types.Rule]

	base, err := r.q.Raw("list-rules-base")
	if err != nil {
		return empty, err
	}
	where, binds, _, err := sqlgen.CompileFilter("", filter, 1)
	if err != nil {
		return empty, err
	}

	query := base
	if where != "" {
		query += "\nWHERE " + where
	}
	query += "\nORDER BY created_at DESC, rule_id DESC\nLIMIT ? OFFSET ?"
	args := append(binds, p.Limit(), p.Offset())

	var rows []ruleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return empty, err
	}

	items := make([]*types.Rule, 0, len(rows))
	for i := range rows {
		rule, err := rows[i].toDomain()
		if err != nil {
			return empty, err
		}
		items = append(items, rule)
	}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return empty, err
	}

	return types.NewPaginatedResult(items, total, p), nil
}

// Count returns the number of rules matching the filter.
func (r *RuleRepository) Count(ctx context.Context, filter sqlgen.FilterSpec) (int, error) {
	base, err := r.q.Raw("count-rules-base")
	if err != nil {
		return 0, err
	}
	where, binds, _, err := sqlgen.CompileFilter("", filter, 1)
	if err != nil {
		return 0, err
	}

	query := base
	if where != "" {
		query += "\nWHERE " + where
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(query), binds...); err != nil {
		return 0, err
	}
	return total, nil
}

// Update rewrites every mutable column of the rule.
func (r *RuleRepository) Update(ctx context.Context, rule *types.Rule) error {
	row, err := toRuleRow(rule)
	if err != nil {
		return err
	}
	res, err := r.q.Exec(ctx, "update-rule",
		row.Name, row.ProfileType, row.BalanceType, row.Status, row.SectionID,
		row.DatabaseTables, row.Config, row.UpdatedAt, row.RuleID)
	if err != nil {
		return err
	}
	return r.expectOneRow(ctx, res, rule.ID)
}

// UpdateStatus transitions the rule's status with a compare-and-swap on
// the expected current status. Two concurrent activations cannot both
// succeed: the second swap matches zero rows.
func (r *RuleRepository) UpdateStatus(ctx context.Context, id types.RuleID,
	from, to types.RuleStatus) error {

	res, err := r.q.Exec(ctx, "update-rule-status",
		string(to), time.Now().UTC().Format(time.RFC3339), string(id), string(from))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: status changed concurrently", types.ErrInvalidTransition)
	}
	return nil
}

// Delete removes the rule or returns types.ErrRuleNotFound.
func (r *RuleRepository) Delete(ctx context.Context, id types.RuleID) error {
	res, err := r.q.Exec(ctx, "delete-rule", string(id))
	if err != nil {
		return err
	}
	return r.expectOneRow(ctx, res, id)
}

func (r *RuleRepository) expectOneRow(ctx context.Context, res sql.Result, id types.RuleID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", types.ErrRuleNotFound, id)
	}
	return nil
}
