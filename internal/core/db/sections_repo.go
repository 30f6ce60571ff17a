package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/bookkeeper/internal/types"
)

// SectionRepository persists sections.
type SectionRepository struct {
	db *sqlx.DB
	q  *Queries
}

// NewSectionRepository creates a repository over an open database.
func NewSectionRepository(database *sqlx.DB, q *Queries) *SectionRepository {
	return &SectionRepository{db: database, q: q}
}

type sectionRow struct {
	SectionID   string `db:"section_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r *sectionRow) toDomain() (*types.Section, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for section %s: %w", r.SectionID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for section %s: %w", r.SectionID, err)
	}
	return &types.Section{
		ID:          types.SectionID(r.SectionID),
		Name:        r.Name,
		Description: r.Description,
		Status:      types.SectionStatus(r.Status),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Insert stores a new section.
func (r *SectionRepository) Insert(ctx context.Context, section *types.Section) error {
	_, err := r.q.Exec(ctx, "insert-section",
		string(section.ID), section.Name, section.Description, string(section.Status),
		section.CreatedAt.UTC().Format(time.RFC3339),
		section.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

// FindByID returns the section or types.ErrSectionNotFound.
func (r *SectionRepository) FindByID(ctx context.Context, id types.SectionID) (*types.Section, error) {
	var row sectionRow
	err := r.q.Get(ctx, "get-section", &row, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrSectionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// FindAll returns every section, newest first.
func (r *SectionRepository) FindAll(ctx context.Context) ([]*types.Section, error) {
	var rows []sectionRow
	if err := r.q.Select(ctx, "list-sections", &rows); err != nil {
		return nil, err
	}
	sections := make([]*types.Section, 0, len(rows))
	for i := range rows {
		section, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// RuleCount returns the number of rules referencing the section.
func (r *SectionRepository) RuleCount(ctx context.Context, id types.SectionID) (int, error) {
	var count int
	if err := r.q.Get(ctx, "count-section-rules", &count, string(id)); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the section. Sections still referenced by rules are kept
// and the call fails with types.ErrSectionRuleConflict.
func (r *SectionRepository) Delete(ctx context.Context, id types.SectionID) error {
	count, err := r.RuleCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d rules reference section %s", types.ErrSectionRuleConflict, count, id)
	}
	res, err := r.q.Exec(ctx, "delete-section", string(id))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", types.ErrSectionNotFound, id)
	}
	return nil
}
