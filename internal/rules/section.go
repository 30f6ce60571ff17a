package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/solatis/bookkeeper/internal/types"
)

// SectionInput carries the fields of a new section.
type SectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateSection builds a new ACTIVE section.
func CreateSection(in SectionInput) (*types.Section, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: section name is required", types.ErrInvalidRule)
	}
	now := time.Now().UTC()
	return &types.Section{
		ID:          types.NewSectionID(),
		Name:        in.Name,
		Description: in.Description,
		Status:      types.SectionActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
