package types

import "github.com/google/uuid"

// RuleID represents a UUIDv7 rule identifier.
// String alias enables type safety while maintaining JSON string serialization.
type RuleID string

// SectionID represents a UUIDv7 section identifier.
type SectionID string

// NewRuleID generates a UUIDv7 rule identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRuleID() RuleID {
	return RuleID(uuid.Must(uuid.NewV7()).String())
}

// NewSectionID generates a UUIDv7 section identifier.
func NewSectionID() SectionID {
	return SectionID(uuid.Must(uuid.NewV7()).String())
}

// ParseRuleID validates and converts a string to RuleID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseRuleID(s string) (RuleID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return RuleID(s), nil
}

// ParseSectionID validates and converts a string to SectionID.
func ParseSectionID(s string) (SectionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return SectionID(s), nil
}
