// Package types provides domain models shared across Bookkeeper components.
//
// The QueryPlan structs in plan.go mirror the JSON document stored alongside
// each rule row; field names and nesting are a compatibility contract for any
// persisted rule. This package stays free of database and transport imports
// so the compiler core (internal/sqlgen) depends only on plain data.
package types

import "time"

// ProfileType classifies the customer profile a rule reports on.
type ProfileType string

const (
	ProfilePrepaid ProfileType = "PREPAID"
	ProfileHybrid  ProfileType = "HYBRID"
)

// Valid reports whether the profile type is a known member.
func (p ProfileType) Valid() bool {
	return p == ProfilePrepaid || p == ProfileHybrid
}

// BalanceType classifies which balance a rule aggregates over.
type BalanceType string

const (
	BalanceMain   BalanceType = "MAIN_BALANCE"
	BalanceCredit BalanceType = "CRED"
)

// Valid reports whether the balance type is a known member.
func (b BalanceType) Valid() bool {
	return b == BalanceMain || b == BalanceCredit
}

// RuleStatus is the lifecycle state of a rule.
//
// DRAFT rules are mutable. ACTIVE rules are immutable except for status
// transitions and cannot be deleted. INACTIVE rules are retained for
// reporting history and may be re-activated.
type RuleStatus string

const (
	StatusDraft    RuleStatus = "DRAFT"
	StatusActive   RuleStatus = "ACTIVE"
	StatusInactive RuleStatus = "INACTIVE"
)

// Valid reports whether the status is a known member.
func (s RuleStatus) Valid() bool {
	return s == StatusDraft || s == StatusActive || s == StatusInactive
}

// Rule is a stored, named declarative description of a reporting query.
type Rule struct {
	ID                RuleID      `json:"id" db:"rule_id"`
	Name              string      `json:"name" db:"name"`
	ProfileType       ProfileType `json:"profile_type" db:"profile_type"`
	BalanceType       BalanceType `json:"balance_type" db:"balance_type"`
	Status            RuleStatus  `json:"status" db:"status"`
	SectionID         SectionID   `json:"section_id" db:"section_id"`
	DatabaseTableName []string    `json:"database_table_name"`
	Config            *QueryPlan  `json:"config"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// SectionStatus is the lifecycle state of a section.
type SectionStatus string

const (
	SectionActive   SectionStatus = "ACTIVE"
	SectionInactive SectionStatus = "INACTIVE"
)

// Section groups rules for reporting purposes. Rules reference sections by
// ID but do not own them.
type Section struct {
	ID          SectionID     `json:"id" db:"section_id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Status      SectionStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
