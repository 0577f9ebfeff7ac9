package models

import "time"

// Chamber identifies the legislative body a bill belongs to.
// Assembly is 1; any other value is treated as Senate, matching the
// upstream feed's convention.
type Chamber int

const (
	ChamberAssembly Chamber = 1
	ChamberSenate   Chamber = 2
)

// String returns the display name for the chamber.
func (c Chamber) String() string {
	if c == ChamberAssembly {
		return "Assembly"
	}
	return "Senate"
}

// Bill represents a tracked piece of legislation.
type Bill struct {
	ID         string     `db:"id" json:"id"`
	UpstreamID string     `db:"upstream_id" json:"upstream_id"`
	Number     string     `db:"bill_number" json:"bill_number"`
	Name       string     `db:"bill_name" json:"bill_name"`
	Status     string     `db:"status" json:"status"`
	ChamberID  Chamber    `db:"chamber_id" json:"chamber_id"`
	Summary    *string    `db:"summary" json:"summary,omitempty"`
	Author     *string    `db:"author" json:"author,omitempty"`
	Topics     []string   `db:"-" json:"topics,omitempty"`
	LastAction *time.Time `db:"last_action" json:"last_action,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// BillFilter captures filtering criteria for listing bills.
type BillFilter struct {
	Chamber   *Chamber
	Status    string
	Search    string
	Numbers   []string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
