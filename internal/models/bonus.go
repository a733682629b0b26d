package models

import "time"

// Bonus is an append-only bonus point entry. Amounts are non-negative by
// policy.
type Bonus struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Amount    int       `db:"amount" json:"amount"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BonusSummary returns the list plus the running total. The total is
// recomputed on every read; it is never cached.
type BonusSummary struct {
	List       []Bonus `json:"list"`
	TotalBonus int     `json:"total_bonus"`
}
