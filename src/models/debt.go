package models

import "time"

// Debt is one counterparty account. TotalAmount is derived from the debt's
// ledger entries and is only ever written by the ledger code path; positive
// means the counterparty owes the owner.
type Debt struct {
	ID          int       `json:"id"`
	PersonName  string    `json:"person_name"`
	TotalAmount float64   `json:"total_amount"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
