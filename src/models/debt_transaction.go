package models

import (
	"time"

	"fintrack-server/src/ledger"
)

// DebtTransaction is one append-only ledger entry owned by exactly one Debt.
// Entries are never edited in place; an edit is a delete plus a re-add.
type DebtTransaction struct {
	ID          int              `json:"id"`
	DebtID      int              `json:"debt_id"`
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	Type        ledger.EntryType `json:"type"`
	CreatedAt   time.Time        `json:"created_at"`
}
