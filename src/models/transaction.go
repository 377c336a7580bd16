package models

import "time"

type Transaction struct {
	ID            int       `json:"id"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Source        string    `json:"source"`
	Type          string    `json:"type"`
	AccountID     *string   `json:"account_id,omitempty"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
