// Package ledger owns the rule that maps a debt ledger entry onto the
// counterparty's running balance. Every code path that touches
// debts.total_amount goes through this package so the rule cannot drift
// between the append and remove paths.
package ledger

// EntryType is the semantic type of a debt ledger entry.
type EntryType string

const (
	// Lent means the owner lent money to the counterparty.
	Lent EntryType = "lent"
	// Borrowed means the owner borrowed money from the counterparty.
	Borrowed EntryType = "borrowed"
	// Paid is a payment event; its direction is carried by the sign of the
	// amount the caller supplies.
	Paid EntryType = "paid"
)

// Valid reports whether t is one of the three known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case Lent, Borrowed, Paid:
		return true
	}
	return false
}

// SignedEffect returns the delta an entry contributes to the owning debt's
// total_amount. Positive totals mean the counterparty owes the owner.
func SignedEffect(t EntryType, amount float64) float64 {
	switch t {
	case Lent:
		return amount
	case Borrowed, Paid:
		return -amount
	}
	return 0
}

// Apply returns the balance after an entry is appended.
func Apply(total float64, t EntryType, amount float64) float64 {
	return total + SignedEffect(t, amount)
}

// Reverse returns the balance after an entry is removed. It must use the
// stored entry's own type and amount, so removing an entry restores the
// prior balance exactly up to float64 rounding. Amounts are float64 end to
// end; totals compare at sub-cent tolerance, never with ==.
func Reverse(total float64, t EntryType, amount float64) float64 {
	return total - SignedEffect(t, amount)
}
