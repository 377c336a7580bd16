package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedEffect(t *testing.T) {
	t.Run("lent adds to the balance", func(t *testing.T) {
		assert.Equal(t, 500.0, SignedEffect(Lent, 500))
	})

	t.Run("borrowed subtracts from the balance", func(t *testing.T) {
		assert.Equal(t, -500.0, SignedEffect(Borrowed, 500))
	})

	t.Run("paid subtracts the supplied amount", func(t *testing.T) {
		assert.Equal(t, -500.0, SignedEffect(Paid, 500))
	})

	t.Run("paid with negative amount adds", func(t *testing.T) {
		assert.Equal(t, 500.0, SignedEffect(Paid, -500))
	})

	t.Run("unknown type has no effect", func(t *testing.T) {
		assert.Equal(t, 0.0, SignedEffect(EntryType("gifted"), 500))
	})
}

func TestApplyReverseRoundTrip(t *testing.T) {
	// (b + s) - s is not bit-exact for float64, e.g. 1234.56 after a
	// 123456.78 round trip comes back as 1234.5599999999977. The balance is
	// currency, so the contract is sub-cent equality, not ==.
	amounts := []float64{0, 1, 499.99, 500, 123456.78, -250}
	for _, typ := range []EntryType{Lent, Borrowed, Paid} {
		for _, amount := range amounts {
			balance := 1234.56
			got := Reverse(Apply(balance, typ, amount), typ, amount)
			assert.InDelta(t, balance, got, 1e-9, "round trip for type %s amount %v", typ, amount)
		}
	}
}

func TestBalanceScenarios(t *testing.T) {
	t.Run("lending 500 from zero leaves 500", func(t *testing.T) {
		total := Apply(0, Lent, 500)
		assert.Equal(t, 500.0, total)
	})

	t.Run("payment of 500 settles an outstanding 500", func(t *testing.T) {
		total := Apply(0, Lent, 500)
		total = Apply(total, Paid, 500)
		assert.Equal(t, 0.0, total)
	})

	t.Run("removing the only entry reverts to zero", func(t *testing.T) {
		total := Apply(0, Lent, 500)
		total = Reverse(total, Lent, 500)
		assert.Equal(t, 0.0, total)
	})
}

func TestInvariantOverSequence(t *testing.T) {
	// total must equal the signed sum of all live entries after any sequence
	// of appends and removes.
	type entry struct {
		typ    EntryType
		amount float64
	}
	entries := []entry{
		{Lent, 100}, {Borrowed, 40}, {Paid, 25}, {Lent, 0.5}, {Paid, -10},
	}

	total := 0.0
	for _, e := range entries {
		total = Apply(total, e.typ, e.amount)
	}

	// Remove two entries out of order.
	total = Reverse(total, entries[1].typ, entries[1].amount)
	total = Reverse(total, entries[3].typ, entries[3].amount)
	live := []entry{entries[0], entries[2], entries[4]}

	want := 0.0
	for _, e := range live {
		want += SignedEffect(e.typ, e.amount)
	}
	assert.InDelta(t, want, total, 1e-9)
}

func TestEntryTypeValid(t *testing.T) {
	assert.True(t, Lent.Valid())
	assert.True(t, Borrowed.Valid())
	assert.True(t, Paid.Valid())
	assert.False(t, EntryType("").Valid())
	assert.False(t, EntryType("LENT").Valid())
	assert.False(t, EntryType("settled").Valid())
}
