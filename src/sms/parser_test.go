package sms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)

func TestParseCreditSMS(t *testing.T) {
	c := Parse("Rs.500 credited to A/c XXXX1234 on 11-07-2025 by UPI/GPAY*REFUND.", testNow)

	assert.Equal(t, -500.0, c.Amount, "credited amounts are stored negated")
	assert.Equal(t, "income", c.Type)
	assert.Equal(t, time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, "UPI/GPAY*REFUND", c.Description)
	assert.Equal(t, "Google Pay", c.Source)
	assert.Equal(t, CategoryRefund, c.Category)
	assert.False(t, c.LowConfidence())
}

func TestParseDebitSMS(t *testing.T) {
	c := Parse("Rs.200 debited from A/c XXXX1234 on 10-07-2025 to UPI/PHONEPE*MERCHANT.", testNow)

	assert.Equal(t, 200.0, c.Amount)
	assert.Equal(t, "expense", c.Type)
	assert.Equal(t, time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, "UPI/PHONEPE*MERCHANT", c.Description)
	assert.Equal(t, "PhonePe", c.Source)
	assert.Equal(t, CategoryOther, c.Category, "no keyword match on merchant")
	assert.False(t, c.LowConfidence())
}

func TestParseDefaults(t *testing.T) {
	t.Run("missing amount defaults to zero with a warning", func(t *testing.T) {
		c := Parse("debited from A/c XXXX1234 on 10-07-2025 to shop", testNow)

		assert.Equal(t, 0.0, c.Amount)
		assert.True(t, c.LowConfidence())
		assert.Contains(t, c.Warnings, "no amount found, defaulted to 0")
	})

	t.Run("missing date defaults to processing date", func(t *testing.T) {
		c := Parse("Rs.75 debited to coffee", testNow)

		assert.Equal(t, testNow, c.Date)
		assert.Contains(t, c.Warnings, "no date found, defaulted to today")
	})

	t.Run("impossible date defaults to processing date", func(t *testing.T) {
		c := Parse("Rs.75 debited on 31-02-2025 to coffee", testNow)

		assert.Equal(t, testNow, c.Date)
		assert.True(t, c.LowConfidence())
	})

	t.Run("missing counterparty is marked unknown", func(t *testing.T) {
		c := Parse("Rs.75 debited from A/c on 10-07-2025", testNow)

		// "from A/c" carries no to/by marker and no email.
		assert.Equal(t, "Unknown", c.Description)
		assert.Contains(t, c.Warnings, "no counterparty found")
	})

	t.Run("empty text yields an all-default candidate", func(t *testing.T) {
		c := Parse("", testNow)

		assert.Equal(t, 0.0, c.Amount)
		assert.Equal(t, testNow, c.Date)
		assert.Equal(t, "Unknown", c.Description)
		assert.Equal(t, "Manual", c.Source)
		assert.Equal(t, CategoryOther, c.Category)
		assert.Len(t, c.Warnings, 3)
	})
}

func TestParseSignConvention(t *testing.T) {
	t.Run("credit of phrasing also negates", func(t *testing.T) {
		c := Parse("Credit of Rs.1000 on 01-08-2025 by employer@upi", testNow)
		assert.Equal(t, -1000.0, c.Amount)
		assert.Equal(t, "income", c.Type)
	})

	t.Run("case-insensitive credited match", func(t *testing.T) {
		c := Parse("Rs.50 CREDITED on 01-08-2025 by shop", testNow)
		assert.Equal(t, -50.0, c.Amount)
	})

	t.Run("debits keep the extracted magnitude", func(t *testing.T) {
		c := Parse("Rs.50 debited on 01-08-2025 to shop", testNow)
		assert.Equal(t, 50.0, c.Amount)
		assert.Equal(t, "expense", c.Type)
	})
}

func TestParseSourcePriority(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"phonepe wins over gpay", "Rs.10 to PHONEPE via GPAY", "PhonePe"},
		{"paytm wins over gpay", "Rs.10 to PAYTM*X by GPAY", "Paytm"},
		{"gpay alone", "Rs.10 to GPAY*X", "Google Pay"},
		{"no app marker", "Rs.10 to shop", "Manual"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.text, testNow).Source)
		})
	}
}

func TestParseEmailFallback(t *testing.T) {
	c := Parse("Rs.120 debited on 10-07-2025 for merchant@okhdfcbank.com", testNow)

	require.Equal(t, "merchant@okhdfcbank.com", c.Description)
	assert.False(t, c.LowConfidence())
}

func TestParseDecimalAmount(t *testing.T) {
	c := Parse("Rs. 499.50 debited on 10-07-2025 to UPI/SWIGGY*ORDER", testNow)

	assert.Equal(t, 499.50, c.Amount)
	assert.Equal(t, CategoryFood, c.Category)
}
