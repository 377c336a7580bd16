package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Dinner at a restaurant", CategoryFood},
		{"UPI/SWIGGY*ORDER", CategoryFood},
		{"Uber ride downtown", CategoryTransportation},
		{"Petrol pump HP", CategoryTransportation},
		{"monthly rent June", CategoryHousing},
		{"NETFLIX.COM subscription", CategoryEntertainment},
		{"electricity bill BESCOM", CategoryUtilities},
		{"UPI/GPAY*REFUND", CategoryRefund},
		{"UPI/PHONEPE*MERCHANT", CategoryOther},
		{"", CategoryOther},
	}
	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.description))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, CategoryFood, Classify("grocery run"))
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "restaurant rent" matches both Food and Housing; Food is evaluated
	// first and must win.
	assert.Equal(t, CategoryFood, Classify("restaurant rent"))
}

func TestClassifyAlwaysInTaxonomy(t *testing.T) {
	inputs := []string{
		"random text", "UPI/X*Y", "a b c", "fuel food rent", "12345", "Unknown",
	}
	for _, in := range inputs {
		assert.True(t, ValidCategory(Classify(in)), "classify(%q) left the taxonomy", in)
	}
}

func TestCategories(t *testing.T) {
	got := Categories()
	assert.Equal(t, []string{
		CategoryFood, CategoryTransportation, CategoryHousing,
		CategoryEntertainment, CategoryUtilities, CategoryRefund, CategoryOther,
	}, got)
	assert.False(t, ValidCategory("Groceries"))
}
