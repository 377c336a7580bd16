package util

import "regexp"

var monthRe = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)

// ValidateMonth checks the YYYY-MM budget month format.
func ValidateMonth(month string) bool {
	return monthRe.MatchString(month)
}

// ValidateTransactionType accepts the two transaction directions.
func ValidateTransactionType(t string) bool {
	return t == "income" || t == "expense"
}
