// Package sms turns raw bank SMS text into transaction candidates. Parsing
// and categorization are pure functions with no storage dependency; the
// ingest handler decides what to do with the result.
package sms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Candidate is the best-effort parse of one SMS. Warnings lists the fields
// that had to be defaulted; a non-empty list marks the parse as low
// confidence, not as a failure.
type Candidate struct {
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	Type        string    `json:"type"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// LowConfidence reports whether any field was defaulted during parsing.
func (c Candidate) LowConfidence() bool {
	return len(c.Warnings) > 0
}

const descriptionUnknown = "Unknown"

var (
	amountRe       = regexp.MustCompile(`(?i)rs\.?\s*([0-9]+(?:\.[0-9]+)?)`)
	dateRe         = regexp.MustCompile(`\b([0-3][0-9])-([0-1][0-9])-([0-9]{4})\b`)
	counterpartyRe = regexp.MustCompile(`(?i)\b(?:to|by)\s+(\S+)`)
	emailRe        = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	creditRe       = regexp.MustCompile(`(?i)credited|credit of`)
)

// sourceRules maps payment-app markers to source tags, checked in order with
// first match winning. The order is part of the contract: UPI handles often
// name more than one app.
var sourceRules = []struct {
	Keyword string
	Source  string
}{
	{"phonepe", "PhonePe"},
	{"paytm", "Paytm"},
	{"gpay", "Google Pay"},
}

// Parse extracts a transaction candidate from raw SMS text. It never fails
// outright: missing fields are defaulted and recorded in Warnings so callers
// can still store partial data. now supplies the fallback date.
//
// Sign convention: a credited amount is stored negated (incoming money),
// anything else keeps the extracted magnitude (an expense).
func Parse(text string, now time.Time) Candidate {
	var c Candidate

	magnitude := 0.0
	if m := amountRe.FindStringSubmatch(text); m != nil {
		magnitude, _ = strconv.ParseFloat(m[1], 64)
	} else {
		c.Warnings = append(c.Warnings, "no amount found, defaulted to 0")
	}

	c.Date = now
	if m := dateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// Reject impossible dates that survived the pattern, e.g. 31-02-2025.
		if parsed.Day() == day && int(parsed.Month()) == month {
			c.Date = parsed
		} else {
			c.Warnings = append(c.Warnings, fmt.Sprintf("invalid date %s-%s-%s, defaulted to today", m[1], m[2], m[3]))
		}
	} else {
		c.Warnings = append(c.Warnings, "no date found, defaulted to today")
	}

	c.Description = extractDescription(text)
	if c.Description == descriptionUnknown {
		c.Warnings = append(c.Warnings, "no counterparty found")
	}

	c.Amount = magnitude
	c.Type = "expense"
	if creditRe.MatchString(text) {
		c.Amount = -magnitude
		c.Type = "income"
	}

	c.Source = detectSource(text)
	c.Category = Classify(c.Description)
	return c
}

// extractDescription returns the counterparty token. Bank SMS name the
// account after the first to/by marker and the actual counterparty after the
// last one, so the last match wins; an email-like handle is the fallback.
func extractDescription(text string) string {
	if matches := counterpartyRe.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		token := matches[len(matches)-1][1]
		if token = strings.TrimRight(token, ".,;:"); token != "" {
			return token
		}
	}
	if m := emailRe.FindString(text); m != "" {
		return m
	}
	return descriptionUnknown
}

func detectSource(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range sourceRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Source
		}
	}
	return "Manual"
}
