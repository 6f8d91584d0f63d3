// Package rates defines the rate snapshot entity shared by sources and lookups.
package rates

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// DateLayout is the calendar-day format used by providers and the HTTP API.
const DateLayout = "2006-01-02"

// Snapshot is one base currency's rate table for one date.
// A Snapshot is immutable once constructed.
type Snapshot struct {
	base  string
	date  time.Time
	rates map[string]float64
}

// New builds a Snapshot. The rates map is copied and the date is truncated to a UTC day.
func New(base string, date time.Time, rates map[string]float64) Snapshot {
	return Snapshot{
		base:  base,
		date:  Day(date),
		rates: maps.Clone(rates),
	}
}

// Get returns the rate for code. A missing code means the rate is unknown, not zero.
func (s Snapshot) Get(code string) (float64, bool) {
	v, ok := s.rates[code]
	return v, ok
}

// Date returns the day the snapshot applies to.
func (s Snapshot) Date() time.Time { return s.date }

// Base returns the base currency code.
func (s Snapshot) Base() string { return s.base }

// Len returns the number of rates in the snapshot.
func (s Snapshot) Len() int { return len(s.rates) }

// Codes returns the currency codes present in the snapshot, sorted.
func (s Snapshot) Codes() []string {
	return slices.Sorted(maps.Keys(s.rates))
}

type snapshotJSON struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		Base:  s.base,
		Date:  FormatDate(s.date),
		Rates: s.rates,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return fmt.Errorf("snapshot date: %w", err)
	}
	*s = New(raw.Base, date, raw.Rates)
	return nil
}

// Point is the rate of one currency extracted from one snapshot.
type Point struct {
	Date  time.Time
	Value float64
	Found bool
}

// PointOf extracts code from s.
func PointOf(s Snapshot, code string) Point {
	v, ok := s.Get(code)
	return Point{Date: s.Date(), Value: v, Found: ok}
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
