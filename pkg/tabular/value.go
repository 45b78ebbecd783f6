// Package tabular provides the row-sourced table model shared by all
// pipeline stages: ordered tables of cells that are strings, numbers,
// dates, or a distinguished missing value.
package tabular

import (
	"strconv"
	"strings"
	"time"
)

// NotFoundText is the rendered form of a missing value. It is only
// produced at output boundaries; internally missing values stay typed.
const NotFoundText = "not Found!"

// DateLayout is the canonical rendered date form.
const DateLayout = "2006-01-02"

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindDate
)

// Value is a single table cell. The zero Value is missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Missing returns the missing value.
func Missing() Value {
	return Value{}
}

// String returns a string cell.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Date returns a date cell truncated to the day.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t.Truncate(24 * time.Hour)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// missingTexts are string spellings treated as absent data wherever they
// appear, so downstream comparisons see one missing value rather than a
// zoo of placeholder strings.
var missingTexts = map[string]struct{}{
	"":           {},
	"not found!": {},
	"not found":  {},
	"nan":        {},
	"nat":        {},
	"none":       {},
}

// IsMissing reports whether v carries no data. String cells spelled like a
// placeholder ("not found", "nan", ...) count as missing.
func (v Value) IsMissing() bool {
	if v.kind == KindMissing {
		return true
	}
	if v.kind == KindString {
		_, ok := missingTexts[strings.ToLower(strings.TrimSpace(v.str))]
		return ok
	}
	return false
}

// AsNumber coerces v to a float64. Strings are parsed; anything
// unparseable reports ok=false.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		if v.IsMissing() {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts are the spreadsheet date spellings accepted on input.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// AsDate coerces v to a calendar date.
func (v Value) AsDate() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.date, true
	case KindString:
		if v.IsMissing() {
			return time.Time{}, false
		}
		s := strings.TrimSpace(v.str)
		// A trailing time-of-day is noise for cadence purposes.
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Truncate(24 * time.Hour), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Render returns the output-boundary string form of v: dates as
// "2006-01-02", numbers in minimal decimal form, missing as NotFoundText.
func (v Value) Render() string {
	switch v.kind {
	case KindString:
		if v.IsMissing() {
			return NotFoundText
		}
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return NotFoundText
	}
}

// RenderDate re-normalizes v as a canonical date string, mapping anything
// that is not a recognizable date to NotFoundText.
func (v Value) RenderDate() string {
	if t, ok := v.AsDate(); ok {
		return t.Format(DateLayout)
	}
	return NotFoundText
}

// AddDays returns the rendered date n days after v, or missing when v is
// not a recognizable date.
func AddDays(v Value, days int) Value {
	t, ok := v.AsDate()
	if !ok {
		return Missing()
	}
	return String(t.AddDate(0, 0, days).Format(DateLayout))
}

// Infer builds a Value from a raw cell string: blank → missing, numeric
// text → number, date text → date, anything else → string.
func Infer(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t)
		}
	}
	return String(s)
}
