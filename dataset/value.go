package dataset

import (
	"math"
	"strconv"
)

// Kind is the kind of a single cell.
type Kind uint8

const (
	// KindMissing marks an unknown cell. It never equals a valid value.
	KindMissing Kind = iota
	// KindNumber is a cell whose raw text parses as a finite float.
	KindNumber
	// KindString is any other cell.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is one table cell. Raw keeps the text exactly as read; Num is set
// for KindNumber only.
type Value struct {
	Kind Kind
	Raw  string
	Num  float64
}

// Missing returns the canonical missing marker.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Parse classifies raw text as a number or a string. Non-finite numbers
// ("NaN", "Inf") stay strings so a number is always usable in arithmetic.
func Parse(raw string) Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Value{Kind: KindNumber, Raw: raw, Num: f}
	}
	return Value{Kind: KindString, Raw: raw}
}

// Number returns a numeric cell with a canonical raw form.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Raw: strconv.FormatFloat(f, 'g', -1, 64), Num: f}
}

// Text returns a string cell.
func Text(raw string) Value {
	return Value{Kind: KindString, Raw: raw}
}

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Equal compares kind and raw text. Two missing cells are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindMissing {
		return true
	}
	return v.Raw == o.Raw
}

func (v Value) String() string {
	if v.Kind == KindMissing {
		return "<missing>"
	}
	return v.Raw
}
