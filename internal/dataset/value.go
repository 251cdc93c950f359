package dataset

import (
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindDate
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is a single coerced cell. Exactly one of the payload fields is
// meaningful, selected by kind.
type Value struct {
	kind Kind
	num  float64
	at   time.Time
	text string
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Number wraps a finite float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Date wraps a calendar date/time.
func Date(t time.Time) Value { return Value{kind: KindDate, at: t} }

// Text wraps a raw string. An empty string is the null value.
func Text(s string) Value {
	if s == "" {
		return Null()
	}
	return Value{kind: KindText, text: s}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Date returns the time payload and whether v is a date.
func (v Value) Date() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.at, true
}

// Text returns the string payload and whether v is text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// String formats the value for reports. Dates without a time-of-day print as
// YYYY-MM-DD.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindDate:
		if v.at.Hour() == 0 && v.at.Minute() == 0 && v.at.Second() == 0 && v.at.Nanosecond() == 0 {
			return v.at.Format("2006-01-02")
		}
		return v.at.Format(time.RFC3339)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Key identifies a value for equality and set membership.
type Key struct {
	kind Kind
	num  float64
	unix int64
	text string
}

// Key returns the comparable identity of v. Numbers compare by value (0 and
// -0 are equal), dates by instant and text by exact content.
func (v Value) Key() Key {
	switch v.kind {
	case KindNumber:
		n := v.num
		if n == 0 {
			n = 0
		}
		return Key{kind: KindNumber, num: n}
	case KindDate:
		return Key{kind: KindDate, unix: v.at.UnixNano()}
	case KindText:
		return Key{kind: KindText, text: v.text}
	default:
		return Key{}
	}
}

// FormatNumber prints a float in its shortest round-tripping decimal form.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
