package dataprocessing

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a Value holds
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// DateLayout is the display layout for date cells
const DateLayout = "2006-01-02"

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Null returns the no-value marker
func Null() Value { return Value{} }

// Text returns a text cell
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell; NaN is stored as null
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Date returns a date cell
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Kind reports the kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell holds no value
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsText returns the text and whether the cell is text
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the number and whether the cell is numeric
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsDate returns the date and whether the cell is a date
func (v Value) AsDate() (time.Time, bool) { return v.date, v.kind == KindDate }

// String renders the cell for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal compares two cells. Null equals null, which is what deduplication
// relies on; dates compare by instant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// key returns a string usable as a map key that is equal for Equal values
func (v Value) key() string {
	switch v.kind {
	case KindText:
		return "t:" + v.text
	case KindNumber:
		if v.num == 0 {
			return "n:0" // -0 == 0
		}
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindDate:
		return "d:" + strconv.FormatInt(v.date.UnixNano(), 10)
	default:
		return "null"
	}
}

// compareNullsLast orders a before b (-1), after (1) or equal (0). Null sorts
// after every non-null value regardless of direction.
func compareNullsLast(a, b Value, descending bool) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	case b.IsNull():
		return -1
	}

	c := compareValues(a, b)
	if descending {
		return -c
	}
	return c
}

func compareValues(a, b Value) int {
	if a.kind != b.kind {
		// numbers before dates before text
		return cmp.Compare(kindRank(a.kind), kindRank(b.kind))
	}
	switch a.kind {
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	case KindDate:
		return a.date.Compare(b.date)
	default:
		return strings.Compare(a.text, b.text)
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindDate:
		return 1
	default:
		return 2
	}
}
