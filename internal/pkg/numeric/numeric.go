package numeric

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a raw form field as the browser submitted it: possibly empty,
// possibly non-numeric, sent as either a JSON string or a JSON number. It is
// stored verbatim and coerced only at computation time, so malformed input can
// never poison a total or surface as NaN.
type Value string

// UnmarshalJSON accepts a JSON string, number, or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = Value(str)
		return nil
	}
	// Bare number: keep its literal form.
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*v = Value(num.String())
	return nil
}

// MarshalJSON always emits a string, matching how the historical documents
// stored form fields.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

func (v Value) String() string {
	return string(v)
}

// IsEmpty reports whether the field is blank (whitespace only counts as blank).
func (v Value) IsEmpty() bool {
	return strings.TrimSpace(string(v)) == ""
}

// Decimal coerces the value to a decimal, yielding zero for empty or
// unparseable input.
func (v Value) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Denominator coerces a share denominator: empty, unparseable, or zero input
// yields one so a ratio is always well defined.
func (v Value) Denominator() decimal.Decimal {
	d := v.Decimal()
	if d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d
}

// Float is Decimal rendered as float64, for JSON payloads that carry plain
// numbers.
func (v Value) Float() float64 {
	return v.Decimal().InexactFloat64()
}

// FromDecimal stores a decimal back into a form field.
func FromDecimal(d decimal.Decimal) Value {
	return Value(d.String())
}

// FormatArea renders an area figure with exactly three decimal digits, the
// precision used everywhere figures are stored or exported.
func FormatArea(d decimal.Decimal) string {
	return d.StringFixed(3)
}
