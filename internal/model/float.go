package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Float is a nullable float64. The zero value is null.
//
// It distinguishes "not reported" from "reported as zero": a null Float
// encodes to an empty CSV cell and to JSON null.
type Float struct {
	Value float64
	Valid bool
}

// NewFloat returns a non-null Float.
func NewFloat(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{Value: v, Valid: true}
}

// ParseFloat coerces s to a Float. Unparseable input yields null, never zero
// and never an error.
func ParseFloat(s string) Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Float{}
	}
	return NewFloat(v)
}

// Or returns the value, or def when f is null.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// String formats the value with the shortest round-tripping representation,
// or "" when null.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Ratio returns scale * num / den, or null when either operand is null or the
// denominator is zero.
func Ratio(num, den Float, scale float64) Float {
	if !num.Valid || !den.Valid || den.Value == 0 {
		return Float{}
	}
	return NewFloat(scale * num.Value / den.Value)
}

// SumOrZero adds the values, counting null summands as zero.
func SumOrZero(vals ...Float) float64 {
	var total float64
	for _, v := range vals {
		total += v.Or(0)
	}
	return total
}

// MarshalCSV implements csvutil.Marshaler.
func (f Float) MarshalCSV() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalCSV implements csvutil.Unmarshaler. An empty cell is null; any
// other unparseable cell is an error so a corrupt cache is detected.
func (f *Float) UnmarshalCSV(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return eris.Wrapf(err, "model: parse float %q", s)
	}
	*f = NewFloat(v)
	return nil
}

// MarshalJSON encodes null as JSON null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.String()), nil
}

// UnmarshalJSON accepts a number or null.
func (f *Float) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return eris.Wrapf(err, "model: parse json float %s", string(b))
	}
	*f = NewFloat(v)
	return nil
}
