// Package core implements the budgeting engine: sanitizing raw state,
// deriving read-only figures, and allocating money from accounts to
// sub-goals. Everything in this package is a pure function over an
// explicit State value; persistence and transport live elsewhere.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a whole number of currency units. Every monetary field in the
// budget is an Amount; fractional and negative input is normalized away
// wherever a value crosses a boundary.
type Amount int64

// NormalizeAmount rounds v to the nearest non-negative whole unit.
// NaN, infinite and negative input yields 0. Total over all inputs.
func NormalizeAmount(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return Amount(math.Round(v))
}

// ParseAmount parses user-entered text into a normalized Amount.
// Unparseable input yields 0; there is no error condition.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Accept a decimal comma, the same courtesy the rest of the app extends
	// to form input.
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return NormalizeAmount(v)
}

// Normalize clamps an already-integral Amount at zero.
func (a Amount) Normalize() Amount {
	if a < 0 {
		return 0
	}
	return a
}

// UnmarshalJSON accepts numbers (fractional and negative included), numeric
// strings and null, normalizing the result. Snapshots loaded from untrusted
// sources therefore never fail to decode because of a malformed amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*a = 0
			return nil
		}
		*a = ParseAmount(str)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = NormalizeAmount(v)
	return nil
}
