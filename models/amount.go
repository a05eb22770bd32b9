package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary amount in a currency's major unit. Clients send it as
// either a JSON number or a numeric string, and a missing field must be
// distinguishable from an explicit zero, so the zero value of Amount means
// "not supplied".
type Amount struct {
	value float64
	set   bool
}

// NewAmount returns a supplied Amount with the given major-unit value.
func NewAmount(v float64) Amount {
	return Amount{value: v, set: true}
}

// UnmarshalJSON accepts a number, a numeric string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", s)
		}
		a.value = v
		a.set = true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.value = v
	a.set = true
	return nil
}

// MarshalJSON writes the amount as a number, or null when not supplied.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// Set reports whether the client supplied a value at all.
func (a Amount) Set() bool { return a.set }

// Value returns the major-unit amount, zero when not supplied.
func (a Amount) Value() float64 { return a.value }

// IsZero reports whether the client supplied an explicit zero
// (numeric 0 or the string "0").
func (a Amount) IsZero() bool { return a.set && a.value == 0 }
