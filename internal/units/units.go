// Package units provides shared constants and conversion for temperature
// units.
package units

import "fmt"

// Unit constants
const (
	Fahrenheit = "F"
	Celsius    = "C"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Fahrenheit, Celsius}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "F, C"
}

// Suffix is the label appended to values, e.g. "°F".
func Suffix(unit string) string {
	return "°" + unit
}

// Convert converts a temperature between units. Unknown units return an
// error rather than guessing.
func Convert(v float64, from, to string) (float64, error) {
	if !IsValid(from) || !IsValid(to) {
		return 0, fmt.Errorf("unknown temperature unit %q or %q (valid: %s)", from, to, GetValidUnitsString())
	}
	switch {
	case from == to:
		return v, nil
	case from == Fahrenheit:
		return (v - 32) * 5 / 9, nil
	default:
		return v*9/5 + 32, nil
	}
}
