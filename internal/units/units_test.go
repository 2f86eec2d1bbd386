package units

import (
	"math"
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v        float64
		from, to string
		want     float64
	}{
		{"freezing F to C", 32, Fahrenheit, Celsius, 0},
		{"boiling F to C", 212, Fahrenheit, Celsius, 100},
		{"body C to F", 37, Celsius, Fahrenheit, 98.6},
		{"minus forty", -40, Celsius, Fahrenheit, -40},
		{"identity", 71.5, Fahrenheit, Fahrenheit, 71.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.v, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert(%v, %q, %q) error: %v", tt.v, tt.from, tt.to, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert(%v, %q, %q) = %v, want %v", tt.v, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertRejectsUnknownUnits(t *testing.T) {
	t.Parallel()

	_, err := Convert(10, "K", Celsius)
	if err == nil || !strings.Contains(err.Error(), "F, C") {
		t.Errorf("Convert from K: error = %v, want one listing F, C", err)
	}
	if _, err := Convert(10, Celsius, ""); err == nil {
		t.Error("Convert to empty unit: expected error")
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	for unit, want := range map[string]bool{"F": true, "C": true, "f": false, "mph": false} {
		if got := IsValid(unit); got != want {
			t.Errorf("IsValid(%q) = %v, want %v", unit, got, want)
		}
	}
	if got := Suffix(Celsius); got != "°C" {
		t.Errorf("Suffix(Celsius) = %q, want %q", got, "°C")
	}
}
