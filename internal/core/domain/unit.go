package domain

import (
	"fmt"
	"strings"
)

// Unit is the length unit of the source geometry
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitInch       Unit = "inch"
)

// DefaultUnit is the unit assumed for source files
const DefaultUnit = UnitInch

// MillimetersToInches converts a millimeter length to inches
const MillimetersToInches = 0.0393701

// ParseUnit validates a unit name
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case UnitMillimeter:
		return UnitMillimeter, nil
	case UnitInch:
		return UnitInch, nil
	}
	return "", fmt.Errorf("invalid unit %q: must be mm or inch", s)
}

// Scale is the multiplier that converts lengths in this unit to inches
func (u Unit) Scale() float64 {
	if u == UnitMillimeter {
		return MillimetersToInches
	}
	return 1.0
}

func (u Unit) String() string {
	return string(u)
}
