package enums

import "fmt"

// Unit represents the canonical units of measure supported for stock items.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitLitre  Unit = "litre"
	UnitPiece  Unit = "piece"
	UnitPack   Unit = "pack"
	UnitDozen  Unit = "dozen"
	UnitBottle Unit = "bottle"
	UnitCan    Unit = "can"
)

var validUnits = []Unit{
	UnitKg,
	UnitLitre,
	UnitPiece,
	UnitPack,
	UnitDozen,
	UnitBottle,
	UnitCan,
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnit converts raw input into a Unit.
func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}

// Units returns the full enumerated set in declaration order.
func Units() []Unit {
	out := make([]Unit, len(validUnits))
	copy(out, validUnits)
	return out
}
