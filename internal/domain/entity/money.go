package entity

import (
	"math"
	"strconv"
)

// Cents is a monetary amount in hundredths of the currency unit.
// It marshals to JSON as a two-decimal number so API payloads read
// like "subtotal": 50.00 while arithmetic stays integral.
type Cents int64

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(c)/100, 'f', 2, 64)), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*c = CentsFromFloat(f)
	return nil
}

// CentsFromFloat converts a decimal amount to Cents, rounding half away
// from zero at cent precision.
func CentsFromFloat(f float64) Cents {
	return Cents(math.Round(f * 100))
}

// Float returns the amount as a decimal number of currency units.
func (c Cents) Float() float64 { return float64(c) / 100 }
