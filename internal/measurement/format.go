package measurement

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// ReadoutReset is the readout shown when no measurement is complete
const ReadoutReset = "0.00"

// Centimeters converts meters to centimeters
func Centimeters(meters float64) float64 {
	return meters * 100
}

// FormatLabel renders a distance for the in-scene label, rounded to 0.1 cm
func FormatLabel(meters float64) string {
	return fmt.Sprintf("%.1f cm", scalar.Round(Centimeters(meters), 1))
}

// FormatReadout renders a distance for the numeric readout (centimeters, 2 decimals)
func FormatReadout(meters float64) string {
	return fmt.Sprintf("%.2f", scalar.Round(Centimeters(meters), 2))
}
