package core

import (
	"fmt"
	"math"
)

// IntToStringFixedWidth converts an integer to a string of a specified width,
// left-padding with spaces. Longer numbers are not truncated.
func IntToStringFixedWidth(num int, width int) string {
	return fmt.Sprintf("%*d", width, num)
}

// PercentFixedWidth renders a probability in [0,1] as a rounded whole
// percentage padded to width, e.g. 0.372 -> " 37".
func PercentFixedWidth(p float64, width int) string {
	return IntToStringFixedWidth(int(math.Round(p*100)), width)
}
