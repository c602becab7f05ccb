package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FloatToWire converts a float64 to wire format (8 decimal string)
// This matches the Python SDK's float_to_wire function for consistent precision
func FloatToWire(x float64) (string, error) {
	// Handle NaN and infinity
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", fmt.Errorf("invalid float value: %v", x)
	}

	// Round to 8 decimal places
	rounded := math.Round(x*1e8) / 1e8

	// Validate rounding precision (tolerance of 1e-12)
	if math.Abs(x-rounded) > 1e-12 {
		return "", fmt.Errorf(
			"float precision loss: %v rounds to %v",
			x,
			rounded,
		)
	}

	// Format to 8 decimal places and normalize
	formatted := strconv.FormatFloat(rounded, 'f', 8, 64)

	// Remove trailing zeros after decimal point
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}

	// Handle negative zero
	if formatted == "-0" {
		formatted = "0"
	}

	return formatted, nil
}

// StringToFloat converts a string price to float64
// Used for auction gas values that arrive in string format
func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
