package plan

import (
	"math"
	"strconv"
	"strings"
)

// CalculateBMI derives the body mass index from free-form weight and height
// strings: weight in kilograms, height in centimeters.
//
// Pure and deterministic. Malformed or non-positive inputs yield 0 - field
// validation is the intake form's responsibility, not this helper's. The
// result is rounded to one decimal place.
func CalculateBMI(weight, height string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || w <= 0 {
		return 0
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if err != nil || h <= 0 {
		return 0
	}
	meters := h / 100
	bmi := w / (meters * meters)
	return math.Round(bmi*10) / 10
}
