package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBMI(t *testing.T) {
	tests := []struct {
		name   string
		weight string
		height string
		want   float64
	}{
		{"typical", "80", "180", 24.7},
		{"rounds to one decimal", "70", "175", 22.9},
		{"whitespace tolerated", " 80 ", " 180 ", 24.7},
		{"malformed weight", "eighty", "180", 0},
		{"malformed height", "80", "", 0},
		{"zero height", "80", "0", 0},
		{"negative weight", "-80", "180", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateBMI(tt.weight, tt.height))
		})
	}
}

func TestCalculateBMI_Deterministic(t *testing.T) {
	first := CalculateBMI("82.5", "179")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculateBMI("82.5", "179"))
	}
}
