package tiering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemand_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		skill float64
		want  int
	}{
		{"mastered", 81, 0},
		{"at no-practice threshold", 80, 0},
		{"just below mastery", 79, 1},
		{"at one-attempt threshold", 60, 1},
		{"just below one-attempt", 59, 2},
		{"at two-attempt threshold", 40, 2},
		{"just below two-attempt", 39, 3},
		{"at three-attempt threshold", 20, 3},
		{"just below three-attempt", 19, 4},
		{"fractional below threshold", 19.999, 4},
		{"zero skill", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Demand(tt.skill), "Demand(%v)", tt.skill)
		})
	}
}

func TestTeacherGain_Bands(t *testing.T) {
	tests := []struct {
		name  string
		skill float64
		want  float64
	}{
		{"beginner tutor", 10, 0},
		{"at none ceiling", 19, 0},
		{"just above none ceiling", 19.5, 1},
		{"at low ceiling", 39, 1},
		{"just above low ceiling", 39.01, 2},
		{"at peak ceiling", 59, 2},
		{"plateau starts above peak", 59.5, 1},
		{"experienced tutor", 65, 1},
		{"very strong tutor", 95, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TeacherGain(tt.skill))
		})
	}
}

// Tutors in the 40-59 band earn more than stronger tutors.
func TestTeacherGain_Plateau(t *testing.T) {
	assert.Greater(t, TeacherGain(50), TeacherGain(65))
}

func TestLearnerGain_Bands(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
		want float64
	}{
		{"huge gap", 55, 4},
		{"at large gap", 30, 4},
		{"just under large gap", 29.9, 3},
		{"at medium gap", 20, 3},
		{"just under medium gap", 19.9, 2},
		{"at small gap", 10, 2},
		{"just under small gap", 9.99, 0},
		{"tiny gap", 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LearnerGain(tt.gap))
		})
	}
}
