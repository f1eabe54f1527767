// Package constants provides named constants used throughout the cohortsim codebase.
// This centralizes the fixed thresholds of the learner model so that the
// tiering, initialization and update code read from a single table.
package constants

// Practice demand thresholds. A learner whose pre-session total skill is at or
// above a threshold makes the corresponding number of practice attempts.
const (
	// DemandNoneThreshold: total skill >= this makes no attempts.
	DemandNoneThreshold = 80.0

	// DemandOneThreshold: total skill >= this makes one attempt.
	DemandOneThreshold = 60.0

	// DemandTwoThreshold: total skill >= this makes two attempts.
	DemandTwoThreshold = 40.0

	// DemandThreeThreshold: total skill >= this makes three attempts.
	// Anything lower makes MaxAttempts.
	DemandThreeThreshold = 20.0

	// MaxAttempts is the attempt count for the least skilled learners.
	MaxAttempts = 4
)

// Teacher gain ceilings. The gain is keyed by the teacher's total skill and
// plateaus above TeacherGainPeakCeiling (the top band yields less than the band below it).
const (
	// TeacherGainNoneCeiling: total skill <= this teaches for no gain.
	TeacherGainNoneCeiling = 19.0

	// TeacherGainLowCeiling: total skill <= this teaches for a gain of 1.
	TeacherGainLowCeiling = 39.0

	// TeacherGainPeakCeiling: total skill <= this teaches for a gain of 2.
	// Above it the gain drops back to TeacherGainPlateau.
	TeacherGainPeakCeiling = 59.0

	// TeacherGainPlateau is the gain for teachers above TeacherGainPeakCeiling.
	TeacherGainPlateau = 1.0
)

// Learner gain thresholds are keyed by the skill gap between teacher and learner.
const (
	// LearnerGapLarge: gap >= this yields a gain of 4.
	LearnerGapLarge = 30.0

	// LearnerGapMedium: gap >= this yields a gain of 3.
	LearnerGapMedium = 20.0

	// LearnerGapSmall: gap >= this yields a gain of 2. Smaller gaps yield nothing.
	LearnerGapSmall = 10.0
)

// Initial attribute ranges per tier. Base skill is drawn as an integer from the
// closed range, motivation as a real number from the half-open range.
const (
	ExperiencedSkillMin = 55
	ExperiencedSkillMax = 65
	ExperiencedMotivMin = 1.0
	ExperiencedMotivMax = 1.5

	SemiExperiencedSkillMin = 30
	SemiExperiencedSkillMax = 40
	SemiExperiencedMotivMin = 0.8
	SemiExperiencedMotivMax = 1.2

	BeginnerSkillMin = 5
	BeginnerSkillMax = 15
	BeginnerMotivMin = 0.5
	BeginnerMotivMax = 1.0
)

// Experienced neighbours give a flat self-study bonus.
const ExperiencedNeighborBonus = 1

// Histogram layout for skill distributions.
const (
	// HistogramBinWidth is the width of each skill bin.
	HistogramBinWidth = 5.0

	// HistogramMin is the lower edge of the first bin.
	HistogramMin = 0.0

	// HistogramMax is the upper edge of the last bin.
	HistogramMax = 100.0
)

// RatioTotal is the percentage the tier ratios are drawn from.
const RatioTotal = 100
