package tiering

import "github.com/nvandessel/cohortsim/internal/constants"

// TeacherGain returns the tier gain a tutor earns from one interaction, keyed
// by the tutor's total skill. The curve peaks in the 40-59 band and drops back
// for stronger tutors; callers scale it by the tutor's motivation.
func TeacherGain(teacherSkill float64) float64 {
	switch {
	case teacherSkill <= constants.TeacherGainNoneCeiling:
		return 0
	case teacherSkill <= constants.TeacherGainLowCeiling:
		return 1
	case teacherSkill <= constants.TeacherGainPeakCeiling:
		return 2
	default:
		return constants.TeacherGainPlateau
	}
}

// LearnerGain returns the tier gain a learner earns from one interaction, keyed
// by the skill gap to the tutor. Gaps under the smallest threshold teach nothing.
func LearnerGain(gap float64) float64 {
	switch {
	case gap >= constants.LearnerGapLarge:
		return 4
	case gap >= constants.LearnerGapMedium:
		return 3
	case gap >= constants.LearnerGapSmall:
		return 2
	default:
		return 0
	}
}
