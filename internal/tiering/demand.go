// Package tiering maps skill levels onto the fixed bands that drive a session:
// how many practice attempts a learner makes, and how much each side of a
// tutoring interaction gains.
package tiering

import "github.com/nvandessel/cohortsim/internal/constants"

// Demand returns the number of practice attempts for a learner with the given
// pre-session total skill. More skilled learners practise less.
func Demand(totalSkill float64) int {
	switch {
	case totalSkill >= constants.DemandNoneThreshold:
		return 0
	case totalSkill >= constants.DemandOneThreshold:
		return 1
	case totalSkill >= constants.DemandTwoThreshold:
		return 2
	case totalSkill >= constants.DemandThreeThreshold:
		return 3
	default:
		return constants.MaxAttempts
	}
}
