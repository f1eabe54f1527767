// Package learning turns a session's tutoring interactions and self-study into
// logged skill gains.
package learning

import (
	"math/rand/v2"

	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/constants"
	"github.com/nvandessel/cohortsim/internal/scheduling"
	"github.com/nvandessel/cohortsim/internal/tiering"
)

// InteractionOutcome summarizes the gains applied for a session's interactions.
type InteractionOutcome struct {
	// Entries is the number of log entries appended (zero gains included).
	Entries int

	// TeacherGain and LearnerGain are the motivation-scaled totals credited.
	TeacherGain float64
	LearnerGain float64
}

// ApplyInteractions credits both sides of every interaction.
//
// totals must be the same pre-session snapshot the schedule was built from:
// gains applied earlier in the loop never change the gap seen by later
// interactions. Tutor gain follows tiering.TeacherGain of the tutor's skill,
// learner gain follows tiering.LearnerGain of the gap; both are scaled by the
// recipient's motivation and logged even when zero. Experienced students are
// never credited.
func ApplyInteractions(pop *cohort.Population, totals []float64, interactions []scheduling.Interaction) InteractionOutcome {
	var out InteractionOutcome
	for _, it := range interactions {
		teacher := pop.At(it.Teacher)
		learner := pop.At(it.Learner)
		gap := totals[it.Teacher] - totals[it.Learner]

		tg := tiering.TeacherGain(totals[it.Teacher]) * teacher.Motivation()
		if teacher.Record(tg) {
			out.Entries++
			out.TeacherGain += tg
		}

		lg := tiering.LearnerGain(gap) * learner.Motivation()
		if learner.Record(lg) {
			out.Entries++
			out.LearnerGain += lg
		}
	}
	return out
}

// SelfStudyParams controls the per-session self-study draw.
type SelfStudyParams struct {
	Prob float64
	Min  int
	Max  int
}

// SelfStudyOutcome summarizes a session's self-study step.
type SelfStudyOutcome struct {
	// Studied counts students who won the self-study draw.
	Studied int

	// Entries counts log entries appended.
	Entries int

	// Gain is the total amount credited.
	Gain float64
}

// SelfStudy gives every seated student one chance to study alone.
//
// With probability p.Prob the student draws an integer gain from
// [p.Min, p.Max]; sitting next to an Experienced student adds a flat bonus.
// A positive amount is logged for non-Experienced students. The probability
// draw is consumed for every seat so the random stream does not depend on
// who is Experienced.
func SelfStudy(pop *cohort.Population, rng *rand.Rand, p SelfStudyParams) SelfStudyOutcome {
	var out SelfStudyOutcome
	for i := 0; i < pop.Len(); i++ {
		amount := 0
		if rng.Float64() < p.Prob {
			amount += p.Min + rng.IntN(p.Max-p.Min+1)
			out.Studied++
		}
		if pop.NextToExperienced(i) {
			amount += constants.ExperiencedNeighborBonus
		}
		if amount > 0 && pop.At(i).Record(float64(amount)) {
			out.Entries++
			out.Gain += float64(amount)
		}
	}
	return out
}
