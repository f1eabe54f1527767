// Package scheduling pairs learners with neighbouring tutors for one session.
package scheduling

import (
	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/tiering"
)

// Interaction is one tutoring turn between two seat positions.
type Interaction struct {
	Teacher int `json:"teacher"`
	Learner int `json:"learner"`
}

// Schedule assigns tutors for the session and returns every interaction in
// the order it was made.
//
// totals is the pre-session total skill by seat position (see
// cohort.Population.Totals); no skill changes while scheduling. Each learner,
// in seat order, makes tiering.Demand attempts. For every attempt the left and
// then the right neighbour is considered; a neighbour qualifies when it is
// strictly more skilled and has taught fewer than maxTeach times this session.
// The most skilled qualifying neighbour teaches, with ties going to the left.
// The tutor's teach count rises immediately, so later attempts see it.
func Schedule(pop *cohort.Population, totals []float64, maxTeach int) []Interaction {
	var out []Interaction
	for i := 0; i < pop.Len(); i++ {
		attempts := tiering.Demand(totals[i])
		for range attempts {
			teacher := pickTeacher(pop, totals, i, maxTeach)
			if teacher < 0 {
				// Teach counts only grow, so no later attempt can qualify either.
				break
			}
			pop.At(teacher).Teach()
			out = append(out, Interaction{Teacher: teacher, Learner: i})
		}
	}
	return out
}

// pickTeacher returns the seat of the tutor for learner i, or -1 if no
// neighbour qualifies.
func pickTeacher(pop *cohort.Population, totals []float64, i, maxTeach int) int {
	best := -1
	for _, j := range pop.Neighbors(i) {
		if totals[j] <= totals[i] || pop.At(j).TeachCount() >= maxTeach {
			continue
		}
		if best < 0 || totals[j] > totals[best] {
			best = j
		}
	}
	return best
}
