package simulation

import (
	"context"
	"math/rand/v2"

	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/learning"
	"github.com/nvandessel/cohortsim/internal/retention"
	"github.com/nvandessel/cohortsim/internal/scheduling"
)

// TrialResult is the outcome of one trial.
type TrialResult struct {
	// Progression is the mean total skill after each session.
	Progression []float64

	// Initial holds each student's base skill; Final their total skill after
	// the last session. Both are in creation order.
	Initial []float64
	Final   []float64

	Composition  cohort.Composition
	Interactions int
}

// Trial identifies one trial within a run for observers.
type Trial struct {
	Phase    Phase
	Index    int
	Observer Observer
}

// NewTrialPopulation builds a fresh population for p.
func NewTrialPopulation(rng *rand.Rand, p Params) *cohort.Population {
	comp := cohort.Split(p.NumStudents, p.ExpRatio, p.SemiRatio)
	return cohort.Initialize(rng, comp, retention.NewModel(p.DecayRate))
}

// RunSession advances pop through one session:
// shuffle and reset, schedule, apply tutoring gains, self-study.
// It returns the session's statistics with the post-session mean skill.
func RunSession(pop *cohort.Population, rng *rand.Rand, p Params, session int) SessionStats {
	pop.BeginSession(rng, session)

	totals := pop.Totals()
	interactions := scheduling.Schedule(pop, totals, p.MaxTeachCount)
	tutoring := learning.ApplyInteractions(pop, totals, interactions)
	study := learning.SelfStudy(pop, rng, learning.SelfStudyParams{
		Prob: p.SelfStudyProb,
		Min:  p.SelfStudyMin,
		Max:  p.SelfStudyMax,
	})

	return SessionStats{
		Session:       session,
		MeanSkill:     pop.MeanTotalSkill(),
		Interactions:  len(interactions),
		SelfStudied:   study.Studied,
		TutoringGain:  tutoring.TeacherGain + tutoring.LearnerGain,
		SelfStudyGain: study.Gain,
	}
}

// RunTrial runs p.NumSessions sessions over pop strictly in order. Each
// session's seating and skills depend on the one before it. The context is
// checked between sessions.
func RunTrial(ctx context.Context, pop *cohort.Population, rng *rand.Rand, p Params, tr Trial) (TrialResult, error) {
	obs := tr.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	res := TrialResult{
		Progression: make([]float64, 0, p.NumSessions),
		Initial:     pop.BaseSkills(),
		Composition: pop.Count(),
	}

	for session := 0; session < p.NumSessions; session++ {
		if err := ctx.Err(); err != nil {
			return TrialResult{}, err
		}
		stats := RunSession(pop, rng, p, session)
		stats.Phase = tr.Phase
		stats.Trial = tr.Index

		res.Progression = append(res.Progression, stats.MeanSkill)
		res.Interactions += stats.Interactions
		obs.SessionCompleted(stats)
	}

	res.Final = pop.TotalSkills()
	obs.TrialCompleted(tr.Phase, tr.Index)
	return res, nil
}
