// Package retention models how much of a past skill gain a learner still holds.
//
// Gains fade exponentially with the number of sessions elapsed since they were
// logged: contribution = gain * e^(-lambda * elapsed). Contributions approach
// zero but are never pruned.
package retention

import "math"

// DefaultDecayRate is the default forgetting rate per session.
// At 0.3, a gain keeps ~74% of its value after one session and ~5% after ten.
const DefaultDecayRate = 0.3

// Model holds the decay rate (lambda) shared by every learner in a run.
type Model struct {
	Rate float64
}

// NewModel creates a retention model with the given decay rate.
func NewModel(rate float64) Model {
	return Model{Rate: rate}
}

// Contribution returns the part of gain still retained after elapsed sessions.
// The full gain is returned at elapsed 0. Negative elapsed values mean the
// gain lies in the future and contributes nothing.
func (m Model) Contribution(gain float64, elapsed int) float64 {
	if gain == 0 || elapsed < 0 {
		return 0
	}
	if elapsed == 0 {
		return gain
	}
	return gain * math.Exp(-m.Rate*float64(elapsed))
}

// Factor returns the multiplicative decay applied over elapsed sessions.
func (m Model) Factor(elapsed int) float64 {
	if elapsed <= 0 {
		return 1
	}
	return math.Exp(-m.Rate * float64(elapsed))
}

// Accumulator holds the decayed sum of all gains in constant space.
//
// Because decay is exponential, advancing the running total by dt sessions is
// a single multiplication by e^(-lambda*dt), which gives the same value as
// summing every logged gain with its own elapsed time.
// Session indices passed to Advance must never decrease.
type Accumulator struct {
	model   Model
	value   float64
	session int
}

// NewAccumulator creates an empty accumulator positioned at session 0.
func NewAccumulator(m Model) Accumulator {
	return Accumulator{model: m}
}

// Advance decays the running total forward to session.
// Calls with a session at or before the current one are no-ops.
func (a *Accumulator) Advance(session int) {
	if session <= a.session {
		return
	}
	if a.value != 0 {
		a.value *= a.model.Factor(session - a.session)
	}
	a.session = session
}

// Add credits gain at the accumulator's current session.
func (a *Accumulator) Add(gain float64) {
	a.value += gain
}

// Value returns the retained total at the current session.
func (a *Accumulator) Value() float64 {
	return a.value
}

// Session returns the session the accumulator is positioned at.
func (a *Accumulator) Session() int {
	return a.session
}
