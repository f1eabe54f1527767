// Package cohort defines learners and the ordered population they sit in.
package cohort

import (
	"fmt"

	"github.com/nvandessel/cohortsim/internal/retention"
)

// Tier is the fixed skill band a student is assigned at creation.
type Tier int

const (
	TierExperienced Tier = iota
	TierSemiExperienced
	TierBeginner
)

// String returns the display label of the tier.
func (t Tier) String() string {
	switch t {
	case TierExperienced:
		return "Experienced"
	case TierSemiExperienced:
		return "Semi-Experienced"
	case TierBeginner:
		return "Beginner"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// GainEntry is one logged skill gain and the session it was earned in.
type GainEntry struct {
	Gain    float64 `json:"gain"`
	Session int     `json:"session"`
}

// Student is a single learner.
//
// Base skill, tier and motivation are fixed at creation. Gains are appended
// to an ordered log and credited to a retention accumulator so TotalSkill
// runs in constant time however long the history grows.
type Student struct {
	base       float64
	tier       Tier
	motivation float64

	teachCount int
	session    int
	log        []GainEntry
	retained   retention.Accumulator
	model      retention.Model
}

// NewStudent creates a student at session 0 with an empty gain log.
func NewStudent(base float64, tier Tier, motivation float64, model retention.Model) *Student {
	return &Student{
		base:       base,
		tier:       tier,
		motivation: motivation,
		retained:   retention.NewAccumulator(model),
		model:      model,
	}
}

// BaseSkill returns the skill the student started with.
func (s *Student) BaseSkill() float64 { return s.base }

// Tier returns the student's skill band.
func (s *Student) Tier() Tier { return s.tier }

// Motivation returns the multiplier applied to peer-tutoring gains.
func (s *Student) Motivation() float64 { return s.motivation }

// TeachCount returns how many times the student has taught this session.
func (s *Student) TeachCount() int { return s.teachCount }

// Session returns the student's current session index.
func (s *Student) Session() int { return s.session }

// IsExperienced reports whether the student sits at the mastery ceiling.
func (s *Student) IsExperienced() bool { return s.tier == TierExperienced }

// Log returns a copy of the gain log in append order.
func (s *Student) Log() []GainEntry {
	out := make([]GainEntry, len(s.log))
	copy(out, s.log)
	return out
}

// LogLen returns the number of logged gains.
func (s *Student) LogLen() int { return len(s.log) }

// SetSession moves the student to session. It must be called once per session
// before any total-skill query in that session; session indices never decrease.
func (s *Student) SetSession(session int) {
	if session < s.session {
		panic(fmt.Sprintf("cohort: session moved backwards from %d to %d", s.session, session))
	}
	s.session = session
	s.retained.Advance(session)
}

// ResetTeachCount clears the per-session teaching counter.
func (s *Student) ResetTeachCount() { s.teachCount = 0 }

// Teach counts one tutoring turn given by this student.
func (s *Student) Teach() { s.teachCount++ }

// Record appends gain to the log at the current session.
// Experienced students are at the mastery ceiling and never receive entries;
// Record reports whether the gain was logged. Zero gains are logged too.
func (s *Student) Record(gain float64) bool {
	if s.IsExperienced() {
		return false
	}
	s.log = append(s.log, GainEntry{Gain: gain, Session: s.session})
	s.retained.Add(gain)
	return true
}

// Retained returns the decayed sum of all logged gains at the current session.
func (s *Student) Retained() float64 {
	return s.retained.Value()
}

// RetainedFromLog recomputes the retained total by walking the full log.
// It is O(len(log)) and exists to cross-check the accumulator.
func (s *Student) RetainedFromLog() float64 {
	var total float64
	for _, e := range s.log {
		if e.Session <= s.session {
			total += s.model.Contribution(e.Gain, s.session-e.Session)
		}
	}
	return total
}

// TotalSkill returns base skill plus all retained gains at the current session.
func (s *Student) TotalSkill() float64 {
	return s.base + s.Retained()
}
