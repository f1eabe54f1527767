package simulation

// Phase identifies which trial set a session belongs to.
type Phase string

const (
	// PhaseProgression is the trial set that produces the skill trajectory.
	PhaseProgression Phase = "progression"

	// PhaseDistribution is the separately seeded trial set that produces
	// the before/after histograms.
	PhaseDistribution Phase = "distribution"
)

// SessionStats describes one completed session.
type SessionStats struct {
	Phase         Phase   `json:"phase"`
	Trial         int     `json:"trial"`
	Session       int     `json:"session"`
	MeanSkill     float64 `json:"mean_skill"`
	Interactions  int     `json:"interactions"`
	SelfStudied   int     `json:"self_studied"`
	TutoringGain  float64 `json:"tutoring_gain"`
	SelfStudyGain float64 `json:"self_study_gain"`
}

// Observer receives progress callbacks from a run. Trials run concurrently,
// so implementations must be safe for concurrent use.
type Observer interface {
	SessionCompleted(SessionStats)
	TrialCompleted(phase Phase, trial int)
}

// MultiObserver fans callbacks out to every non-nil observer in order.
type MultiObserver []Observer

// SessionCompleted implements Observer.
func (m MultiObserver) SessionCompleted(s SessionStats) {
	for _, o := range m {
		if o != nil {
			o.SessionCompleted(s)
		}
	}
}

// TrialCompleted implements Observer.
func (m MultiObserver) TrialCompleted(phase Phase, trial int) {
	for _, o := range m {
		if o != nil {
			o.TrialCompleted(phase, trial)
		}
	}
}

type nopObserver struct{}

func (nopObserver) SessionCompleted(SessionStats) {}
func (nopObserver) TrialCompleted(Phase, int) {}
