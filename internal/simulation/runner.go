package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/histogram"
)

// Result is the outcome of a full run.
type Result struct {
	Params Params `json:"params"`

	// Seed is the seed actually used, so clock-seeded runs can be replayed.
	Seed uint64 `json:"seed"`

	// Progression is the mean total skill after each session, averaged over trials.
	Progression []float64 `json:"progression"`

	// Initial and Final are the averaged per-bin student counts of base skill
	// and post-simulation total skill.
	Initial histogram.Histogram `json:"initial"`
	Final   histogram.Histogram `json:"final"`

	Composition cohort.Composition `json:"composition"`

	// MeanInteractions is the average number of tutoring turns per trial.
	MeanInteractions float64 `json:"mean_interactions"`

	Elapsed time.Duration `json:"elapsed"`
}

// Runner executes trials for a validated parameter set.
// Trials are independent and run concurrently; each has its own population
// and random stream derived from the seed and its index, so results do not
// depend on the number of workers.
type Runner struct {
	params   Params
	seed     uint64
	workers  int
	logger   *slog.Logger
	observer Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of trials run at once. Values below 1 mean
// one worker per available CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver registers an observer for session and trial callbacks.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewRunner validates p and creates a runner for it.
func NewRunner(p Params, opts ...Option) (*Runner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		params:   p,
		seed:     p.Seed,
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.seed == 0 {
		r.seed = uint64(time.Now().UnixNano())
	}
	return r, nil
}

// Seed returns the seed the runner draws every trial stream from.
func (r *Runner) Seed() uint64 { return r.seed }

// Params returns the run parameters.
func (r *Runner) Params() Params { return r.params }

// trialRNG returns the random stream for one trial of a phase.
func (r *Runner) trialRNG(phase Phase, trial int) *rand.Rand {
	var set uint64
	if phase == PhaseDistribution {
		set = 1
	}
	return rand.New(rand.NewPCG(r.seed, set<<32|uint64(trial)))
}

// runTrials runs every trial of a phase and returns results indexed by trial.
func (r *Runner) runTrials(ctx context.Context, phase Phase) ([]TrialResult, error) {
	results := make([]TrialResult, r.params.NumTrials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range r.params.NumTrials {
		g.Go(func() error {
			rng := r.trialRNG(phase, i)
			pop := NewTrialPopulation(rng, r.params)

			r.logger.Debug("trial started", "phase", phase, "trial", i)
			res, err := RunTrial(gctx, pop, rng, r.params, Trial{
				Phase:    phase,
				Index:    i,
				Observer: r.observer,
			})
			if err != nil {
				return fmt.Errorf("%s trial %d: %w", phase, i, err)
			}
			r.logger.Debug("trial finished", "phase", phase, "trial", i,
				"final_mean", res.Progression[len(res.Progression)-1],
				"interactions", res.Interactions)

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Progression runs the trajectory trial set and returns the mean total skill
// after each session, averaged over trials.
func (r *Runner) Progression(ctx context.Context) ([]float64, error) {
	results, err := r.runTrials(ctx, PhaseProgression)
	if err != nil {
		return nil, err
	}
	return averageProgression(results, r.params.NumSessions), nil
}

// Distribution runs a separately seeded trial set and returns the averaged
// histograms of initial base skill and final total skill.
func (r *Runner) Distribution(ctx context.Context) (initial, final histogram.Histogram, err error) {
	results, err := r.runTrials(ctx, PhaseDistribution)
	if err != nil {
		return histogram.Histogram{}, histogram.Histogram{}, err
	}
	initial, final = averageHistograms(results)
	return initial, final, nil
}

// Run executes both trial sets and assembles the full result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	r.logger.Info("simulation started",
		"trials", r.params.NumTrials,
		"students", r.params.NumStudents,
		"sessions", r.params.NumSessions,
		"workers", r.workers,
		"seed", r.seed)

	progress, err := r.runTrials(ctx, PhaseProgression)
	if err != nil {
		return nil, err
	}
	dist, err := r.runTrials(ctx, PhaseDistribution)
	if err != nil {
		return nil, err
	}

	initial, final := averageHistograms(dist)
	res := &Result{
		Params:           r.params,
		Seed:             r.seed,
		Progression:      averageProgression(progress, r.params.NumSessions),
		Initial:          initial,
		Final:            final,
		Composition:      progress[0].Composition,
		MeanInteractions: meanInteractions(progress),
		Elapsed:          time.Since(start),
	}
	res.Params.Seed = r.seed

	r.logger.Info("simulation finished",
		"final_mean", res.Progression[len(res.Progression)-1],
		"elapsed", res.Elapsed)
	return res, nil
}

// averageProgression sums per-session means in trial order and divides by
// the trial count.
func averageProgression(results []TrialResult, sessions int) []float64 {
	sum := make([]float64, sessions)
	for _, res := range results {
		for i, v := range res.Progression {
			sum[i] += v
		}
	}
	n := float64(len(results))
	for i := range sum {
		sum[i] /= n
	}
	return sum
}

// averageHistograms bins each trial's initial and final skills and averages
// the counts elementwise.
func averageHistograms(results []TrialResult) (initial, final histogram.Histogram) {
	initial = histogram.NewSkill()
	final = histogram.NewSkill()
	for _, res := range results {
		initial.AddAll(res.Initial)
		final.AddAll(res.Final)
	}
	n := float64(len(results))
	initial.Scale(1 / n)
	final.Scale(1 / n)
	return initial, final
}

func meanInteractions(results []TrialResult) float64 {
	var total int
	for _, res := range results {
		total += res.Interactions
	}
	return float64(total) / float64(len(results))
}
