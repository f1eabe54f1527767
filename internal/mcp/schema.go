// Package mcp provides an MCP (Model Context Protocol) server for cohortsim.
package mcp

import (
	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/histogram"
	"github.com/nvandessel/cohortsim/internal/store"
)

// CohortSimulateInput defines the input for cohort_simulate tool.
// Unset fields fall back to the server's default parameters.
type CohortSimulateInput struct {
	NumTrials     *int     `json:"num_trials,omitempty" jsonschema:"Number of independent trials to average"`
	NumStudents   *int     `json:"num_students,omitempty" jsonschema:"Number of students in the cohort"`
	NumSessions   *int     `json:"num_sessions,omitempty" jsonschema:"Number of teaching sessions per trial"`
	DecayRate     *float64 `json:"decay_rate,omitempty" jsonschema:"Forgetting rate applied per session, must be positive"`
	MaxTeachCount *int     `json:"max_teach_count,omitempty" jsonschema:"Maximum tutoring acts per student per session"`
	SelfStudyProb *float64 `json:"self_study_prob,omitempty" jsonschema:"Probability in [0,1] that a student studies alone"`
	SelfStudyMin  *int     `json:"self_study_min,omitempty" jsonschema:"Minimum self-study gain"`
	SelfStudyMax  *int     `json:"self_study_max,omitempty" jsonschema:"Maximum self-study gain"`
	ExpRatio      *int     `json:"exp_ratio,omitempty" jsonschema:"Percentage of experienced students"`
	SemiRatio     *int     `json:"semi_ratio,omitempty" jsonschema:"Percentage of semi-experienced students"`
	Seed          *uint64  `json:"seed,omitempty" jsonschema:"Random seed for a reproducible run (0 or unset picks one)"`
	Save          bool     `json:"save,omitempty" jsonschema:"Store the result in run history"`
	Label         string   `json:"label,omitempty" jsonschema:"Optional label for the stored run"`
}

// CohortSimulateOutput defines the output for cohort_simulate tool.
type CohortSimulateOutput struct {
	RunID            string              `json:"run_id,omitempty" jsonschema:"History ID when the run was saved"`
	Seed             uint64              `json:"seed" jsonschema:"Seed that reproduces this run"`
	Composition      cohort.Composition  `json:"composition" jsonschema:"Students per tier"`
	Progression      []float64           `json:"progression" jsonschema:"Average total skill after each session"`
	Initial          histogram.Histogram `json:"initial" jsonschema:"Averaged skill distribution before the first session"`
	Final            histogram.Histogram `json:"final" jsonschema:"Averaged skill distribution after the last session"`
	FinalMean        float64             `json:"final_mean" jsonschema:"Average skill after the last session"`
	MeanInteractions float64             `json:"mean_interactions" jsonschema:"Average tutoring acts per trial"`
	Message          string              `json:"message" jsonschema:"Human-readable summary"`
}

// CohortHistoryInput defines the input for cohort_history tool.
type CohortHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs to return (default 20)"`
}

// CohortHistoryOutput defines the output for cohort_history tool.
type CohortHistoryOutput struct {
	Runs  []store.RunSummary `json:"runs" jsonschema:"Stored runs, newest first"`
	Count int                `json:"count" jsonschema:"Number of runs returned"`
}

// CohortRunInput defines the input for cohort_run tool.
type CohortRunInput struct {
	ID     string `json:"id" jsonschema:"ID of the stored run"`
	Format string `json:"format,omitempty" jsonschema:"Also render the run as text or json"`
}

// CohortRunOutput defines the output for cohort_run tool.
type CohortRunOutput struct {
	Run    store.RunRecord `json:"run" jsonschema:"The stored run"`
	Report string          `json:"report,omitempty" jsonschema:"Rendered report when a format was requested"`
}
