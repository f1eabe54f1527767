package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/cohortsim/internal/ratelimit"
	"github.com/nvandessel/cohortsim/internal/report"
	"github.com/nvandessel/cohortsim/internal/sanitize"
	"github.com/nvandessel/cohortsim/internal/simulation"
	"github.com/nvandessel/cohortsim/internal/store"
)

const (
	// maxSimulationWork caps trials x students x sessions for one tool call.
	maxSimulationWork = 20_000_000

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// registerTools registers all cohortsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "cohort_simulate",
		Description: "Simulate skill diffusion in a student cohort and return the averaged progression curve and skill histograms",
	}, s.handleCohortSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "cohort_history",
		Description: "List recent saved simulation runs, newest first",
	}, s.handleCohortHistory)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "cohort_run",
		Description: "Fetch one saved simulation run by ID, optionally rendered as a text or json report",
	}, s.handleCohortRun)
}

// apply overlays the set fields of the input onto base.
func (in CohortSimulateInput) apply(base simulation.Params) simulation.Params {
	p := base
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&p.NumTrials, in.NumTrials)
	setInt(&p.NumStudents, in.NumStudents)
	setInt(&p.NumSessions, in.NumSessions)
	setFloat(&p.DecayRate, in.DecayRate)
	setInt(&p.MaxTeachCount, in.MaxTeachCount)
	setFloat(&p.SelfStudyProb, in.SelfStudyProb)
	setInt(&p.SelfStudyMin, in.SelfStudyMin)
	setInt(&p.SelfStudyMax, in.SelfStudyMax)
	setInt(&p.ExpRatio, in.ExpRatio)
	setInt(&p.SemiRatio, in.SemiRatio)
	if in.Seed != nil {
		p.Seed = *in.Seed
	}
	return p
}

func (in CohortSimulateInput) auditParams() map[string]any {
	return map[string]any{
		"num_trials":      in.NumTrials,
		"num_students":    in.NumStudents,
		"num_sessions":    in.NumSessions,
		"decay_rate":      in.DecayRate,
		"max_teach_count": in.MaxTeachCount,
		"self_study_prob": in.SelfStudyProb,
		"self_study_min":  in.SelfStudyMin,
		"self_study_max":  in.SelfStudyMax,
		"exp_ratio":       in.ExpRatio,
		"semi_ratio":      in.SemiRatio,
		"seed":            in.Seed,
		"save":            in.Save,
		"label":           in.Label,
	}
}

// checkWork rejects runs too large to finish within a tool call. The product
// is built one factor at a time and checked before each multiply, so it never
// overflows.
func checkWork(p simulation.Params) error {
	work := int64(1)
	for _, n := range []int{p.NumTrials, p.NumStudents, p.NumSessions} {
		if n <= 0 {
			continue
		}
		if work > maxSimulationWork/int64(n) {
			return fmt.Errorf("simulation too large: %d trials x %d students x %d sessions exceeds %d",
				p.NumTrials, p.NumStudents, p.NumSessions, maxSimulationWork)
		}
		work *= int64(n)
	}
	return nil
}

// handleCohortSimulate implements the cohort_simulate tool.
func (s *Server) handleCohortSimulate(ctx context.Context, req *sdk.CallToolRequest, args CohortSimulateInput) (_ *sdk.CallToolResult, _ CohortSimulateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("cohort_simulate", start, retErr, sanitizeToolParams(args.auditParams()))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "cohort_simulate"); err != nil {
		return nil, CohortSimulateOutput{}, err
	}

	runner, err := simulation.NewRunner(args.apply(s.defaults),
		simulation.WithWorkers(s.workers),
		simulation.WithLogger(s.logger),
	)
	if err != nil {
		return nil, CohortSimulateOutput{}, err
	}
	if err := checkWork(runner.Params()); err != nil {
		return nil, CohortSimulateOutput{}, err
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return nil, CohortSimulateOutput{}, fmt.Errorf("simulation failed: %w", err)
	}

	out := CohortSimulateOutput{
		Seed:             res.Seed,
		Composition:      res.Composition,
		Progression:      res.Progression,
		Initial:          res.Initial,
		Final:            res.Final,
		MeanInteractions: res.MeanInteractions,
	}
	if n := len(res.Progression); n > 0 {
		out.FinalMean = res.Progression[n-1]
	}

	if args.Save {
		id, err := s.store.SaveRun(ctx, store.RunRecord{Label: sanitize.Label(args.Label), Result: *res})
		if err != nil {
			return nil, CohortSimulateOutput{}, fmt.Errorf("failed to save run: %w", err)
		}
		out.RunID = id
	}

	out.Message = fmt.Sprintf("Simulated %d students over %d sessions (%d trials, seed %d): average skill %.2f after the last session",
		res.Params.NumStudents, res.Params.NumSessions, res.Params.NumTrials, res.Seed, out.FinalMean)
	if out.RunID != "" {
		out.Message += fmt.Sprintf(", saved as %s", out.RunID)
	}

	return nil, out, nil
}

// handleCohortHistory implements the cohort_history tool.
func (s *Server) handleCohortHistory(ctx context.Context, req *sdk.CallToolRequest, args CohortHistoryInput) (_ *sdk.CallToolResult, _ CohortHistoryOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("cohort_history", start, retErr, sanitizeToolParams(map[string]any{
			"limit": args.Limit,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "cohort_history"); err != nil {
		return nil, CohortHistoryOutput{}, err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, CohortHistoryOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}

	return nil, CohortHistoryOutput{
		Runs:  runs,
		Count: len(runs),
	}, nil
}

// handleCohortRun implements the cohort_run tool.
func (s *Server) handleCohortRun(ctx context.Context, req *sdk.CallToolRequest, args CohortRunInput) (_ *sdk.CallToolResult, _ CohortRunOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("cohort_run", start, retErr, sanitizeToolParams(map[string]any{
			"id": args.ID, "format": args.Format,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "cohort_run"); err != nil {
		return nil, CohortRunOutput{}, err
	}

	if args.ID == "" {
		return nil, CohortRunOutput{}, fmt.Errorf("'id' parameter is required")
	}

	var format report.Format
	if args.Format != "" {
		f, err := report.ParseFormat(args.Format)
		if err != nil {
			return nil, CohortRunOutput{}, err
		}
		if f == report.FormatHTML {
			return nil, CohortRunOutput{}, fmt.Errorf("format %q is not available over MCP, use text or json", args.Format)
		}
		format = f
	}

	rec, err := s.store.GetRun(ctx, args.ID)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, CohortRunOutput{}, err
	}
	if err != nil {
		return nil, CohortRunOutput{}, fmt.Errorf("failed to load run: %w", err)
	}

	out := CohortRunOutput{Run: *rec}
	switch format {
	case report.FormatText:
		out.Report = report.RenderText(&rec.Result)
	case report.FormatJSON:
		data, err := report.RenderJSON(&rec.Result)
		if err != nil {
			return nil, CohortRunOutput{}, err
		}
		out.Report = string(data)
	}

	return nil, out, nil
}
