package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/cohortsim/internal/config"
	"github.com/nvandessel/cohortsim/internal/logging"
	"github.com/nvandessel/cohortsim/internal/metrics"
	"github.com/nvandessel/cohortsim/internal/report"
	"github.com/nvandessel/cohortsim/internal/sanitize"
	"github.com/nvandessel/cohortsim/internal/simulation"
	"github.com/nvandessel/cohortsim/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print the report",
		Long: `Run averages independent trials of the cohort model and prints the mean
skill after each lesson and the skill distribution before and after.

Parameters come from the config file and COHORTSIM_* environment variables;
flags override both.

Examples:
  cohortsim run                                  # Classroom defaults
  cohortsim run --students 60 --sessions 40      # Bigger class, longer course
  cohortsim run --seed 42 --json                 # Reproducible JSON output
  cohortsim run --format html --out report.html --open
  cohortsim run --save --label baseline          # Keep the run in history`,
		RunE: runSimulation,
	}

	defaults := simulation.DefaultParams()
	cmd.Flags().Int("trials", defaults.NumTrials, "Number of trials to average")
	cmd.Flags().Int("students", defaults.NumStudents, "Number of students in the cohort")
	cmd.Flags().Int("sessions", defaults.NumSessions, "Number of teaching sessions")
	cmd.Flags().Float64("decay-rate", defaults.DecayRate, "Forgetting rate per session")
	cmd.Flags().Int("max-teach", defaults.MaxTeachCount, "Maximum tutoring acts per student per session")
	cmd.Flags().Float64("self-study-prob", defaults.SelfStudyProb, "Probability of self-study each session")
	cmd.Flags().Int("self-study-min", defaults.SelfStudyMin, "Minimum self-study gain")
	cmd.Flags().Int("self-study-max", defaults.SelfStudyMax, "Maximum self-study gain")
	cmd.Flags().Int("exp-ratio", defaults.ExpRatio, "Percentage of experienced students")
	cmd.Flags().Int("semi-ratio", defaults.SemiRatio, "Percentage of semi-experienced students")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one from the clock)")

	cmd.Flags().Int("workers", 0, "Concurrent trials (0 = one per CPU)")
	cmd.Flags().String("format", "text", "Report format: text, json, or html")
	cmd.Flags().String("out", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("open", false, "Open an HTML report in the browser (requires --out)")
	cmd.Flags().Bool("save", false, "Save the run to history")
	cmd.Flags().String("label", "", "Label for the saved run")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics in textfile format")

	return cmd
}

// applyRunFlags overrides configuration with explicitly set flags.
func applyRunFlags(cmd *cobra.Command, cfg *config.CohortConfig) {
	flags := cmd.Flags()
	p := &cfg.Simulation
	ints := map[string]*int{
		"trials":         &p.NumTrials,
		"students":       &p.NumStudents,
		"sessions":       &p.NumSessions,
		"max-teach":      &p.MaxTeachCount,
		"self-study-min": &p.SelfStudyMin,
		"self-study-max": &p.SelfStudyMax,
		"exp-ratio":      &p.ExpRatio,
		"semi-ratio":     &p.SemiRatio,
		"workers":        &cfg.Runner.Workers,
	}
	for name, dst := range ints {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	floats := map[string]*float64{
		"decay-rate":      &p.DecayRate,
		"self-study-prob": &p.SelfStudyProb,
	}
	for name, dst := range floats {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}

	if flags.Changed("seed") {
		p.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("save") {
		cfg.History.Enabled, _ = flags.GetBool("save")
	}
}

// reportFormat picks the output format; --json wins unless --format is given.
func reportFormat(cmd *cobra.Command) (report.Format, error) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut && !cmd.Flags().Changed("format") {
		return report.FormatJSON, nil
	}
	name, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(name)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")
	openReport, _ := cmd.Flags().GetBool("open")
	if openReport && (format != report.FormatHTML || outPath == "") {
		return fmt.Errorf("--open requires --format html and --out")
	}
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	logger := newLogger(cmd, cfg)
	dir, err := dataDir(cmd, cfg)
	if err != nil {
		return err
	}

	var observers simulation.MultiObserver
	if trace := logging.NewTraceLogger(dir, cfg.Logging.Level); trace != nil {
		defer trace.Close()
		observers = append(observers, trace)
		logger.Debug("session trace enabled", "path", dir)
	}
	var recorder *metrics.Recorder
	if metricsFile != "" {
		recorder = metrics.NewRecorder()
		observers = append(observers, recorder)
	}

	runner, err := simulation.NewRunner(cfg.Simulation,
		simulation.WithWorkers(cfg.Runner.Workers),
		simulation.WithLogger(logger),
		simulation.WithObserver(observers),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	res, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if cfg.History.Enabled {
		label, _ := cmd.Flags().GetString("label")
		id, err := saveRun(ctx, dir, store.RunRecord{Label: sanitize.Label(label), Result: *res})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", id)
	}

	if outPath == "" {
		return report.Render(cmd.OutOrStdout(), res, format)
	}
	if err := writeReport(outPath, res, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outPath)

	if openReport {
		if err := report.OpenInBrowser(outPath); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

// writeReport writes the rendered report to path. Nothing is written if
// rendering fails.
func writeReport(path string, res *simulation.Result, format report.Format) error {
	var buf bytes.Buffer
	if err := report.Render(&buf, res, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
