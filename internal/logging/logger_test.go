package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase INFO", "INFO", slog.LevelInfo},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"mixed case Debug", "Debug", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"info level", "info"},
		{"debug level", "debug"},
		{"trace level", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)
			if logger == nil {
				t.Fatal("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
		logAtInfo  bool
	}{
		{"info filters debug", "info", false, true},
		{"debug passes debug", "debug", true, true},
		{"trace passes debug", "trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			hasDebug := strings.Contains(buf.String(), "debug message")
			if hasDebug != tt.logAtDebug {
				t.Errorf("debug message visible = %v, want %v (buf: %q)", hasDebug, tt.logAtDebug, buf.String())
			}

			buf.Reset()
			logger.Info("info message")
			hasInfo := strings.Contains(buf.String(), "info message")
			if hasInfo != tt.logAtInfo {
				t.Errorf("info message visible = %v, want %v (buf: %q)", hasInfo, tt.logAtInfo, buf.String())
			}
		})
	}
}

func TestLevelTrace(t *testing.T) {
	// Trace should be below debug (more verbose)
	if LevelTrace >= slog.LevelDebug {
		t.Errorf("LevelTrace (%d) should be less than LevelDebug (%d)", LevelTrace, slog.LevelDebug)
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"", "info", "DEBUG", "trace"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"warn", "verbose"} {
		if ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = true, want false", s)
		}
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(t.Context(), LevelTrace, "very verbose")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}

func readTrace(t *testing.T, dir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, TraceFile))
	if err != nil {
		t.Fatalf("failed to read %s: %v", TraceFile, err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse JSONL entry %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func sampleStats() simulation.SessionStats {
	return simulation.SessionStats{
		Phase:         simulation.PhaseProgression,
		Trial:         2,
		Session:       5,
		MeanSkill:     31.25,
		Interactions:  14,
		SelfStudied:   9,
		TutoringGain:  20.5,
		SelfStudyGain: 12,
	}
}

func TestNewTraceLogger_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "info")

	// At info level, trace logger should be nil
	if tl != nil {
		t.Error("expected nil TraceLogger at info level")
	}

	// Nil logger should still be safe to use
	tl.SessionCompleted(sampleStats())

	if _, err := os.Stat(filepath.Join(dir, TraceFile)); err == nil {
		t.Errorf("%s should not exist at info level", TraceFile)
	}
}

func TestNewTraceLogger_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	defer tl.Close()

	tl.SessionCompleted(sampleStats())
	tl.TrialCompleted(simulation.PhaseProgression, 2)

	entries := readTrace(t, dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry at debug level, got %d", len(entries))
	}

	entry := entries[0]
	if entry["event"] != "session" {
		t.Errorf("event = %v, want session", entry["event"])
	}
	if entry["phase"] != "progression" {
		t.Errorf("phase = %v, want progression", entry["phase"])
	}
	if entry["session"] != 5.0 {
		t.Errorf("session = %v, want 5", entry["session"])
	}
	if entry["mean_skill"] != 31.25 {
		t.Errorf("mean_skill = %v, want 31.25", entry["mean_skill"])
	}
	if entry["self_study"] != 9.0 {
		t.Errorf("self_study = %v, want 9", entry["self_study"])
	}
	if _, ok := entry["tutoring_gain"]; ok {
		t.Error("gain totals should only be traced at trace level")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected 'time' field in trace entry")
	}
}

func TestNewTraceLogger_TraceLevel(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "trace")
	defer tl.Close()

	tl.SessionCompleted(sampleStats())
	tl.TrialCompleted(simulation.PhaseDistribution, 4)

	entries := readTrace(t, dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at trace level, got %d", len(entries))
	}
	if entries[0]["tutoring_gain"] != 20.5 {
		t.Errorf("tutoring_gain = %v, want 20.5", entries[0]["tutoring_gain"])
	}
	if entries[1]["event"] != "trial" || entries[1]["phase"] != "distribution" {
		t.Errorf("unexpected trial entry: %v", entries[1])
	}
	if _, ok := entries[1]["session"]; ok {
		t.Error("trial entries should not carry a session")
	}
}

func TestTraceLogger_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	defer tl.Close()

	var wg sync.WaitGroup
	for trial := range 8 {
		wg.Go(func() {
			for session := range 10 {
				s := sampleStats()
				s.Trial, s.Session = trial, session
				tl.SessionCompleted(s)
			}
		})
	}
	wg.Wait()

	if got := len(readTrace(t, dir)); got != 80 {
		t.Errorf("expected 80 entries, got %d", got)
	}
}

func TestTraceLogger_NilSafety(t *testing.T) {
	// nil TraceLogger should not panic
	var tl *TraceLogger
	tl.SessionCompleted(sampleStats())
	tl.TrialCompleted(simulation.PhaseProgression, 0)
	tl.Close()
}

func TestTraceLogger_ImplementsObserver(t *testing.T) {
	var _ simulation.Observer = (*TraceLogger)(nil)
}

func TestTraceLogger_WriteAfterClose(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")

	tl.SessionCompleted(sampleStats())
	tl.Close()

	// Should be a no-op, not panic or error
	tl.SessionCompleted(sampleStats())

	if got := len(readTrace(t, dir)); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
}

func TestNewTraceLogger_CreatesDir(t *testing.T) {
	base := t.TempDir()
	nestedDir := filepath.Join(base, "sub", "dir")

	tl := NewTraceLogger(nestedDir, "debug")
	if tl == nil {
		t.Fatal("expected non-nil TraceLogger when dir needs creation")
	}
	defer tl.Close()

	tl.SessionCompleted(sampleStats())

	if _, err := os.Stat(filepath.Join(nestedDir, TraceFile)); err != nil {
		t.Fatalf("%s should exist after dir creation: %v", TraceFile, err)
	}
}

func TestTraceLogger_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	defer tl.Close()

	tl.SessionCompleted(sampleStats())

	info, err := os.Stat(filepath.Join(dir, TraceFile))
	if err != nil {
		t.Fatalf("failed to stat %s: %v", TraceFile, err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}
