// Package logging provides leveled logging and session tracing for cohortsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceLogger for per-session JSONL traces (.cohortsim/sessions.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

// LevelTrace is a custom slog level below Debug.
// At this level the session trace also records trial boundaries and gain totals.
const LevelTrace = slog.LevelDebug - 4

// TraceFile is the name of the session trace written under the data directory.
const TraceFile = "sessions.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a supported level. Empty means default.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "", "info", "debug", "trace":
		return true
	}
	return false
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// sessionRecord is one line of the session trace.
type sessionRecord struct {
	Time          string           `json:"time"`
	Event         string           `json:"event"`
	Phase         simulation.Phase `json:"phase"`
	Trial         int              `json:"trial"`
	Session       *int             `json:"session,omitempty"`
	MeanSkill     *float64         `json:"mean_skill,omitempty"`
	Interactions  *int             `json:"interactions,omitempty"`
	SelfStudied   *int             `json:"self_study,omitempty"`
	TutoringGain  *float64         `json:"tutoring_gain,omitempty"`
	SelfStudyGain *float64         `json:"self_study_gain,omitempty"`
}

// TraceLogger writes one JSONL line per completed session.
// It implements simulation.Observer and is safe for concurrent use.
// A nil TraceLogger is safe to use; all methods are no-ops on nil receiver.
type TraceLogger struct {
	mu    sync.Mutex
	file  *os.File
	trace bool
}

// NewTraceLogger creates a trace logger writing to dir/sessions.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened.
func NewTraceLogger(dir string, level string) *TraceLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, TraceFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &TraceLogger{file: f, trace: lvl <= LevelTrace}
}

// SessionCompleted implements simulation.Observer.
func (tl *TraceLogger) SessionCompleted(s simulation.SessionStats) {
	if tl == nil {
		return
	}
	rec := sessionRecord{
		Event:        "session",
		Phase:        s.Phase,
		Trial:        s.Trial,
		Session:      &s.Session,
		MeanSkill:    &s.MeanSkill,
		Interactions: &s.Interactions,
		SelfStudied:  &s.SelfStudied,
	}
	if tl.trace {
		rec.TutoringGain = &s.TutoringGain
		rec.SelfStudyGain = &s.SelfStudyGain
	}
	tl.write(rec)
}

// TrialCompleted implements simulation.Observer. Only recorded at trace level.
func (tl *TraceLogger) TrialCompleted(phase simulation.Phase, trial int) {
	if tl == nil || !tl.trace {
		return
	}
	tl.write(sessionRecord{Event: "trial", Phase: phase, Trial: trial})
}

func (tl *TraceLogger) write(rec sessionRecord) {
	rec.Time = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}
