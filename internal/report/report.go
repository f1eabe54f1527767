// Package report renders simulation results in various output formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

// Format specifies the output format for a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: text, json, html)", s)
	}
}

// Render writes res to w in the given format.
func Render(w io.Writer, res *simulation.Result, format Format) error {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatText, "":
		out = []byte(RenderText(res))
	case FormatJSON:
		out, err = RenderJSON(res)
	case FormatHTML:
		out, err = RenderHTML(res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RenderJSON produces indented JSON for a result.
func RenderJSON(res *simulation.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

// barWidth is the widest progression bar in the text report.
const barWidth = 40

// RenderText produces a plain-text report: run header, per-session average
// skill with bars, and the before/after distribution side by side.
func RenderText(res *simulation.Result) string {
	var b strings.Builder
	p := res.Params

	b.WriteString("Cohort skill simulation\n")
	fmt.Fprintf(&b, "  trials %d  students %d  sessions %d  seed %d\n",
		p.NumTrials, p.NumStudents, p.NumSessions, res.Seed)
	fmt.Fprintf(&b, "  decay %.3g  max teach %d  self-study p=%.2f gain %d-%d\n",
		p.DecayRate, p.MaxTeachCount, p.SelfStudyProb, p.SelfStudyMin, p.SelfStudyMax)
	fmt.Fprintf(&b, "  composition: %d experienced, %d semi-experienced, %d beginner\n",
		res.Composition.Experienced, res.Composition.SemiExperienced, res.Composition.Beginner)
	fmt.Fprintf(&b, "  mean interactions per trial: %.1f\n\n", res.MeanInteractions)

	b.WriteString("Average skill level by lesson\n")
	top := 0.0
	for _, v := range res.Progression {
		top = math.Max(top, v)
	}
	for i, v := range res.Progression {
		n := 0
		if top > 0 {
			n = int(math.Round(v / top * barWidth))
		}
		fmt.Fprintf(&b, "  %4d  %7.2f  %s\n", i+1, v, strings.Repeat("#", n))
	}

	b.WriteString("\nSkill distribution (mean students per bin)\n")
	fmt.Fprintf(&b, "  %-8s  %7s  %7s\n", "skill", "before", "after")
	for i := range res.Initial.Counts {
		fmt.Fprintf(&b, "  %-8s  %7.2f  %7.2f\n", res.Initial.Label(i), res.Initial.Counts[i], res.Final.Counts[i])
	}
	if res.Initial.Outliers > 0 || res.Final.Outliers > 0 {
		fmt.Fprintf(&b, "  %-8s  %7.2f  %7.2f\n", "outside", res.Initial.Outliers, res.Final.Outliers)
	}

	return b.String()
}
