package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nvandessel/cohortsim/internal/cohort"
	"github.com/nvandessel/cohortsim/internal/histogram"
	"github.com/nvandessel/cohortsim/internal/simulation"
)

func sampleResult() *simulation.Result {
	p := simulation.DefaultParams()
	p.NumSessions = 4
	p.Seed = 42

	initial := histogram.NewSkill()
	initial.AddAll([]float64{3, 7, 8, 12, 61, 63})
	final := histogram.NewSkill()
	final.AddAll([]float64{9, 14, 16, 22, 61, 63})
	final.Add(104)

	return &simulation.Result{
		Params:           p,
		Seed:             42,
		Progression:      []float64{20, 22.5, 24, 25.25},
		Initial:          initial,
		Final:            final,
		Composition:      cohort.Composition{Experienced: 3, SemiExperienced: 3, Beginner: 25},
		MeanInteractions: 88,
		Elapsed:          time.Second,
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "html"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("dot"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleResult())

	for _, want := range []string{
		"trials 10  students 31  sessions 4  seed 42",
		"3 experienced, 3 semi-experienced, 25 beginner",
		"Average skill level by lesson",
		"     4    25.25  " + strings.Repeat("#", barWidth),
		"5-10",
		"95-100",
		"outside",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}

	// First bar is scaled against the peak session.
	if !strings.Contains(out, "     1    20.00  "+strings.Repeat("#", 32)+"\n") {
		t.Errorf("expected 32-wide first bar:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleResult())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["seed"] != 42.0 {
		t.Errorf("seed = %v, want 42", decoded["seed"])
	}
	prog, ok := decoded["progression"].([]any)
	if !ok || len(prog) != 4 {
		t.Errorf("progression = %v, want 4 values", decoded["progression"])
	}
}

func TestRenderHTML(t *testing.T) {
	data, err := RenderHTML(sampleResult())
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Average skill level",
		"Before/After",
		"<polyline",
		`class="before"`,
		`class="after"`,
		"25 beginner",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}

	// One before and one after bar per bin, plus a legend swatch each.
	if got := strings.Count(html, `<rect class="before"`); got != 21 {
		t.Errorf("before rects = %d, want 21", got)
	}
}

func TestProgressionChart_Geometry(t *testing.T) {
	c := progressionChart([]float64{20, 30})

	pts := strings.Fields(c.Points)
	if len(pts) != 2 {
		t.Fatalf("points = %q, want 2", c.Points)
	}
	// 20 sits on the bottom axis and 30 on the top of the [20, 30] range.
	if pts[0] != "48.0,272.0" || pts[1] != "672.0,48.0" {
		t.Errorf("points = %q", c.Points)
	}

	single := progressionChart([]float64{12})
	// A flat curve is centred and scaled into the surrounding [10, 15] band.
	if single.Points != "360.0,182.4" {
		t.Errorf("single point = %q", single.Points)
	}
}

func TestRender_Dispatch(t *testing.T) {
	res := sampleResult()
	for _, f := range []Format{FormatText, FormatJSON, FormatHTML} {
		var buf bytes.Buffer
		if err := Render(&buf, res, f); err != nil {
			t.Errorf("Render(%s) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Render(%s) wrote nothing", f)
		}
	}
	if err := Render(&bytes.Buffer{}, res, Format("svg")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFileURL(t *testing.T) {
	u, err := FileURL("report.html")
	if err != nil {
		t.Fatalf("FileURL() error = %v", err)
	}
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/report.html") {
		t.Errorf("FileURL() = %q", u)
	}
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open"},
		{"darwin", "open"},
		{"windows", "cmd"},
	}
	for _, tt := range tests {
		cmd, err := openCommand(tt.goos, "file:///tmp/r.html")
		if err != nil {
			t.Fatalf("openCommand(%s) error = %v", tt.goos, err)
		}
		if got := cmd.Args[0]; got != tt.want {
			t.Errorf("openCommand(%s) = %s, want %s", tt.goos, got, tt.want)
		}
		if last := cmd.Args[len(cmd.Args)-1]; last != "file:///tmp/r.html" {
			t.Errorf("openCommand(%s) target = %s", tt.goos, last)
		}
	}

	if _, err := openCommand("plan9", "x"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
