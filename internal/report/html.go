package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/nvandessel/cohortsim/internal/simulation"
)

// Chart geometry in SVG user units.
const (
	chartWidth  = 720.0
	chartHeight = 320.0
	chartMargin = 48.0
)

type tick struct {
	Pos   float64
	Label string
}

type bar struct {
	X, Y, W, H float64
	Title      string
}

type lineChart struct {
	Points string
	XTicks []tick
	YTicks []tick
}

type barChart struct {
	Before []bar
	After  []bar
	XTicks []tick
	YTicks []tick
}

// htmlTemplateData holds data passed to the HTML template.
type htmlTemplateData struct {
	Result *simulation.Result
	Width  float64
	Height float64
	Margin float64
	Bottom float64
	Right  float64
	Line   lineChart
	Bars   barChart
}

// RenderHTML produces a self-contained HTML page with two inline SVG charts:
// average skill by lesson and the before/after skill distribution.
func RenderHTML(res *simulation.Result) ([]byte, error) {
	tmplBytes, err := templates.ReadFile("templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read HTML template: %w", err)
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"f1": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
		"f2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	}).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parse HTML template: %w", err)
	}

	data := htmlTemplateData{
		Result: res,
		Width:  chartWidth,
		Height: chartHeight,
		Margin: chartMargin,
		Bottom: chartHeight - chartMargin,
		Right:  chartWidth - chartMargin,
		Line:   progressionChart(res.Progression),
		Bars:   distributionChart(res),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

// niceRange widens [lo, hi] to multiples of step with a non-empty span.
func niceRange(lo, hi, step float64) (float64, float64) {
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if hi <= lo {
		hi = lo + step
	}
	return lo, hi
}

func scale(v, lo, hi, outLo, outHi float64) float64 {
	return outLo + (v-lo)/(hi-lo)*(outHi-outLo)
}

func yTicks(lo, hi float64, n int) []tick {
	ticks := make([]tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := lo + float64(i)*(hi-lo)/float64(n)
		ticks = append(ticks, tick{
			Pos:   scale(v, lo, hi, chartHeight-chartMargin, chartMargin),
			Label: strconv.FormatFloat(v, 'g', 4, 64),
		})
	}
	return ticks
}

func progressionChart(prog []float64) lineChart {
	var c lineChart
	if len(prog) == 0 {
		return c
	}

	lo, hi := prog[0], prog[0]
	for _, v := range prog {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = niceRange(lo, hi, 5)

	x := func(i int) float64 {
		if len(prog) == 1 {
			return chartWidth / 2
		}
		return scale(float64(i), 0, float64(len(prog)-1), chartMargin, chartWidth-chartMargin)
	}

	pts := make([]string, len(prog))
	for i, v := range prog {
		pts[i] = fmt.Sprintf("%.1f,%.1f", x(i), scale(v, lo, hi, chartHeight-chartMargin, chartMargin))
	}
	c.Points = strings.Join(pts, " ")

	step := max(1, len(prog)/10)
	for i := 0; i < len(prog); i += step {
		c.XTicks = append(c.XTicks, tick{Pos: x(i), Label: strconv.Itoa(i + 1)})
	}
	c.YTicks = yTicks(lo, hi, 5)
	return c
}

func distributionChart(res *simulation.Result) barChart {
	var c barChart
	n := len(res.Initial.Counts)
	if n == 0 {
		return c
	}

	top := 0.0
	for i := range n {
		top = math.Max(top, math.Max(res.Initial.Counts[i], res.Final.Counts[i]))
	}
	_, top = niceRange(0, top, 1)

	slot := (chartWidth - 2*chartMargin) / float64(n)
	mk := func(i int, v float64, label string) bar {
		y := scale(v, 0, top, chartHeight-chartMargin, chartMargin)
		return bar{
			X:     chartMargin + float64(i)*slot + 1,
			Y:     y,
			W:     slot - 2,
			H:     chartHeight - chartMargin - y,
			Title: fmt.Sprintf("%s %s: %.2f", res.Initial.Label(i), label, v),
		}
	}
	for i := range n {
		c.Before = append(c.Before, mk(i, res.Initial.Counts[i], "before"))
		c.After = append(c.After, mk(i, res.Final.Counts[i], "after"))
	}

	edges := res.Initial.Edges()
	for i := 0; i <= n; i += 2 {
		label := strconv.FormatFloat(res.Initial.Max, 'g', -1, 64)
		if i < n {
			label = strconv.FormatFloat(edges[i], 'g', -1, 64)
		}
		c.XTicks = append(c.XTicks, tick{Pos: chartMargin + float64(i)*slot, Label: label})
	}
	c.YTicks = yTicks(0, top, 4)
	return c
}
