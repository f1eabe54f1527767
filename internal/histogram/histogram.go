// Package histogram counts values into fixed-width bins and averages the
// counts across trials.
package histogram

import (
	"fmt"
	"math"

	"github.com/nvandessel/cohortsim/internal/constants"
)

// Histogram holds fixed-width bins over [Min, Max].
//
// Bins are half-open [lo, lo+Width) except the last, which also includes Max.
// Values outside the range are dropped and counted in Outliers. Counts are
// float64 so averaged histograms keep fractional counts.
type Histogram struct {
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Width    float64   `json:"width"`
	Counts   []float64 `json:"counts"`
	Outliers float64   `json:"outliers"`
}

// New creates an empty histogram. The range must be a whole number of bins.
func New(lo, hi, width float64) (Histogram, error) {
	if width <= 0 || hi <= lo {
		return Histogram{}, fmt.Errorf("invalid histogram range [%v, %v] width %v", lo, hi, width)
	}
	n := (hi - lo) / width
	if n != math.Trunc(n) {
		return Histogram{}, fmt.Errorf("range [%v, %v] is not a multiple of width %v", lo, hi, width)
	}
	return Histogram{Min: lo, Max: hi, Width: width, Counts: make([]float64, int(n))}, nil
}

// NewSkill creates the skill-distribution layout: 20 bins of width 5 over [0, 100].
func NewSkill() Histogram {
	h, err := New(constants.HistogramMin, constants.HistogramMax, constants.HistogramBinWidth)
	if err != nil {
		panic(err)
	}
	return h
}

// Bin returns the bin index for v, or -1 when v falls outside the range.
func (h *Histogram) Bin(v float64) int {
	if math.IsNaN(v) || v < h.Min || v > h.Max {
		return -1
	}
	if v == h.Max {
		return len(h.Counts) - 1
	}
	return int((v - h.Min) / h.Width)
}

// Add counts a single value.
func (h *Histogram) Add(v float64) {
	if i := h.Bin(v); i >= 0 {
		h.Counts[i]++
		return
	}
	h.Outliers++
}

// AddAll counts every value in vs.
func (h *Histogram) AddAll(vs []float64) {
	for _, v := range vs {
		h.Add(v)
	}
}

// Merge adds other's counts into h. Both must share the same layout.
func (h *Histogram) Merge(other Histogram) error {
	if other.Min != h.Min || other.Max != h.Max || other.Width != h.Width || len(other.Counts) != len(h.Counts) {
		return fmt.Errorf("histogram layout mismatch: [%v,%v]/%v vs [%v,%v]/%v",
			h.Min, h.Max, h.Width, other.Min, other.Max, other.Width)
	}
	for i, c := range other.Counts {
		h.Counts[i] += c
	}
	h.Outliers += other.Outliers
	return nil
}

// Scale multiplies every count by f (use 1/n to average n merged histograms).
func (h *Histogram) Scale(f float64) {
	for i := range h.Counts {
		h.Counts[i] *= f
	}
	h.Outliers *= f
}

// Total returns the sum of all in-range counts.
func (h *Histogram) Total() float64 {
	var sum float64
	for _, c := range h.Counts {
		sum += c
	}
	return sum
}

// Edges returns the lower edge of each bin.
func (h *Histogram) Edges() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = h.Min + float64(i)*h.Width
	}
	return out
}

// Label returns a "lo-hi" label for bin i.
func (h *Histogram) Label(i int) string {
	lo := h.Min + float64(i)*h.Width
	return fmt.Sprintf("%g-%g", lo, lo+h.Width)
}

// Clone returns a deep copy.
func (h Histogram) Clone() Histogram {
	h.Counts = append([]float64(nil), h.Counts...)
	return h
}
