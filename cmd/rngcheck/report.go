package main

import (
	"fmt"
	"io"
	"math"

	"github.com/montanaflynn/stats"
)

// report holds sample statistics and the checks run against them.
type report struct {
	n      int
	mean   float64
	stdDev float64
	min    float64
	max    float64
	checks []check
}

type check struct {
	name   string
	detail string
	passed bool
}

func summarize(data []float64) (*report, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, fmt.Errorf("stddev: %w", err)
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	return &report{n: len(data), mean: mean, stdDev: stdDev, min: lo, max: hi}, nil
}

// expectMean checks the sample mean lies within boundK standard errors of
// want, for a distribution with standard deviation sigma.
func (r *report) expectMean(want, sigma float64) {
	bound := boundK * sigma / math.Sqrt(float64(r.n))
	r.checks = append(r.checks, check{
		name:   "mean",
		detail: fmt.Sprintf("|%.6g - %.6g| <= %.6g", r.mean, want, bound),
		passed: math.Abs(r.mean-want) <= bound,
	})
}

// expectRange checks every sample lies inside [lower, upper].
func (r *report) expectRange(lower, upper float64) {
	r.checks = append(r.checks, check{
		name:   "range",
		detail: fmt.Sprintf("[%.6g, %.6g] within [%.6g, %.6g]", r.min, r.max, lower, upper),
		passed: r.min >= lower && r.max <= upper,
	})
}

func (r *report) ok() bool {
	for _, c := range r.checks {
		if !c.passed {
			return false
		}
	}
	return true
}

func (r *report) print(w io.Writer) {
	fmt.Fprintf(w, "  n       %d\n", r.n)
	fmt.Fprintf(w, "  mean    %.6g\n", r.mean)
	fmt.Fprintf(w, "  stddev  %.6g\n", r.stdDev)
	fmt.Fprintf(w, "  min     %.6g\n", r.min)
	fmt.Fprintf(w, "  max     %.6g\n", r.max)
	for _, c := range r.checks {
		status := "ok"
		if !c.passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "  %-6s  %-4s  %s\n", c.name, status, c.detail)
	}
}
