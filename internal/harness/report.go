// ABOUTME: Aggregation of case results into a run report
// ABOUTME: Pass rate is a percentage rounded to two decimals

package harness

import (
	"fmt"
	"math"
)

// Report summarizes a run
type Report struct {
	TotalTests  int      `json:"total_tests"`
	PassedTests int      `json:"passed_tests"`
	PassRate    float64  `json:"pass_rate"`
	Details     []Result `json:"details"`
}

// Aggregate builds a report from ordered results
func Aggregate(results []Result) *Report {
	r := &Report{
		TotalTests: len(results),
		Details:    results,
	}
	for _, res := range results {
		if res.Passed {
			r.PassedTests++
		}
	}
	if r.TotalTests > 0 {
		rate := float64(r.PassedTests) / float64(r.TotalTests) * 100
		r.PassRate = math.Round(rate*100) / 100
	}
	return r
}

// Failures returns the failed results in run order
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Details {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// AllPassed reports whether every case passed. An empty run passes nothing.
func (r *Report) AllPassed() bool {
	return r.TotalTests > 0 && r.PassedTests == r.TotalTests
}

// FormattedPassRate renders the pass rate with two decimals
func (r *Report) FormattedPassRate() string {
	return fmt.Sprintf("%.2f", r.PassRate)
}
