package health

import (
	"math"
	"sort"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// TrendLength is the number of months kept in the rolling trend
const TrendLength = 12

// MonthlySummary aggregates a month's health scores across the ward
type MonthlySummary struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Avg    int `json:"avg"`
	Median int `json:"median"`
}

// Summarize returns the rounded mean and median of the scores. No scores gives zeros.
func Summarize(period roster.Period, scores map[string]Result) MonthlySummary {
	summary := MonthlySummary{Year: period.Year, Month: period.Month}
	if len(scores) == 0 {
		return summary
	}

	values := make([]int, 0, len(scores))
	total := 0
	for _, s := range scores {
		values = append(values, s.Score)
		total += s.Score
	}
	sort.Ints(values)

	summary.Avg = roundHalfUp(float64(total) / float64(len(values)))

	mid := len(values) / 2
	if len(values)%2 != 0 {
		summary.Median = values[mid]
	} else {
		summary.Median = roundHalfUp(float64(values[mid-1]+values[mid]) / 2)
	}

	return summary
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Trend is the chronological series of monthly summaries, at most TrendLength long
type Trend []MonthlySummary

// Upsert replaces or adds the summary's month and returns the most recent TrendLength months in order
func (t Trend) Upsert(summary MonthlySummary) Trend {
	out := make(Trend, 0, len(t)+1)
	replaced := false
	for _, s := range t {
		if s.Year == summary.Year && s.Month == summary.Month {
			out = append(out, summary)
			replaced = true
			continue
		}
		out = append(out, s)
	}
	if !replaced {
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	if len(out) > TrendLength {
		out = out[len(out)-TrendLength:]
	}
	return out
}
