package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// July 2024 starts on a Monday; Saturdays are 6, 13, 20, 27
var july2024 = roster.Period{Year: 2024, Month: 7}

const (
	D = roster.ShiftDay
	E = roster.ShiftEvening
	N = roster.ShiftNight
	O = roster.ShiftOff
)

func month(set map[int]roster.ShiftCode) []roster.ShiftCode {
	codes := make([]roster.ShiftCode, july2024.DaysInMonth())
	for i := range codes {
		codes[i] = O
	}
	for day, code := range set {
		codes[day-1] = code
	}
	return codes
}

func repeat(pattern []roster.ShiftCode, days int) []roster.ShiftCode {
	codes := make([]roster.ShiftCode, 0, days)
	for len(codes) < days {
		codes = append(codes, pattern[len(codes)%len(pattern)])
	}
	return codes
}

func TestScore_PerfectPattern(t *testing.T) {
	codes := repeat([]roster.ShiftCode{D, D, D, D, D, O, O}, 31)

	result := Score(codes, july2024, DefaultOptions())

	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Deductions)
}

func TestScore_ChaoticRotation(t *testing.T) {
	codes := repeat([]roster.ShiftCode{D, E, N}, 31)

	result := Score(codes, july2024, Options{})

	assert.Contains(t, result.Deductions, "[-15] mixed/chaotic rotation")
}

func TestScore_ChaoticWindowPenalisedOnce(t *testing.T) {
	codes := month(map[int]roster.ShiftCode{1: D, 2: E, 3: N})

	result := Score(codes, july2024, Options{})

	count := 0
	for _, d := range result.Deductions {
		if d == "[-15] mixed/chaotic rotation" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestScore_Deductions(t *testing.T) {
	tests := []struct {
		name       string
		codes      []roster.ShiftCode
		wantScore  int
		deductions []string
	}{
		{
			name:       "evening then day",
			codes:      month(map[int]roster.ShiftCode{1: E, 2: D}),
			wantScore:  70,
			deductions: []string{"[-20] short rest interval", "[-10] rotation reversed E->D"},
		},
		{
			name:       "night then evening across days off",
			codes:      month(map[int]roster.ShiftCode{1: N, 4: E}),
			wantScore:  90,
			deductions: []string{"[-10] rotation reversed N->E"},
		},
		{
			name:       "isolated day off after night",
			codes:      month(map[int]roster.ShiftCode{1: N, 3: D}),
			wantScore:  80,
			deductions: []string{"[-5] isolated day off", "[-15] no recovery rest after night"},
		},
		{
			name:       "four nights in a row",
			codes:      month(map[int]roster.ShiftCode{1: N, 2: N, 3: N, 4: N}),
			wantScore:  95,
			deductions: []string{"[-5] night run too long"},
		},
		{
			name:       "six working days",
			codes:      month(map[int]roster.ShiftCode{1: D, 2: D, 3: D, 4: D, 5: D, 6: D}),
			wantScore:  95,
			deductions: []string{"[-5] six-day fatigue"},
		},
		{
			name:       "run at month end",
			codes:      month(map[int]roster.ShiftCode{26: D, 27: D, 28: D, 29: D, 30: D, 31: D}),
			wantScore:  95,
			deductions: []string{"[-5] six-day fatigue"},
		},
		{
			name:       "every saturday worked",
			codes:      month(map[int]roster.ShiftCode{6: D, 13: D, 20: D, 27: D}),
			wantScore:  95,
			deductions: []string{"[-5] no full weekend off"},
		},
		{
			name:       "leave counts as off",
			codes:      month(map[int]roster.ShiftCode{1: D, 2: roster.LeaveSick, 3: D}),
			wantScore:  95,
			deductions: []string{"[-5] isolated day off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.codes, july2024, DefaultOptions())
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.deductions, result.Deductions)
		})
	}
}

func TestScore_Clamp(t *testing.T) {
	codes := repeat([]roster.ShiftCode{E, D}, 31)

	raw := Score(codes, july2024, Options{})
	clamped := Score(codes, july2024, Options{ClampAtZero: true})

	assert.Negative(t, raw.Score)
	assert.Equal(t, 0, clamped.Score)
	assert.Equal(t, raw.Deductions, clamped.Deductions)
}

func TestScoreRoster_AssignedOnly(t *testing.T) {
	r := &roster.Roster{}
	r.SetCodes(roster.Assigned("e1"), repeat([]roster.ShiftCode{D, D, D, D, D, O, O}, 31)...)
	r.SetCodes(roster.Unassigned(1), repeat([]roster.ShiftCode{E, D}, 31)...)

	scores := ScoreRoster(r, july2024, DefaultOptions())

	require.Len(t, scores, 1)
	assert.Equal(t, 100, scores["e1"].Score)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name       string
		scores     []int
		wantAvg    int
		wantMedian int
	}{
		{name: "empty", scores: nil, wantAvg: 0, wantMedian: 0},
		{name: "odd count", scores: []int{90, 71, 80}, wantAvg: 80, wantMedian: 80},
		{name: "even count", scores: []int{90, 80, 71, 100}, wantAvg: 85, wantMedian: 85},
		{name: "halves round up", scores: []int{1, 2}, wantAvg: 2, wantMedian: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := make(map[string]Result)
			for i, s := range tt.scores {
				scores[string(rune('a'+i))] = Result{Score: s}
			}

			summary := Summarize(july2024, scores)

			assert.Equal(t, 2024, summary.Year)
			assert.Equal(t, 7, summary.Month)
			assert.Equal(t, tt.wantAvg, summary.Avg)
			assert.Equal(t, tt.wantMedian, summary.Median)
		})
	}
}

func TestTrend_Upsert(t *testing.T) {
	var trend Trend
	trend = trend.Upsert(MonthlySummary{Year: 2024, Month: 3, Avg: 80})
	trend = trend.Upsert(MonthlySummary{Year: 2024, Month: 1, Avg: 70})
	trend = trend.Upsert(MonthlySummary{Year: 2024, Month: 3, Avg: 90})

	require.Len(t, trend, 2)
	assert.Equal(t, 1, trend[0].Month)
	assert.Equal(t, 3, trend[1].Month)
	assert.Equal(t, 90, trend[1].Avg)
}

func TestTrend_KeepsLastTwelveMonths(t *testing.T) {
	var trend Trend
	for m := 1; m <= 12; m++ {
		trend = trend.Upsert(MonthlySummary{Year: 2023, Month: m})
	}
	trend = trend.Upsert(MonthlySummary{Year: 2024, Month: 1})
	trend = trend.Upsert(MonthlySummary{Year: 2024, Month: 2})

	require.Len(t, trend, TrendLength)
	assert.Equal(t, MonthlySummary{Year: 2023, Month: 3}, trend[0])
	assert.Equal(t, MonthlySummary{Year: 2024, Month: 2}, trend[TrendLength-1])
}
