package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/core/compliance"
	"github.com/jakechorley/ward-roster/pkg/core/coverage"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
	"github.com/jakechorley/ward-roster/pkg/core/settlement"
	"github.com/jakechorley/ward-roster/pkg/db"
)

// julyStore is a two-person ward for July 2024 (starts on a Monday).
// e1 (senior) works D on days 1-7 and an explicit overtime day on day 8.
// e2 (junior) works a single N on day 10.
func julyStore() *mockStore {
	e1 := append(repeat("D", 7), "D(OT)")
	e2 := append(repeat("", 9), "N")

	cells := cellsFor(2024, 7, "e1", e1...)
	cells = append(cells, cellsFor(2024, 7, "e2", e2...)...)
	// A different month must never leak in
	cells = append(cells, cellsFor(2024, 8, "e1", "N", "N")...)

	return &mockStore{
		employees: []db.Employee{
			{ID: "e1", Name: "Alice", Email: "alice@example.com", Level: "N3", IsActive: true},
			{ID: "e2", Name: "Bob", Email: "bob@example.com", Level: "N1", IsActive: true},
		},
		cells: cells,
	}
}

func hasViolation(violations []compliance.Violation, employeeID string, day int, kind compliance.Kind) bool {
	for _, v := range violations {
		if v.EmployeeID == employeeID && v.Day == day && v.Kind == kind {
			return true
		}
	}
	return false
}

func rowFor(t *testing.T, rows []settlement.Row, id string) settlement.Row {
	t.Helper()
	for _, r := range rows {
		if r.EmployeeID == id {
			return r
		}
	}
	t.Fatalf("no settlement row for %s", id)
	return settlement.Row{}
}

func updateFor(t *testing.T, updates []settlement.BalanceUpdate, id string) settlement.BalanceUpdate {
	t.Helper()
	for _, u := range updates {
		if u.EmployeeID == id {
			return u
		}
	}
	t.Fatalf("no balance update for %s", id)
	return settlement.BalanceUpdate{}
}

func TestCheckRoster(t *testing.T) {
	store := julyStore()

	report, err := CheckRoster(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	assert.Equal(t, roster.Period{Year: 2024, Month: 7}, report.Period)
	// Eight working days in a row
	assert.True(t, hasViolation(report.Violations, "e1", 7, compliance.KindConsecutiveDays))
	// e2 is alone on the night of day 10
	assert.True(t, hasViolation(report.Violations, compliance.WardID, 10, compliance.KindSkillMix))
	assert.Len(t, report.HealthScores, 2)
}

func TestCheckRoster_Errors(t *testing.T) {
	t.Run("invalid month", func(t *testing.T) {
		_, err := CheckRoster(context.Background(), julyStore(), testConfig(), zap.NewNop(), 2024, 13)
		assert.ErrorIs(t, err, roster.ErrInvalidPeriod)
	})

	t.Run("employee fetch fails", func(t *testing.T) {
		store := julyStore()
		store.getEmployeesErr = errors.New("connection refused")

		_, err := CheckRoster(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch employees")
	})

	t.Run("roster fetch fails", func(t *testing.T) {
		store := julyStore()
		store.getCellsErr = errors.New("timeout")

		_, err := CheckRoster(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch roster")
	})

	t.Run("bad stored level", func(t *testing.T) {
		store := julyStore()
		store.employees[0].Level = "N9"

		_, err := CheckRoster(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "employee e1")
	})
}

func TestPreviewSettlement(t *testing.T) {
	store := julyStore()

	preview, err := PreviewSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)
	require.Len(t, preview.Rows, 2)

	alice := rowFor(t, preview.Rows, "e1")
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 8, alice.WorkDays)
	assert.Equal(t, 1, alice.ExplicitOTDays)
	assert.Equal(t, 1, alice.OTDays)

	bob := rowFor(t, preview.Rows, "e2")
	assert.Equal(t, 1, bob.NightShifts)

	// First settlement of the month: deltas are the full figures
	u := updateFor(t, preview.Updates, "e1")
	assert.Equal(t, 1, u.OTDelta)
	assert.Equal(t, 1, u.NewAccumulatedOT)

	// Previewing writes nothing
	assert.Empty(t, store.appliedRuns)
	assert.Empty(t, store.history)
}

func TestPreviewSettlement_AgainstStoredHistory(t *testing.T) {
	store := julyStore()
	store.employees[1].NightShiftBalance = 5
	store.history = []db.SettlementHistory{{EmployeeID: "e2", MonthKey: "2024-07", Night: 1}}

	preview, err := PreviewSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	u := updateFor(t, preview.Updates, "e2")
	assert.True(t, u.IsZero())
	assert.Equal(t, 5, u.NewNightBalance)
}

func TestPreviewSettlement_UnknownEmployee(t *testing.T) {
	store := julyStore()
	store.cells = append(store.cells, cellsFor(2024, 7, "ghost", "D")...)

	preview, err := PreviewSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	ghost := rowFor(t, preview.Rows, "ghost")
	assert.Equal(t, settlement.UnknownName, ghost.Name)
	for _, u := range preview.Updates {
		assert.NotEqual(t, "ghost", u.EmployeeID)
	}
}

func TestConfirmSettlement(t *testing.T) {
	store := julyStore()
	cfg := testConfig()
	cfg.SettlementSheetID = "sheet-123"

	notifier := &mockEmailSender{}
	publisher := &mockPublisher{}
	archive := &mockArchive{}

	result, err := ConfirmSettlement(context.Background(), store, cfg, zap.NewNop(), 2024, 7, ConfirmOptions{
		Notifier:  notifier,
		Publisher: publisher,
		Archive:   archive,
	})
	require.NoError(t, err)

	// Ledger
	require.Len(t, store.appliedRuns, 1)
	assert.Equal(t, "2024-07", result.Run.MonthKey)
	assert.Equal(t, "40000", result.Run.BaseSalary)
	assert.Equal(t, 2, result.Run.EmployeeCount)
	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, 1, store.employees[0].AccumulatedOT)
	assert.Equal(t, 1, store.employees[1].NightShiftBalance)

	// Archive
	assert.NoError(t, result.ArchiveErr)
	require.Len(t, archive.exports, 2)
	assert.Equal(t, result.Run.ID, archive.exports[0].RunID)

	// Publish
	assert.NoError(t, result.PublishErr)
	assert.Equal(t, "sheet-123", publisher.sheetID)
	assert.Equal(t, "2024-07", publisher.period.MonthKey())
	assert.Len(t, publisher.rows, 2)

	// Notify
	assert.Equal(t, 2, result.Notified)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Settlement for 2024-07", notifier.sent[0].subject)
}

func TestConfirmSettlement_Idempotent(t *testing.T) {
	store := julyStore()
	cfg := testConfig()

	_, err := ConfirmSettlement(context.Background(), store, cfg, zap.NewNop(), 2024, 7, ConfirmOptions{})
	require.NoError(t, err)

	second, err := ConfirmSettlement(context.Background(), store, cfg, zap.NewNop(), 2024, 7, ConfirmOptions{})
	require.NoError(t, err)

	for _, u := range second.Updates {
		assert.True(t, u.IsZero(), "employee %s", u.EmployeeID)
	}
	assert.Equal(t, 1, store.employees[0].AccumulatedOT)
	assert.Equal(t, 1, store.employees[1].NightShiftBalance)
	assert.NotEqual(t, store.appliedRuns[0].ID, store.appliedRuns[1].ID)
}

func TestConfirmSettlement_NotificationOutcomes(t *testing.T) {
	store := julyStore()
	store.employees[0].Email = ""
	notifier := &mockEmailSender{failFor: map[string]bool{"bob@example.com": true}}

	result, err := ConfirmSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, ConfirmOptions{
		Notifier: notifier,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Notified)
	assert.Equal(t, []string{"e1"}, result.SkippedNoEmail)
	require.Len(t, result.NotificationFailures, 1)
	assert.Equal(t, "e2", result.NotificationFailures[0].EmployeeID)
	assert.Equal(t, "bob@example.com", result.NotificationFailures[0].Email)

	// The ledger still committed
	assert.Len(t, store.appliedRuns, 1)
}

func TestConfirmSettlement_PostCommitFailures(t *testing.T) {
	store := julyStore()
	publisher := &mockPublisher{}
	archive := &mockArchive{err: errors.New("quota exceeded")}

	// No settlement sheet configured
	result, err := ConfirmSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, ConfirmOptions{
		Publisher: publisher,
		Archive:   archive,
	})
	require.NoError(t, err)

	require.Error(t, result.PublishErr)
	assert.Contains(t, result.PublishErr.Error(), "settlementSheetID")
	assert.Empty(t, publisher.sheetID)
	assert.EqualError(t, result.ArchiveErr, "quota exceeded")
	assert.Len(t, store.appliedRuns, 1)
}

func TestConfirmSettlement_LedgerFailure(t *testing.T) {
	store := julyStore()
	store.applyErr = errors.New("deadlock detected")
	notifier := &mockEmailSender{}
	archive := &mockArchive{}

	_, err := ConfirmSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, ConfirmOptions{
		Notifier: notifier,
		Archive:  archive,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply settlement")
	assert.Empty(t, notifier.sent)
	assert.Empty(t, archive.exports)
}

func TestConfirmSettlement_InvalidBaseSalary(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSalary = "0"

	_, err := ConfirmSettlement(context.Background(), julyStore(), cfg, zap.NewNop(), 2024, 7, ConfirmOptions{})
	assert.ErrorIs(t, err, settlement.ErrInvalidBaseSalary)
}

func TestSettlementNotice(t *testing.T) {
	period := roster.Period{Year: 2024, Month: 7}
	e := roster.Employee{ID: "e1"}
	row := settlement.Row{WorkDays: 24, StandardDays: 23, OTDays: 1, NightShifts: 3}
	u := settlement.BalanceUpdate{OTDelta: -2, NightDelta: 3, NewAccumulatedOT: 4, NewNightBalance: 9}

	subject, body := settlementNotice(period, e, row, u)

	assert.Equal(t, "Settlement for 2024-07", subject)
	assert.Contains(t, body, "Hi e1,")
	assert.Contains(t, body, "Work days: 24 (standard 23)")
	assert.Contains(t, body, "Overtime balance: 4 (-2)")
	assert.Contains(t, body, "Night shift balance: 9 (+3)")
}

func TestRecordHealthTrend(t *testing.T) {
	store := julyStore()
	for m := 1; m <= 12; m++ {
		store.summaries = append(store.summaries, db.HealthSummary{Year: 2023, Month: m, Avg: 80, Median: 80})
	}

	trend, summary, err := RecordHealthTrend(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, 7, summary.Month)

	// The oldest month falls off
	require.Len(t, trend, 12)
	assert.Equal(t, 2, trend[0].Month)
	assert.Equal(t, summary, trend[len(trend)-1])
	require.Len(t, store.replacedTrend, 12)
	assert.Equal(t, 2024, store.replacedTrend[11].Year)
}

func TestRecordHealthTrend_ReplacesMonth(t *testing.T) {
	store := &mockStore{
		summaries: []db.HealthSummary{{Year: 2024, Month: 7, Avg: 12, Median: 12}},
	}

	trend, summary, err := RecordHealthTrend(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	// An empty roster summarises to zeros
	assert.Equal(t, 0, summary.Avg)
	require.Len(t, trend, 1)
	assert.Equal(t, 0, trend[0].Avg)
}

func TestGetHealthTrend(t *testing.T) {
	store := &mockStore{
		summaries: []db.HealthSummary{
			{Year: 2024, Month: 2, Avg: 70, Median: 71},
			{Year: 2023, Month: 12, Avg: 60, Median: 61},
		},
	}

	trend, err := GetHealthTrend(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, 2023, trend[0].Year)
	assert.Equal(t, 70, trend[1].Avg)
}

func TestListBalances(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{
			{ID: "a", Level: "N1", IsActive: true, AccumulatedOT: 3, NightShiftBalance: 9},
			{ID: "b", Level: "N1", IsActive: true, AccumulatedOT: 7, NightShiftBalance: 1},
			{ID: "c", Level: "N1", IsActive: false, AccumulatedOT: 99, NightShiftBalance: 99},
			{ID: "d", Level: "N1", IsActive: true, AccumulatedOT: 7, NightShiftBalance: 4},
		},
	}

	tests := []struct {
		name string
		kind settlement.BalanceKind
		top  int
		want []string
	}{
		{"overtime", settlement.BalanceOT, 0, []string{"b", "d", "a"}},
		{"night top two", settlement.BalanceNight, 2, []string{"a", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked, err := ListBalances(context.Background(), store, zap.NewNop(), tt.kind, tt.top)
			require.NoError(t, err)
			assert.Equal(t, tt.want, getEmployeeIDs(ranked))
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ListBalances(context.Background(), store, zap.NewNop(), "leave", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown balance kind")
	})
}

func TestSimulateCoverage(t *testing.T) {
	store := julyStore()
	demand := coverage.Demand{Beds: 10, RatioD: 5, RatioE: 5, RatioN: 10}

	result, err := SimulateCoverage(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, demand)
	require.NoError(t, err)

	assert.Equal(t, 2, result.StaffCount)
	assert.Equal(t, 2, result.Requirements.D)
	assert.Equal(t, 1, result.Requirements.N)
	require.Len(t, result.Days, 31)
	// Day 1: one of two D, no E or N
	assert.Equal(t, 1+2+1, result.Days[0].Gap)

	t.Run("invalid ratio", func(t *testing.T) {
		_, err := SimulateCoverage(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, coverage.Demand{Beds: 10})
		assert.ErrorIs(t, err, coverage.ErrInvalidRatio)
	})
}

func TestDemandFromConfig(t *testing.T) {
	cfg := &config.Config{Coverage: config.Coverage{Beds: 30, RatioD: 6, RatioE: 8, RatioN: 12}}

	demand := DemandFromConfig(cfg, coverage.Demand{Beds: 20, BanNight: true})

	assert.Equal(t, coverage.Demand{Beds: 20, RatioD: 6, RatioE: 8, RatioN: 12, BanNight: true}, demand)
}

func TestImportSheets(t *testing.T) {
	store := &mockStore{
		employees: []db.Employee{{ID: "e1", Level: "N2", IsActive: true}},
	}
	r := &roster.Roster{}
	r.SetCodes(roster.Assigned("e1"), roster.ShiftDay, roster.ShiftNight)
	r.SetCodes(roster.Assigned("zz"), roster.ShiftEvening)
	r.SetCodes(roster.Assigned("e9"), roster.ShiftEvening)
	sheets := &mockSheetsReader{
		staff: []roster.Employee{
			{ID: "e1", Name: "Alice", Level: roster.LevelN2, IsActive: true, HourRule: roster.HourRuleStandard},
			{ID: "e2", Name: "Bob", Level: roster.LevelN0, IsActive: true, HourRule: roster.HourRuleBiWeekly},
		},
		roster: r,
	}
	holidays := &mockHolidaySource{
		holidays: []db.PublicHoliday{{Date: "20240704", Name: "Independence Day"}},
	}

	cfg := testConfig()
	cfg.StaffSheetID = "staff-sheet"
	cfg.RosterSheetID = "roster-sheet"
	cfg.PublicHolidays = []string{"20240704", "20240710"}

	result, err := ImportSheets(context.Background(), store, sheets, holidays, cfg, zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Staff)
	require.Len(t, store.upsertedStaff, 2)
	assert.Equal(t, "BiWeekly", store.upsertedStaff[1].HourRule)

	// The mock store does not see upserted staff, so only e1 is known
	assert.Equal(t, []string{"e9", "zz"}, result.UnknownSlots)
	assert.Equal(t, 4, result.Cells)
	assert.Len(t, store.replacedCells, 4)

	assert.Equal(t, 2, result.Holidays)
	assert.Equal(t, []db.PublicHoliday{
		{Date: "20240704", Name: "Independence Day"},
		{Date: "20240710"},
	}, store.upsertedHolidays)
}

func TestImportSheets_SkipsUnconfiguredSources(t *testing.T) {
	store := &mockStore{}
	sheets := &mockSheetsReader{staffErr: errors.New("unused"), rosterErr: errors.New("unused")}

	result, err := ImportSheets(context.Background(), store, sheets, nil, testConfig(), zap.NewNop(), 2024, 7)
	require.NoError(t, err)

	assert.Zero(t, result.Staff)
	assert.Zero(t, result.Cells)
	assert.Zero(t, result.Holidays)
	assert.Nil(t, store.replacedCells)
}

func TestImportSheets_ReadFailure(t *testing.T) {
	cfg := testConfig()
	cfg.RosterSheetID = "roster-sheet"
	sheets := &mockSheetsReader{rosterErr: errors.New("403 forbidden")}

	_, err := ImportSheets(context.Background(), &mockStore{}, sheets, nil, cfg, zap.NewNop(), 2024, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read roster")
}

func TestDedupeHolidays(t *testing.T) {
	got := dedupeHolidays([]db.PublicHoliday{
		{Date: "20240102"},
		{Date: "20240101"},
		{Date: "20240102", Name: "Bank holiday"},
		{Date: "20240102"},
	})

	assert.Equal(t, []db.PublicHoliday{
		{Date: "20240101"},
		{Date: "20240102", Name: "Bank holiday"},
	}, got)
}

func TestListSettlementRuns(t *testing.T) {
	store := &mockStore{appliedRuns: []db.SettlementRun{
		{ID: "r1", MonthKey: "2024-06"},
		{ID: "r2", MonthKey: "2024-07"},
		{ID: "r3", MonthKey: "2024-07"},
	}}

	runs, err := ListSettlementRuns(context.Background(), store, zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2", "r1"}, runIDs(runs))

	july := roster.Period{Year: 2024, Month: 7}
	runs, err = ListSettlementRuns(context.Background(), store, zap.NewNop(), &july)
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2"}, runIDs(runs))

	august := roster.Period{Year: 2024, Month: 8}
	runs, err = ListSettlementRuns(context.Background(), store, zap.NewNop(), &august)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListSettlementRuns_Errors(t *testing.T) {
	bad := roster.Period{Year: 2024, Month: 13}
	_, err := ListSettlementRuns(context.Background(), &mockStore{}, zap.NewNop(), &bad)
	assert.ErrorIs(t, err, roster.ErrInvalidPeriod)

	store := &mockStore{getRunsErr: errors.New("connection reset")}
	_, err = ListSettlementRuns(context.Background(), store, zap.NewNop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settlement runs")
}

func TestListSettlementRuns_AfterConfirm(t *testing.T) {
	store := julyStore()
	_, err := ConfirmSettlement(context.Background(), store, testConfig(), zap.NewNop(), 2024, 7, ConfirmOptions{})
	require.NoError(t, err)

	runs, err := ListSettlementRuns(context.Background(), store, zap.NewNop(), nil)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "2024-07", runs[0].MonthKey)
	assert.Equal(t, 2, runs[0].EmployeeCount)
}

func runIDs(runs []db.SettlementRun) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
