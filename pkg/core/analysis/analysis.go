package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/ward-roster/pkg/core/compliance"
	"github.com/jakechorley/ward-roster/pkg/core/health"
	"github.com/jakechorley/ward-roster/pkg/core/risk"
	"github.com/jakechorley/ward-roster/pkg/core/roster"
)

// Input is an immutable snapshot of everything the analyzers read
type Input struct {
	Roster    *roster.Roster
	Employees []roster.Employee
	Holidays  roster.HolidaySet
	Period    roster.Period
	Catalog   *roster.Catalog
	Health    health.Options
	// Rules defaults to compliance.DefaultRules when empty
	Rules []compliance.Rule
}

// Report is the combined output of every analyzer
type Report struct {
	Period        roster.Period
	Violations    []compliance.Violation
	Risks         []risk.Risk
	HealthScores  map[string]health.Result
	HealthSummary health.MonthlySummary
}

// Analyze runs compliance, risk and health scoring over the snapshot concurrently.
// It only fails for an invalid period or a cancelled context.
func Analyze(ctx context.Context, in Input) (*Report, error) {
	if err := in.Period.Validate(); err != nil {
		return nil, err
	}
	if in.Roster == nil {
		in.Roster = &roster.Roster{}
	}
	if in.Catalog == nil {
		in.Catalog = roster.NewCatalog()
	}
	if in.Health.Catalog == nil {
		in.Health.Catalog = in.Catalog
	}
	rules := in.Rules
	if len(rules) == 0 {
		rules = compliance.DefaultRules()
	}

	report := &Report{Period: in.Period}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Violations = compliance.Validate(&compliance.Snapshot{
			Roster:    in.Roster,
			Employees: in.Employees,
			Period:    in.Period,
			Catalog:   in.Catalog,
		}, rules...)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Risks = risk.Score(risk.Input{
			Roster:    in.Roster,
			Employees: in.Employees,
			Holidays:  in.Holidays,
			Period:    in.Period,
			Catalog:   in.Catalog,
		})
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.HealthScores = health.ScoreRoster(in.Roster, in.Period, in.Health)
		report.HealthSummary = health.Summarize(in.Period, report.HealthScores)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyze roster: %w", err)
	}

	return report, nil
}
