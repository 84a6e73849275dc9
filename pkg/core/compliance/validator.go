package compliance

// Validate runs each rule against the snapshot and returns all violations in rule order
func Validate(s *Snapshot, rules ...Rule) []Violation {
	var violations []Violation

	for _, rule := range rules {
		violations = append(violations, rule.Check(s)...)
	}

	return violations
}

// DefaultRules returns the statutory labor-law rule followed by the skill-mix rule
func DefaultRules() []Rule {
	return []Rule{
		NewLaborLawRule(),
		NewSkillMixRule(),
	}
}
