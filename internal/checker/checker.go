package checker

// Checker evaluates a named group of rules against a drawing
type Checker interface {
	Category() string
	Rules() []Rule
	Evaluate(doc TextSource) []Finding
}

// RuleChecker is a Checker backed by a fixed, ordered rule table
type RuleChecker struct {
	category     string
	rules        []Rule
	explicitPass bool
}

// NewRuleChecker creates a checker for the given category and rule table
func NewRuleChecker(category string, rules ...Rule) *RuleChecker {
	return &RuleChecker{
		category: category,
		rules:    rules,
	}
}

// Category returns the label attached to every finding from this checker
func (c *RuleChecker) Category() string {
	return c.category
}

// Rules returns a copy of the rule table in evaluation order
func (c *RuleChecker) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Evaluate runs every rule against the combined text, keeping rule order.
// Satisfied rules produce nothing unless explicit passes were requested.
func (c *RuleChecker) Evaluate(doc TextSource) []Finding {
	text := Normalize(doc.CombinedText())
	findings := make([]Finding, 0, len(c.rules))
	for _, rule := range c.rules {
		f := rule.Evaluate(c.category, text)
		if f.Status == StatusPass && !c.explicitPass {
			continue
		}
		findings = append(findings, f)
	}
	return findings
}

// PassReporter is implemented by checkers that can also report satisfied
// rules. The engine switches them over when explicit passes are requested.
type PassReporter interface {
	ReportPasses() Checker
}

// ReportPasses returns a copy of the checker that reports satisfied rules
func (c *RuleChecker) ReportPasses() Checker {
	dup := *c
	dup.explicitPass = true
	return &dup
}
