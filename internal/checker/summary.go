package checker

// Summary is the rollup of a findings sequence
type Summary struct {
	Total        int    `json:"total" yaml:"total"`
	Pass         int    `json:"pass" yaml:"pass"`
	Fail         int    `json:"fail" yaml:"fail"`
	Warn         int    `json:"warn" yaml:"warn"`
	RequiredFail int    `json:"required_fail" yaml:"required_fail"`
	Overall      Status `json:"status" yaml:"status"`
}

// Summarize counts findings by status. The overall status is FAIL exactly when
// at least one REQUIRED rule failed; an empty sequence passes.
func Summarize(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch f.Status {
		case StatusPass:
			s.Pass++
		case StatusFail:
			s.Fail++
			if f.Importance == ImportanceRequired {
				s.RequiredFail++
			}
		case StatusWarn:
			s.Warn++
		}
	}

	s.Overall = StatusPass
	if s.RequiredFail > 0 {
		s.Overall = StatusFail
	}
	return s
}

// Passed reports whether the drawing is acceptable
func (s Summary) Passed() bool {
	return s.Overall == StatusPass
}
