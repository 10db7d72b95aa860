package checker

// Status is the outcome of evaluating a single rule
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusWarn Status = "WARN"
)

// Label returns the short marker used in Japanese reports
func (s Status) Label() string {
	switch s {
	case StatusPass:
		return "OK"
	case StatusFail:
		return "NG"
	case StatusWarn:
		return "警告"
	default:
		return string(s)
	}
}

// Importance is the policy weight of a rule, independent of its outcome
type Importance string

const (
	ImportanceRequired    Importance = "REQUIRED"
	ImportanceRecommended Importance = "RECOMMENDED"
	ImportanceReference   Importance = "REFERENCE"
)

// Label returns the Japanese label for the importance level
func (i Importance) Label() string {
	switch i {
	case ImportanceRequired:
		return "必須"
	case ImportanceRecommended:
		return "推奨"
	case ImportanceReference:
		return "参考"
	default:
		return string(i)
	}
}

// Finding is one reported result from evaluating a rule against a drawing
type Finding struct {
	Category   string     `json:"category" yaml:"category"`
	Item       string     `json:"item" yaml:"item"`
	Status     Status     `json:"status" yaml:"status"`
	Message    string     `json:"message" yaml:"message"`
	Importance Importance `json:"importance" yaml:"importance"`
	PageNumber *int       `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	Suggestion string     `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// TextSource is anything that can present the combined text of a drawing
type TextSource interface {
	CombinedText() string
}

// Text adapts a plain string to TextSource
type Text string

// CombinedText returns the string itself
func (t Text) CombinedText() string {
	return string(t)
}
