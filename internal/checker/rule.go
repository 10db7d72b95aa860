package checker

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rule is a single named requirement evaluated against the combined drawing text.
// Evaluate always returns a finding; a StatusPass finding means the requirement
// is satisfied and is only reported when the engine asks for explicit passes.
type Rule interface {
	Item() string
	Importance() Importance
	Evaluate(category, text string) Finding
}

// compilePatterns compiles every pattern case-insensitively
func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile("(?i)"+p))
	}
	return compiled
}

// Normalize folds compatibility characters with NFKC so the ASCII classes in
// the patterns see what a reader sees: full-width digits and letters become
// ASCII, U+3000 and other wide spaces become plain spaces. Already normalized
// text is returned unchanged without copying.
func Normalize(text string) string {
	return norm.NFKC.String(text)
}

// PresenceRule is satisfied when any of its patterns matches anywhere in the text
type PresenceRule struct {
	item       string
	patterns   []*regexp.Regexp
	status     Status
	importance Importance
	message    string
	suggestion string
}

// NewPresenceRule builds a presence rule from raw pattern strings
func NewPresenceRule(item string, status Status, importance Importance, message, suggestion string,
	patterns ...string,
) *PresenceRule {
	return &PresenceRule{
		item:       item,
		patterns:   compilePatterns(patterns...),
		status:     status,
		importance: importance,
		message:    message,
		suggestion: suggestion,
	}
}

// Item returns the requirement name
func (r *PresenceRule) Item() string { return r.item }

// Importance returns the rule's fixed importance
func (r *PresenceRule) Importance() Importance { return r.importance }

// Patterns returns the source of each compiled pattern in evaluation order
func (r *PresenceRule) Patterns() []string {
	out := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = p.String()
	}
	return out
}

// Extract returns the first substring matched by any pattern, in pattern order
func (r *PresenceRule) Extract(text string) (string, bool) {
	text = Normalize(text)
	for _, p := range r.patterns {
		if m := p.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// Evaluate reports a failure finding unless one of the patterns matches
func (r *PresenceRule) Evaluate(category, text string) Finding {
	if _, ok := r.Extract(text); ok {
		return passFinding(category, r.item, r.importance, fmt.Sprintf("%sの記載を確認しました", r.item))
	}
	return Finding{
		Category:   category,
		Item:       r.item,
		Status:     r.status,
		Message:    r.message,
		Importance: r.importance,
		Suggestion: r.suggestion,
	}
}

// Outcome describes the finding emitted for one branch of a threshold rule.
// Message and Suggestion may reference {value} and {ceiling}.
type Outcome struct {
	Status     Status
	Importance Importance
	Message    string
	Suggestion string
}

// ThresholdRule extracts an integer value and fails when it exceeds Ceiling
type ThresholdRule struct {
	item     string
	patterns []*regexp.Regexp
	ceiling  int
	exceeded Outcome
	missing  Outcome
}

// NewThresholdRule builds a threshold rule. Each pattern must have one capture group.
func NewThresholdRule(item string, ceiling int, exceeded, missing Outcome, patterns ...string) *ThresholdRule {
	return &ThresholdRule{
		item:     item,
		patterns: compilePatterns(patterns...),
		ceiling:  ceiling,
		exceeded: exceeded,
		missing:  missing,
	}
}

// Item returns the requirement name
func (r *ThresholdRule) Item() string { return r.item }

// Importance returns the importance of the ceiling itself
func (r *ThresholdRule) Importance() Importance { return r.exceeded.Importance }

// Ceiling returns the inclusive upper bound
func (r *ThresholdRule) Ceiling() int { return r.ceiling }

// Value extracts the first capture that parses as an integer. A value too
// large for int is reported as math.MaxInt. A capture that fails to parse
// for any other reason falls through to the next pattern.
func (r *ThresholdRule) Value(text string) (int, bool) {
	_, v, ok := r.capture(text)
	return v, ok
}

// capture returns the raw digits alongside the parsed value
func (r *ThresholdRule) capture(text string) (string, int, bool) {
	text = Normalize(text)
	for _, p := range r.patterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if errors.Is(err, strconv.ErrRange) {
			return m[1], math.MaxInt, true
		}
		if err != nil {
			continue
		}
		return strconv.Itoa(v), v, true
	}
	return "", 0, false
}

// Evaluate reports a missing finding, an exceeded finding, or a pass
func (r *ThresholdRule) Evaluate(category, text string) Finding {
	raw, v, ok := r.capture(text)
	if !ok {
		return r.missing.finding(category, r.item, "", r.ceiling)
	}
	if v > r.ceiling {
		return r.exceeded.finding(category, r.item, raw, r.ceiling)
	}
	return passFinding(category, r.item, r.Importance(),
		fmt.Sprintf("%sは%dmmで基準(%dmm以下)を満たしています", r.item, v, r.ceiling))
}

func (o Outcome) finding(category, item, value string, ceiling int) Finding {
	fill := strings.NewReplacer("{value}", value, "{ceiling}", strconv.Itoa(ceiling))
	return Finding{
		Category:   category,
		Item:       item,
		Status:     o.Status,
		Message:    fill.Replace(o.Message),
		Importance: o.Importance,
		Suggestion: fill.Replace(o.Suggestion),
	}
}

func passFinding(category, item string, importance Importance, message string) Finding {
	return Finding{
		Category:   category,
		Item:       item,
		Status:     StatusPass,
		Message:    message,
		Importance: importance,
	}
}
