package chat

import (
	"fmt"
	"strings"
)

// Strategy names how user replies are assigned to fields.
type Strategy string

const (
	// StrategyKeyword assigns a reply to the first missing field whose
	// identifier appears in the lowercased reply.
	StrategyKeyword Strategy = "keyword"
	// StrategySequential assigns every reply to the next missing field and
	// pins the assistant's question to that field.
	StrategySequential Strategy = "sequential"

	DefaultStrategy = StrategyKeyword
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyKeyword, "":
		return StrategyKeyword, nil
	case StrategySequential:
		return StrategySequential, nil
	}
	return "", fmt.Errorf("unsupported field strategy %q", s)
}

// Matcher picks the field a reply fills, given the values collected so far.
type Matcher interface {
	Match(text string, collected FieldSet) (Field, bool)
}

type keywordMatcher struct{}

func (keywordMatcher) Match(text string, collected FieldSet) (Field, bool) {
	lower := strings.ToLower(text)
	for _, f := range Fields {
		if collected.Has(f) {
			continue
		}
		if strings.Contains(lower, string(f)) {
			return f, true
		}
	}
	return "", false
}

type sequentialMatcher struct{}

func (sequentialMatcher) Match(_ string, collected FieldSet) (Field, bool) {
	missing := collected.Missing()
	if len(missing) == 0 {
		return "", false
	}
	return missing[0], true
}

// NewMatcher returns the matcher implementing s.
func NewMatcher(s Strategy) Matcher {
	if s == StrategySequential {
		return sequentialMatcher{}
	}
	return keywordMatcher{}
}
