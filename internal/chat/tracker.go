package chat

import (
	"strings"
	"sync"
)

// Tracker records user replies against the required fields. Each field is
// set at most once and the tracker freezes once every field is present.
type Tracker struct {
	mu      sync.Mutex
	matcher Matcher
	values  FieldSet
}

func NewTracker(m Matcher) *Tracker {
	if m == nil {
		m = keywordMatcher{}
	}
	return &Tracker{matcher: m, values: FieldSet{}}
}

// Observe offers a user reply to the tracker. It reports the field that
// was set, if any. At most one field changes per call.
func (t *Tracker) Observe(text string) (Field, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.values.Complete() {
		return "", false
	}

	f, ok := t.matcher.Match(text, t.values)
	if !ok || t.values.Has(f) {
		return "", false
	}
	t.values[f] = text
	return f, true
}

func (t *Tracker) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values.Complete()
}

// Missing returns the fields still to collect, in collection order.
func (t *Tracker) Missing() []Field {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values.Missing()
}

// Values returns a copy of the collected fields.
func (t *Tracker) Values() FieldSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values.Clone()
}
