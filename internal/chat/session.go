package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrBusy                = errors.New("a message is already being processed")
	ErrEmptyMessage        = errors.New("message text is empty")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Role is the author of a completion message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CallOptions tune a single completion request. A nil Temperature leaves
// the provider default in place.
type CallOptions struct {
	MaxTokens   int
	Temperature *float64
}

// Completer returns the next assistant utterance for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts CallOptions) (string, error)
}

// Store persists a completed posting and returns its document id.
type Store interface {
	Save(ctx context.Context, fields FieldSet) (string, error)
}

// Summarizer produces a short analysis of a completed posting. It never
// fails; implementations substitute a placeholder instead.
type Summarizer interface {
	Summarize(ctx context.Context, lang Language, fields FieldSet) string
}

type Deps struct {
	Completer  Completer
	Store      Store
	Summarizer Summarizer
}

type Options struct {
	Language    Language
	Strategy    Strategy
	MaxTokens   int
	Temperature float64

	// FinalizeTimeout bounds the save and summary that follow the last
	// field. They outlive the caller's context so a dropped client cannot
	// lose a finished posting.
	FinalizeTimeout time.Duration
	Logger          *zap.Logger
	Clock           func() time.Time
}

const (
	DefaultMaxTokens       = 300
	DefaultFinalizeTimeout = 90 * time.Second
)

// SendResult describes what a single Send appended.
type SendResult struct {
	Appended   []Turn
	Field      Field
	Saved      bool
	DocumentID string
}

// Snapshot is a consistent read-only view of a session.
type Snapshot struct {
	ID         string   `json:"id"`
	Language   Language `json:"language"`
	Finished   bool     `json:"finished"`
	DocumentID string   `json:"document_id,omitempty"`
	Fields     FieldSet `json:"fields"`
	Turns      []Turn   `json:"turns"`
}

// Session drives one job-posting conversation. Only one Send runs at a
// time; overlapping calls fail with ErrBusy.
type Session struct {
	id          string
	deps        Deps
	strategy    Strategy
	maxTokens   int
	temperature float64
	finalize    time.Duration
	logger      *zap.Logger
	now         func() time.Time

	busy atomic.Bool

	mu         sync.RWMutex
	lang       Language
	finished   bool
	documentID string
	lastActive time.Time

	transcript *Transcript
	tracker    *Tracker
}

func NewSession(id string, deps Deps, opts Options) *Session {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Strategy == "" {
		opts.Strategy = DefaultStrategy
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.FinalizeTimeout <= 0 {
		opts.FinalizeTimeout = DefaultFinalizeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Session{
		id:          id,
		deps:        deps,
		strategy:    opts.Strategy,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		finalize:    opts.FinalizeTimeout,
		logger:      opts.Logger.With(zap.String("session_id", id)),
		now:         opts.Clock,
		lang:        opts.Language,
		tracker:     NewTracker(NewMatcher(opts.Strategy)),
	}
	s.lastActive = s.now()
	s.transcript = NewTranscript(Turn{
		Speaker:   SpeakerAssistant,
		Text:      Greeting(opts.Language),
		CreatedAt: s.lastActive,
	})
	return s
}

func (s *Session) ID() string { return s.id }

// Send appends the user's reply, asks the completer for the next question
// and, once every field is collected, stores the posting and appends the
// summary. Remote failures are reported as assistant turns, not errors.
func (s *Session) Send(ctx context.Context, text string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	s.touch()
	lang := s.Language()
	res := &SendResult{}
	s.appendTurn(res, SpeakerUser, text, false)

	temperature := s.temperature
	messages := s.transcript.Messages(SystemPrompt(lang, s.pinnedField()))
	reply, err := s.deps.Completer.Complete(ctx, messages, CallOptions{
		MaxTokens:   s.maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		s.logger.Warn("completion failed", zap.Error(err))
		s.appendTurn(res, SpeakerAssistant, SystemError(lang, err), true)
		return res, nil
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = NoResponse(lang)
	}
	s.appendTurn(res, SpeakerAssistant, reply, false)

	if f, ok := s.tracker.Observe(text); ok {
		res.Field = f
		s.logger.Debug("field collected", zap.String("field", string(f)))
	}

	if !s.tracker.Complete() || !s.markFinished() {
		return res, nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.finalize)
	defer cancel()

	fields := s.tracker.Values()
	id, err := s.deps.Store.Save(ctx, fields)
	if err != nil {
		s.logger.Error("saving job posting", zap.Error(err))
		s.appendTurn(res, SpeakerAssistant, SaveError(lang, err), true)
		return res, nil
	}

	s.mu.Lock()
	s.documentID = id
	s.mu.Unlock()
	res.Saved = true
	res.DocumentID = id
	s.logger.Info("job posting saved", zap.String("document_id", id))

	analysis := AnalysisFailed(lang)
	if s.deps.Summarizer != nil {
		analysis = s.deps.Summarizer.Summarize(ctx, lang, fields)
	}
	s.appendTurn(res, SpeakerAssistant, SavedMessage(lang, fields, analysis), false)

	return res, nil
}

// pinnedField is the field the assistant should ask for after the reply in
// flight has been recorded. Only the sequential strategy pins questions.
func (s *Session) pinnedField() Field {
	if s.strategy != StrategySequential {
		return ""
	}
	missing := s.tracker.Missing()
	if len(missing) < 2 {
		return ""
	}
	return missing[1]
}

func (s *Session) appendTurn(res *SendResult, speaker Speaker, text string, failure bool) {
	turn := Turn{Speaker: speaker, Text: text, Failure: failure, CreatedAt: s.now()}
	s.transcript.Append(turn)
	res.Appended = append(res.Appended, turn)
}

func (s *Session) markFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	s.finished = true
	return true
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

func (s *Session) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the language used for subsequent turns.
func (s *Session) SetLanguage(lang Language) error {
	if lang != LanguageZH && lang != LanguageEN {
		return ErrUnsupportedLanguage
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return nil
}

func (s *Session) Finished() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finished
}

func (s *Session) Busy() bool { return s.busy.Load() }

func (s *Session) Transcript() []Turn { return s.transcript.All() }

func (s *Session) Fields() FieldSet { return s.tracker.Values() }

// IdleSince reports the time of the last Send or creation.
func (s *Session) IdleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		ID:         s.id,
		Language:   s.lang,
		Finished:   s.finished,
		DocumentID: s.documentID,
	}
	s.mu.RUnlock()
	snap.Fields = s.tracker.Values()
	snap.Turns = s.transcript.All()
	return snap
}
