package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type completerCall struct {
	messages []Message
	opts     CallOptions
}

// fakeCompleter replies "question N" unless an error or reply is queued
// for that call index.
type fakeCompleter struct {
	mu      sync.Mutex
	calls   []completerCall
	errs    map[int]error
	replies map[int]string
	block   chan struct{}
	entered chan struct{}
	// onCall runs with the call index before the reply is produced.
	onCall  func(idx int)
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{errs: map[int]error{}, replies: map[int]string{}}
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message, opts CallOptions) (string, error) {
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, completerCall{messages: messages, opts: opts})
	err := f.errs[idx]
	reply, ok := f.replies[idx]
	block, entered, onCall := f.block, f.entered, f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall(idx)
	}
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		reply = fmt.Sprintf("question %d", idx+1)
	}
	return reply, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeStore struct {
	mu    sync.Mutex
	calls int
	saved []FieldSet
	err   error
}

func (f *fakeStore) Save(ctx context.Context, fields FieldSet) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.saved = append(f.saved, fields.Clone())
	return fmt.Sprintf("doc-%d", len(f.saved)), nil
}

func (f *fakeStore) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSummarizer struct {
	calls  int
	text   string
	ctxErr error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, _ Language, _ FieldSet) string {
	f.calls++
	f.ctxErr = ctx.Err()
	return f.text
}

var errRemote = errors.New("remote unavailable")

// keywordReplies mention exactly one field identifier each.
var keywordReplies = []string{
	"The title is Backend Engineer",
	"Description: build and run payment APIs",
	"Skills needed: Go and PostgreSQL",
	"A plus would be Kubernetes experience",
	"Location is Taipei",
	"Work mode is hybrid",
	"Salary between 1.2M and 1.8M TWD",
}
