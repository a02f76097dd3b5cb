package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/config"
	"github.com/justsurfingit/jobchat/internal/services"
)

type scriptedInput struct {
	lines []string
	end   error
}

func (s *scriptedInput) Run() (string, error) {
	if len(s.lines) == 0 {
		return "", s.end
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type cannedCompleter struct{}

func (cannedCompleter) Complete(context.Context, []chat.Message, chat.CallOptions) (string, error) {
	return "Anything else?", nil
}

func newTerminalSession(store chat.Store) *chat.Session {
	return chat.NewSession("terminal", chat.Deps{
		Completer:  cannedCompleter{},
		Store:      store,
		Summarizer: services.NewSummaryService(cannedCompleter{}, 0, nil),
	}, chat.Options{Language: chat.LanguageEN})
}

func TestConverseRunsUntilSaved(t *testing.T) {
	store := services.NewMemoryStore()
	session := newTerminalSession(store)

	var lines []string
	for _, f := range chat.Fields {
		lines = append(lines, "", "my "+string(f)+" answer")
	}
	// left unread once the posting is saved
	lines = append(lines, "extra")
	in := &scriptedInput{lines: lines, end: io.EOF}

	var out bytes.Buffer
	require.NoError(t, converse(context.Background(), session, in, &out))

	assert.True(t, session.Finished())
	assert.Equal(t, []string{"extra"}, in.lines)
	assert.Equal(t, "1", session.Snapshot().DocumentID)

	printed := out.String()
	assert.True(t, strings.HasPrefix(printed, "\n"+chat.Greeting(chat.LanguageEN)+"\n"))
	assert.Contains(t, printed, "📄 Job data has been saved ✅")
	assert.NotContains(t, printed, "my title answer", "user lines are not echoed")
}

func TestConverseStopsOnInterrupt(t *testing.T) {
	for _, end := range []error{promptui.ErrInterrupt, promptui.ErrEOF, io.EOF} {
		session := newTerminalSession(services.NewMemoryStore())
		in := &scriptedInput{lines: []string{"the title is Go developer"}, end: end}

		var out bytes.Buffer
		require.NoError(t, converse(context.Background(), session, in, &out))
		assert.False(t, session.Finished())
		assert.Equal(t, chat.FieldSet{chat.FieldTitle: "the title is Go developer"}, session.Fields())
	}

	boom := errors.New("terminal gone")
	err := converse(context.Background(), newTerminalSession(services.NewMemoryStore()), &scriptedInput{end: boom}, io.Discard)
	assert.ErrorIs(t, err, boom)
}

func TestNewStoreDrivers(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Store.Driver = config.DriverMemory
	store, closer, err := newStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &services.MemoryStore{}, store)
	assert.NoError(t, closer.Close())

	cfg.Store.Driver = "SQLite"
	cfg.Store.SQLite.Path = filepath.Join(t.TempDir(), "jobs.db")
	store, closer, err = newStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &services.SQLiteStore{}, store)
	assert.NoError(t, closer.Close())

	cfg.Store.Driver = "mongo"
	_, _, err = newStore(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported store driver")
}

func TestNewCompleterProviders(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.LLM.Provider = config.ProviderOpenRouter
	_, err := newCompleter(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "OPENROUTER_API_KEY")

	cfg.LLM.OpenRouter.Key = "sk-test"
	cfg.LLM.OpenRouter.Model = "openai/gpt-4o-mini"
	completer, err := newCompleter(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &services.OpenRouterClient{}, completer)

	cfg.LLM.Provider = "claude"
	_, err = newCompleter(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := Execute()
	return out.String(), err
}

func TestCommandsReadTheirOwnFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("JOBCHAT_LLM_OPENROUTER_API_KEY", "")

	_, err := executeRoot(t, "chat", "--memory", "--language", "fr")
	assert.ErrorIs(t, err, chat.ErrUnsupportedLanguage)

	_, err = executeRoot(t, "serve", "--addr", "127.0.0.1:0")
	assert.ErrorContains(t, err, "OPENROUTER_API_KEY")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "jobchat version: unknown\n", out)
}
