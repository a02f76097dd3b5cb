package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("  file-key\n"), 0o600))
	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("\n"), 0o600))

	t.Run("inline value", func(t *testing.T) {
		got, err := OpenRouterConfig{Key: " inline "}.APIKey()
		require.NoError(t, err)
		assert.Equal(t, "inline", got)
	})

	t.Run("file wins over value", func(t *testing.T) {
		got, err := GeminiConfig{Key: "inline", KeyFile: keyFile}.APIKey()
		require.NoError(t, err)
		assert.Equal(t, "file-key", got)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := OpenRouterConfig{Key: "inline", KeyFile: emptyFile}.APIKey()
		require.ErrorContains(t, err, "not configured")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := GeminiConfig{KeyFile: filepath.Join(dir, "nope")}.APIKey()
		require.ErrorContains(t, err, "reading llm.gemini.api-key-file")
	})

	t.Run("hint names the legacy variable", func(t *testing.T) {
		_, err := OpenRouterConfig{}.APIKey()
		require.EqualError(t, err, "llm.openrouter api key is not configured (set llm.openrouter.api-key, llm.openrouter.api-key-file or OPENROUTER_API_KEY)")

		_, err = GeminiConfig{}.APIKey()
		require.ErrorContains(t, err, "GEMINI_API_KEY")
	})
}
