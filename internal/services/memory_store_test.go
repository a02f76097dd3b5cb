package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobchat/internal/chat"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	id, err := store.Save(context.Background(), completeFields())
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	_, err = store.Save(context.Background(), chat.FieldSet{chat.FieldTitle: "only"})
	assert.ErrorIs(t, err, errIncompletePosting)

	all := store.jobs
	require.Len(t, all, 1)
	assert.Equal(t, stamp, all[0].CreatedAt)
	assert.Equal(t, completeFields(), all[0].Fields())
	assert.NoError(t, store.Close())
}
