package services

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/database"
	"github.com/justsurfingit/jobchat/internal/models"
)

func TestJobServiceRejectsIncomplete(t *testing.T) {
	svc := NewJobService(nil)

	_, err := svc.Save(context.Background(), chat.FieldSet{chat.FieldTitle: "x"})
	assert.ErrorIs(t, err, errIncompletePosting)
}

// Runs against a real database when JOBCHAT_TEST_POSTGRES_DSN is set.
func TestJobServicePostgres(t *testing.T) {
	dsn := os.Getenv("JOBCHAT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JOBCHAT_TEST_POSTGRES_DSN not set")
	}

	db, err := database.Connect(dsn, zap.NewNop())
	require.NoError(t, err)
	svc := NewJobService(db)
	t.Cleanup(func() { _ = svc.Close() })

	id, err := svc.Save(context.Background(), completeFields())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	n, err := strconv.ParseUint(id, 10, 64)
	require.NoError(t, err)
	var job models.JobPosting
	require.NoError(t, svc.DB.First(&job, n).Error)
	assert.Equal(t, completeFields(), job.Fields())
	assert.False(t, job.CreatedAt.IsZero())
}
