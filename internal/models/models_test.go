package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justsurfingit/jobchat/internal/chat"
)

func TestJobPostingCoversEveryField(t *testing.T) {
	fields := chat.FieldSet{}
	for _, f := range chat.Fields {
		fields[f] = "value of " + string(f)
	}

	job := NewJobPosting(fields)
	assert.Zero(t, job.ID)
	assert.True(t, job.CreatedAt.IsZero(), "creation time is assigned by the store")
	assert.Equal(t, fields, job.Fields())
}
