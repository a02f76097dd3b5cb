package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/models"
)

// MemoryStore keeps postings in process. It backs the terminal demo.
type MemoryStore struct {
	mu   sync.Mutex
	jobs []models.JobPosting
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, fields chat.FieldSet) (string, error) {
	if !fields.Complete() {
		return "", fmt.Errorf("%w: missing %v", errIncompletePosting, fields.Missing())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job := models.NewJobPosting(fields)
	job.ID = uint(len(s.jobs) + 1)
	job.CreatedAt = s.now()
	s.jobs = append(s.jobs, *job)
	return strconv.FormatUint(uint64(job.ID), 10), nil
}

func (s *MemoryStore) Close() error { return nil }
