package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/models"
)

var errIncompletePosting = errors.New("job posting is incomplete")

// JobService stores completed postings through gorm.
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

// Save inserts one row per completed conversation; the database assigns
// the id and creation time.
func (s *JobService) Save(ctx context.Context, fields chat.FieldSet) (string, error) {
	if !fields.Complete() {
		return "", fmt.Errorf("%w: missing %v", errIncompletePosting, fields.Missing())
	}

	job := models.NewJobPosting(fields)
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return "", fmt.Errorf("insert job posting: %w", err)
	}
	return strconv.FormatUint(uint64(job.ID), 10), nil
}

func (s *JobService) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
