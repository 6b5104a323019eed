package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatebook-backend/internal/domain"
)

var ErrContentRequired = errors.New("Feedback content is required")
var ErrFeedbackNotFound = errors.New("Feedback not found")

// Service manages the developer-notes feedback list on the landing screen.
type Service struct {
	DB *gorm.DB
}

// CreateFeedback files a new open note.
func (s *Service) CreateFeedback(ctx context.Context, content string) (*domain.Feedback, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	fb := &domain.Feedback{
		ID:        uuid.New(),
		Content:   content,
		Status:    "open",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, fmt.Errorf("Failed to create feedback: %v", err)
	}
	return fb, nil
}

// ListFeedbacks returns all notes, newest first.
func (s *Service) ListFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	var items []domain.Feedback
	if err := s.DB.WithContext(ctx).Order(`"createdAt" DESC`).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch feedbacks: %v", err)
	}
	return items, nil
}

// DeleteFeedback removes a resolved note.
func (s *Service) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Feedback{})
	if res.Error != nil {
		return fmt.Errorf("Failed to delete feedback: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
