package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a developer note filed from the landing screen (bug report or
// feature request). Deleted once resolved.
type Feedback struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Feedback) TableName() string {
	return "Feedbacks"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
