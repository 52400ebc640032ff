package domain

import (
	"context"
	"time"
)

// Topic is a note owned by exactly one user. UserID is assigned at
// creation and never changes; it is the sole authorization anchor.
type Topic struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	UserID      string    `gorm:"index;size:32;not null" json:"user_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Topic) TableName() string { return "topics" }

type TopicUpdate struct {
	Title       *string
	Description *string
}

type TopicRepository interface {
	Create(ctx context.Context, t *Topic) error
	FindByID(ctx context.Context, id string) (*Topic, error)
	FindAllForUser(ctx context.Context, userID string) ([]Topic, error)
	Update(ctx context.Context, id string, upd TopicUpdate) (*Topic, error)
	Delete(ctx context.Context, id string) error
}
