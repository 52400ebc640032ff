package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"duso-api/internal/domain"
)

type TopicRepo struct{ db *gorm.DB }

func NewTopicRepo(db *gorm.DB) *TopicRepo { return &TopicRepo{db: db} }

func (r *TopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TopicRepo) FindByID(ctx context.Context, id string) (*domain.Topic, error) {
	var t domain.Topic
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TopicRepo) FindAllForUser(ctx context.Context, userID string) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&topics).Error
	return topics, err
}

func (r *TopicRepo) Update(ctx context.Context, id string, upd domain.TopicUpdate) (*domain.Topic, error) {
	set := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if err := r.db.WithContext(ctx).Model(&domain.Topic{}).Where("id = ?", id).Updates(set).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Topic{}).Error
}
