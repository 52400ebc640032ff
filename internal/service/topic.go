package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"duso-api/internal/core/cache"
	"duso-api/internal/domain"
	"duso-api/pkg/utils"
)

const topicCacheTTL = 5 * time.Minute

// TopicService wraps topic CRUD with ownership checks: only the owning
// user's session may read, update or delete a topic. A cross-user hit
// reports not-found so topic existence does not leak.
type TopicService struct {
	repo  domain.TopicRepository
	cache *cache.Cache // optional, nil disables caching
	log   *zap.Logger
}

func NewTopicService(repo domain.TopicRepository, c *cache.Cache, log *zap.Logger) *TopicService {
	return &TopicService{repo: repo, cache: c, log: log}
}

func topicCacheKey(id string) string { return "topic:" + id }

func (s *TopicService) Create(ctx context.Context, userID, title, description string) (domain.Topic, error) {
	t := &domain.Topic{
		ID:          utils.NewID(),
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return domain.Topic{}, domain.Wrap(err, "failed to create topic")
	}
	return *t, nil
}

func (s *TopicService) Get(ctx context.Context, id, callerID string) (domain.Topic, error) {
	t, err := s.findCached(ctx, id)
	if err != nil {
		return domain.Topic{}, domain.Wrap(err, "failed to get topic")
	}
	if t == nil || t.UserID != callerID {
		return domain.Topic{}, domain.NotFound("Topic", id)
	}
	return *t, nil
}

func (s *TopicService) ListForUser(ctx context.Context, userID string) ([]domain.Topic, error) {
	topics, err := s.repo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(err, "failed to get user topics")
	}
	return topics, nil
}

func (s *TopicService) Update(ctx context.Context, id, callerID string, upd domain.TopicUpdate) (domain.Topic, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Topic{}, domain.Wrap(err, "failed to update topic")
	}
	if existing == nil || existing.UserID != callerID {
		return domain.Topic{}, domain.NotFound("Topic", id)
	}

	t, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.Topic{}, domain.Wrap(err, "failed to update topic")
	}
	if t == nil {
		// deleted between the ownership check and the write
		return domain.Topic{}, domain.NotFound("Topic", id)
	}
	s.invalidate(ctx, id)
	return *t, nil
}

func (s *TopicService) Delete(ctx context.Context, id, callerID string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Wrap(err, "failed to delete topic")
	}
	if existing == nil || existing.UserID != callerID {
		return domain.NotFound("Topic", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.Wrap(err, "failed to delete topic")
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *TopicService) findCached(ctx context.Context, id string) (*domain.Topic, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON[domain.Topic](s.cache, ctx, topicCacheKey(id), topicCacheTTL,
		func(ctx context.Context) (*domain.Topic, error) {
			return s.repo.FindByID(ctx, id)
		})
}

func (s *TopicService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, topicCacheKey(id))
	}
}
