package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"duso-api/internal/core/cache"
	"duso-api/internal/domain"
)

const userCacheTTL = 5 * time.Minute

type UserService struct {
	repo  domain.UserRepository
	cache *cache.Cache // optional, nil disables caching
	log   *zap.Logger
}

func NewUserService(repo domain.UserRepository, c *cache.Cache, log *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: c, log: log}
}

func userCacheKey(id string) string { return "user:" + id }

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userCacheKey(id))
	}
}

// Get returns the public projection, read through the cache when one is
// configured.
func (s *UserService) Get(ctx context.Context, id string) (domain.UserView, error) {
	if s.cache == nil {
		return s.getFromStore(ctx, id)
	}
	v, err := cache.GetOrLoadJSON[domain.UserView](s.cache, ctx, userCacheKey(id), userCacheTTL,
		func(ctx context.Context) (*domain.UserView, error) {
			view, err := s.getFromStore(ctx, id)
			if err != nil {
				return nil, err
			}
			return &view, nil
		})
	if err != nil {
		return domain.UserView{}, err
	}
	return *v, nil
}

func (s *UserService) getFromStore(ctx context.Context, id string) (domain.UserView, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to get user")
	}
	if u == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	return u.View(), nil
}

// GetRecord returns the full user row, password hash included. For
// internal callers only (the auth middleware); never serialized.
func (s *UserService) GetRecord(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Wrap(err, "failed to get user")
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, upd domain.UserUpdate) (domain.UserView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update user")
	}
	if existing == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}

	// Email change needs its own uniqueness check before the write.
	if upd.Email != nil && *upd.Email != existing.Email {
		taken, err := s.repo.FindByEmail(ctx, *upd.Email)
		if err != nil {
			return domain.UserView{}, domain.Wrap(err, "failed to update user")
		}
		if taken != nil {
			return domain.UserView{}, domain.Validation("Email already registered")
		}
	}

	u, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update user")
	}
	if u == nil {
		// deleted between the existence check and the write
		return domain.UserView{}, domain.NotFound("User", id)
	}
	s.invalidate(ctx, id)
	return u.View(), nil
}

func (s *UserService) UpdateLoginInfo(ctx context.Context, id string, success bool) (domain.UserView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update login info")
	}
	if existing == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	u, err := s.repo.UpdateLoginInfo(ctx, id, success)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update login info")
	}
	if u == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	s.invalidate(ctx, id)
	return u.View(), nil
}

func (s *UserService) VerifyEmail(ctx context.Context, id string) (domain.UserView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to verify email")
	}
	if existing == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	u, err := s.repo.VerifyEmail(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to verify email")
	}
	if u == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	s.invalidate(ctx, id)
	return u.View(), nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, id string, prefs domain.JSONMap) (domain.UserView, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update preferences")
	}
	if existing == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	u, err := s.repo.UpdatePreferences(ctx, id, prefs)
	if err != nil {
		return domain.UserView{}, domain.Wrap(err, "failed to update preferences")
	}
	if u == nil {
		return domain.UserView{}, domain.NotFound("User", id)
	}
	s.invalidate(ctx, id)
	return u.View(), nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.UserView, int64, error) {
	users, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Wrap(err, "failed to list users")
	}
	views := make([]domain.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, total, nil
}
