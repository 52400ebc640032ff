package service

import (
	"context"
	"errors"
	"time"

	"duso-api/internal/domain"
)

var errStoreDown = errors.New("connection refused")

// In-memory UserRepository double. An email index mirrors the unique
// constraint the real store enforces.
type mockUserRepo struct {
	users   map[string]*domain.User
	byEmail map[string]*domain.User
	failAll bool

	// vanishOnWrite makes the write methods report the row as gone,
	// as when a concurrent delete lands between the existence check
	// and the update.
	vanishOnWrite bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if r.failAll {
		return errStoreDown
	}
	if _, taken := r.byEmail[u.Email]; taken {
		return domain.Validation("Email already registered")
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.users[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	if r.vanishOnWrite {
		return nil, nil
	}
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	if upd.Email != nil {
		if other, taken := r.byEmail[*upd.Email]; taken && other.ID != id {
			return nil, domain.Validation("Email already registered")
		}
		delete(r.byEmail, u.Email)
		u.Email = *upd.Email
		r.byEmail[u.Email] = u
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.PhoneNumber != nil {
		u.PhoneNumber = *upd.PhoneNumber
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.Preferences != nil {
		u.Preferences = upd.Preferences
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) UpdateLoginInfo(ctx context.Context, id string, success bool) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	if r.vanishOnWrite {
		return nil, nil
	}
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	now := time.Now().UTC()
	if success {
		u.LastLogin = &now
		u.FailedLoginAttempts = 0
	} else {
		u.FailedLoginAttempts++
	}
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) VerifyEmail(ctx context.Context, id string) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	if r.vanishOnWrite {
		return nil, nil
	}
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	u.IsEmailVerified = true
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) UpdatePreferences(ctx context.Context, id string, prefs domain.JSONMap) (*domain.User, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	if r.vanishOnWrite {
		return nil, nil
	}
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	u.Preferences = prefs
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if r.failAll {
		return nil, 0, errStoreDown
	}
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

type mockTopicRepo struct {
	topics        map[string]*domain.Topic
	failAll       bool
	vanishOnWrite bool
}

func newMockTopicRepo() *mockTopicRepo {
	return &mockTopicRepo{topics: make(map[string]*domain.Topic)}
}

func (r *mockTopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	if r.failAll {
		return errStoreDown
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *mockTopicRepo) FindByID(ctx context.Context, id string) (*domain.Topic, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	t, ok := r.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *mockTopicRepo) FindAllForUser(ctx context.Context, userID string) ([]domain.Topic, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	var out []domain.Topic
	for _, t := range r.topics {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *mockTopicRepo) Update(ctx context.Context, id string, upd domain.TopicUpdate) (*domain.Topic, error) {
	if r.failAll {
		return nil, errStoreDown
	}
	if r.vanishOnWrite {
		return nil, nil
	}
	t := r.topics[id]
	if t == nil {
		return nil, nil
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (r *mockTopicRepo) Delete(ctx context.Context, id string) error {
	if r.failAll {
		return errStoreDown
	}
	delete(r.topics, id)
	return nil
}
