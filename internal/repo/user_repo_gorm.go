package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"duso-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// isDupKey matches unique-constraint violations across drivers. The
// unique index on users.email is the real enforcement point for the
// check-then-insert race, so this must stay distinguishable from other
// store failures.
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.Validation("Email already registered")
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	set := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.FullName != nil {
		set["full_name"] = *upd.FullName
	}
	if upd.PhoneNumber != nil {
		set["phone_number"] = *upd.PhoneNumber
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.Preferences != nil {
		set["preferences"] = upd.Preferences
	}
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(set).Error
	if err != nil {
		if isDupKey(err) {
			return nil, domain.Validation("Email already registered")
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) UpdateLoginInfo(ctx context.Context, id string, success bool) (*domain.User, error) {
	now := time.Now().UTC()
	var set map[string]any
	if success {
		set = map[string]any{
			"last_login":            now,
			"failed_login_attempts": 0,
			"updated_at":            now,
		}
	} else {
		set = map[string]any{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			"updated_at":            now,
		}
	}
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(set).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) VerifyEmail(ctx context.Context, id string) (*domain.User, error) {
	set := map[string]any{
		"is_email_verified": true,
		"updated_at":        time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(set).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) UpdatePreferences(ctx context.Context, id string, prefs domain.JSONMap) (*domain.User, error) {
	set := map[string]any{
		"preferences": prefs,
		"updated_at":  time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(set).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
