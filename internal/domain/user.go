package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// JSONMap stores an opaque key-value document in a single column. The
// service layer never looks inside it.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported preferences column type %T", value)
	}
	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

type User struct {
	ID                  string     `gorm:"primaryKey;size:32" json:"id"`
	Email               string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FullName            string     `gorm:"size:100;not null" json:"full_name"`
	PhoneNumber         string     `gorm:"size:15" json:"phone_number,omitempty"`
	Role                string     `gorm:"size:16;not null;default:user" json:"role"`
	HashedPassword      string     `gorm:"size:100;not null" json:"-"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	IsEmailVerified     bool       `gorm:"not null;default:false" json:"is_email_verified"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	Preferences         JSONMap    `gorm:"type:text" json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserView is the public projection returned over the wire. It never
// carries the password hash or the failed-attempt counter.
type UserView struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	Preferences     JSONMap    `json:"preferences"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) View() UserView {
	prefs := u.Preferences
	if prefs == nil {
		prefs = JSONMap{}
	}
	return UserView{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		PhoneNumber:     u.PhoneNumber,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		Preferences:     prefs,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// UserUpdate carries the optional fields of a PUT /users/:id. Nil means
// "leave unchanged".
type UserUpdate struct {
	Email       *string
	FullName    *string
	PhoneNumber *string
	Role        *string
	IsActive    *bool
	Preferences JSONMap
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	// UpdateLoginInfo resets the failed-attempt counter and stamps
	// last_login on success, increments the counter on failure.
	UpdateLoginInfo(ctx context.Context, id string, success bool) (*User, error)
	VerifyEmail(ctx context.Context, id string) (*User, error)
	UpdatePreferences(ctx context.Context, id string, prefs JSONMap) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
}
