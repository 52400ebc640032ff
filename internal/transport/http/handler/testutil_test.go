package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	coreauth "duso-api/internal/core/auth"
	"duso-api/internal/core/config"
	"duso-api/internal/domain"
	"duso-api/internal/service"
	"duso-api/internal/transport/http/router"
)

const testTTLMin = 60 * 24 * 8

func testConfig() *config.Config {
	return &config.Config{
		App:       config.App{Name: "Duso API", Env: config.EnvDevelopment, Debug: true},
		JWT:       config.JWT{Secret: "test-secret", Issuer: "duso-api", AccessTokenTTLMin: testTTLMin},
		Cookie:    config.Cookie{Secure: false, SameSite: "lax"},
		CORS:      config.CORS{Origins: []string{"*"}},
		RateLimit: config.RateLimit{PerMinute: 600000, Burst: 10000},
	}
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

type fixture struct {
	api    *gin.Engine
	admin  *gin.Engine
	users  *memUserRepo
	topics *memTopicRepo
	jwter  *coreauth.JWTer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := zap.NewNop()
	jwter := &coreauth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	users := newMemUserRepo()
	topics := newMemTopicRepo()

	deps := router.Deps{
		Cfg:    cfg,
		Log:    log,
		JWTer:  jwter,
		Auth:   service.NewAuthService(users, jwter, log),
		Users:  service.NewUserService(users, nil, log),
		Topics: service.NewTopicService(topics, nil, log),
	}
	return &fixture{
		api:    router.NewAPIEngine(deps),
		admin:  router.NewAdminEngine(deps),
		users:  users,
		topics: topics,
		jwter:  jwter,
	}
}

func (f *fixture) do(t *testing.T, engine *gin.Engine, method, path, contentType string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	return f.do(t, f.api, method, path, "application/json", strings.NewReader(body), token)
}

func (f *fixture) doForm(t *testing.T, path, form string) *httptest.ResponseRecorder {
	return f.do(t, f.api, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form), "")
}

func newRecorderFor(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.api.ServeHTTP(w, req)
	return w
}

const signupBody = `{"email":"a@x.com","password":"Abc12345!","confirm_password":"Abc12345!","full_name":"Alice Example"}`

func (f *fixture) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	body := strings.ReplaceAll(signupBody, "a@x.com", email)
	w := f.doJSON(t, http.MethodPost, "/api/v1/auth/signup", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", w.Code, w.Body.String())
	}
	lw := f.doForm(t, "/api/v1/auth/login", "username="+email+"&password=Abc12345!")
	if lw.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", lw.Code, lw.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, lw, &out)
	return out.AccessToken
}

// In-memory repositories, same contract the gorm ones honor.

type memUserRepo struct {
	users   map[string]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, taken := r.byEmail[u.Email]; taken {
		return domain.Validation("Email already registered")
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.users[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	if upd.Email != nil {
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

func (r *memUserRepo) UpdateLoginInfo(ctx context.Context, id string, success bool) (*domain.User, error) {
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

func (r *memUserRepo) VerifyEmail(ctx context.Context, id string) (*domain.User, error) {
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	u.IsEmailVerified = true
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdatePreferences(ctx context.Context, id string, prefs domain.JSONMap) (*domain.User, error) {
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	u.Preferences = prefs
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type memTopicRepo struct {
	topics map[string]*domain.Topic
}

func newMemTopicRepo() *memTopicRepo { return &memTopicRepo{topics: map[string]*domain.Topic{}} }

func (r *memTopicRepo) Create(ctx context.Context, tp *domain.Topic) error {
	now := time.Now().UTC()
	tp.CreatedAt, tp.UpdatedAt = now, now
	cp := *tp
	r.topics[tp.ID] = &cp
	return nil
}

func (r *memTopicRepo) FindByID(ctx context.Context, id string) (*domain.Topic, error) {
	tp, ok := r.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *tp
	return &cp, nil
}

func (r *memTopicRepo) FindAllForUser(ctx context.Context, userID string) ([]domain.Topic, error) {
	var out []domain.Topic
	for _, tp := range r.topics {
		if tp.UserID == userID {
			out = append(out, *tp)
		}
	}
	return out, nil
}

func (r *memTopicRepo) Update(ctx context.Context, id string, upd domain.TopicUpdate) (*domain.Topic, error) {
	tp := r.topics[id]
	if tp == nil {
		return nil, nil
	}
	if upd.Title != nil {
		tp.Title = *upd.Title
	}
	if upd.Description != nil {
		tp.Description = *upd.Description
	}
	tp.UpdatedAt = time.Now().UTC()
	cp := *tp
	return &cp, nil
}

func (r *memTopicRepo) Delete(ctx context.Context, id string) error {
	delete(r.topics, id)
	return nil
}
