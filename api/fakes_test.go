package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectingdots/blog-backend/auth"
	"github.com/connectingdots/blog-backend/database"
	"github.com/connectingdots/blog-backend/media"
	"github.com/connectingdots/blog-backend/models"
)

// In-memory fakes for the store interfaces. Using fakes rather than a
// mock framework keeps the tests readable: what the fake does is on the
// page.

type fakeUserStore struct {
	users   map[uuid.UUID]*models.User
	addErr  error
	findErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) seed(user models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.users[user.ID] = &user
	return &user
}

func (f *fakeUserStore) FindAll() ([]models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) FindByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByIdentifier(identifier string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || (u.Email != nil && *u.Email == identifier) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UsernameOrEmailTaken(username string, email *string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
		if email != nil && *email != "" && u.Email != nil && *u.Email == *email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Add(user *models.User) error {
	if f.addErr != nil {
		return f.addErr
	}
	if taken, _ := f.UsernameOrEmailTaken(user.Username, user.Email); taken {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(user *models.User) error {
	for id, u := range f.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	user.UpdatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(id uuid.UUID, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeUserStore) Delete(id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeBlogStore struct {
	blogs   map[uuid.UUID]*models.Blog
	findErr error
	seq     int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{blogs: make(map[uuid.UUID]*models.Blog)}
}

func (f *fakeBlogStore) seed(blog models.Blog) *models.Blog {
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	f.seq++
	blog.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	blog.UpdatedAt = blog.CreatedAt
	f.blogs[blog.ID] = &blog
	return &blog
}

func (f *fakeBlogStore) FindAll(filter database.BlogFilter) ([]models.Blog, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Blog
	for _, b := range f.blogs {
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && string(b.Subcategory) != filter.Subcategory {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		if filter.Author != "" && b.Author != filter.Author {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Skip > 0 {
		if filter.Skip >= len(out) {
			return nil, nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeBlogStore) FindByID(id uuid.UUID) (*models.Blog, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	b, ok := f.blogs[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBlogStore) FindBySlug(s string) (*models.Blog, error) {
	for _, b := range f.blogs {
		if b.Slug == s {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBlogStore) SlugTaken(candidate string, excludeID *uuid.UUID) (bool, error) {
	for _, b := range f.blogs {
		if b.Slug != candidate {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeBlogStore) Add(blog *models.Blog) error {
	// the fake enforces the slug unique index the way postgres would
	if taken, _ := f.SlugTaken(blog.Slug, nil); taken {
		return fmt.Errorf("duplicate key value violates unique constraint \"idx_blogs_slug\"")
	}
	blog.ID = uuid.New()
	f.seq++
	blog.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	blog.UpdatedAt = blog.CreatedAt
	copied := *blog
	f.blogs[blog.ID] = &copied
	return nil
}

func (f *fakeBlogStore) Update(blog *models.Blog) error {
	if taken, _ := f.SlugTaken(blog.Slug, &blog.ID); taken {
		return fmt.Errorf("duplicate key value violates unique constraint \"idx_blogs_slug\"")
	}
	blog.UpdatedAt = time.Now()
	copied := *blog
	f.blogs[blog.ID] = &copied
	return nil
}

func (f *fakeBlogStore) Delete(id uuid.UUID) error {
	delete(f.blogs, id)
	return nil
}

type fakeMediaStore struct {
	uploads    int
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func (f *fakeMediaStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*media.Asset, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	key := fmt.Sprintf("blog-images/%d-%s", f.uploads, filename)
	return &media.Asset{
		URL:      "https://cdn.test/" + key,
		PublicID: key,
	}, nil
}

func (f *fakeMediaStore) Destroy(ctx context.Context, publicID string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	if publicID != "" {
		f.destroyed = append(f.destroyed, publicID)
	}
	return nil
}

func claimsAs(userID uuid.UUID, username string, role models.Role) *auth.Claims {
	return &auth.Claims{UserID: userID, Username: username, Role: role}
}

// withClaims attaches verified claims the way the auth middleware would.
func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(ctxWithClaims(r.Context(), claims))
}

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonUnmarshal(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func doRequest(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceWithCost(bcrypt.MinCost)
}

func testTokens() *auth.TokenService {
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	if err != nil {
		panic(err)
	}
	return tokens
}
