package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	deleteWithContentFn func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) DeleteWithContent(ctx context.Context, id uint) error {
	return s.deleteWithContentFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:            func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		deleteWithContentFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]*models.Post, error)
	deleteFn  func(context.Context, uint) error
	mutateFn  func(context.Context, uint, func(*models.Post) error) (*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Mutate(ctx context.Context, id uint, fn func(*models.Post) error) (*models.Post, error) {
	return s.mutateFn(ctx, id, fn)
}

// inMemoryPost backs a postRepoStub with a single post.
func inMemoryPost(post *models.Post) *postRepoStub {
	find := func(id uint) (*models.Post, error) {
		if post == nil || post.ID != id {
			return nil, models.NewNotFoundError("Post")
		}
		return post, nil
	}
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = 1; post = p; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return find(id) },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return []*models.Post{post}, nil },
		deleteFn: func(_ context.Context, id uint) error {
			if _, err := find(id); err != nil {
				return err
			}
			post = nil
			return nil
		},
		mutateFn: func(_ context.Context, id uint, fn func(*models.Post) error) (*models.Post, error) {
			p, err := find(id)
			if err != nil {
				return nil, err
			}
			working := *p
			if err := fn(&working); err != nil {
				return nil, err
			}
			*p = working
			return p, nil
		},
	}
}

func testCredentials() *auth.Credentials {
	return auth.NewCredentials(testSecret, time.Hour, 4)
}

// stack wires the real repositories over a fresh SQLite database.
type stack struct {
	users    *UserService
	profiles *ProfileService
	posts    *PostService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db, nil)
	profileRepo := repository.NewProfileRepository(db, nil)
	return &stack{
		users:    NewUserService(userRepo, testCredentials()),
		profiles: NewProfileService(profileRepo, userRepo),
		posts:    NewPostService(repository.NewPostRepository(db)),
	}
}

// register creates an account and returns its id.
func (s *stack) register(t *testing.T, name, email string) uint {
	t.Helper()
	token, err := s.users.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	id, err := testCredentials().VerifyToken(token)
	require.NoError(t, err)
	return id
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
