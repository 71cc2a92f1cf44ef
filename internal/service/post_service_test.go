package service

import (
	"context"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	repo := inMemoryPost(nil)
	svc := NewPostService(repo)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostInput{Author: Author{UserID: 1}, Text: "   "})
	assert.ErrorIs(t, err, models.NewValidationError("Text is required"))

	post, err := svc.CreatePost(ctx, CreatePostInput{
		Author: Author{UserID: 1, Name: "Alice", Avatar: "//avatar"},
		Text:   "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", post.Name)
	assert.Equal(t, "//avatar", post.Avatar)
	assert.NotNil(t, post.Likes)
	assert.NotNil(t, post.Comments)
}

func TestPostService_DeletePost(t *testing.T) {
	svc := NewPostService(inMemoryPost(&models.Post{ID: 1, UserID: 10, Text: "x"}))
	ctx := context.Background()

	err := svc.DeletePost(ctx, 1, 11)
	assert.ErrorIs(t, err, models.NewForbiddenError("User not authorised"))

	assertCode(t, svc.DeletePost(ctx, 2, 10), models.CodeNotFound)

	require.NoError(t, svc.DeletePost(ctx, 1, 10))
	_, err = svc.Get(ctx, 1)
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_ToggleLike(t *testing.T) {
	svc := NewPostService(inMemoryPost(&models.Post{ID: 1, UserID: 10}))
	ctx := context.Background()

	likes, err := svc.ToggleLike(ctx, 1, 20, Like)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 20}}, likes)

	_, err = svc.ToggleLike(ctx, 1, 20, Like)
	assert.ErrorIs(t, err, models.ErrAlreadyLiked)
	post, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, post.Likes, 1, "a rejected like leaves the list unchanged")

	likes, err = svc.ToggleLike(ctx, 1, 30, Like)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 30}, {User: 20}}, likes)

	likes, err = svc.ToggleLike(ctx, 1, 20, Unlike)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: 30}}, likes)

	_, err = svc.ToggleLike(ctx, 1, 20, Unlike)
	assert.ErrorIs(t, err, models.ErrNotLiked)

	likes, err = svc.ToggleLike(ctx, 1, 30, Unlike)
	require.NoError(t, err)
	assert.NotNil(t, likes)
	assert.Empty(t, likes)

	_, err = svc.ToggleLike(ctx, 9, 30, Like)
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Comments(t *testing.T) {
	svc := NewPostService(inMemoryPost(&models.Post{ID: 1, UserID: 10}))
	ctx := context.Background()

	_, err := svc.AddComment(ctx, AddCommentInput{Author: Author{UserID: 20}, PostID: 1})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.AddComment(ctx, AddCommentInput{Author: Author{UserID: 20}, PostID: 2, Text: "hi"})
	assertCode(t, err, models.CodeNotFound)

	comments, err := svc.AddComment(ctx, AddCommentInput{Author: Author{UserID: 20, Name: "Bob"}, PostID: 1, Text: "first"})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	first := comments[0]
	assert.Equal(t, "Bob", first.Name)
	assert.False(t, first.Date.IsZero())

	comments, err = svc.AddComment(ctx, AddCommentInput{Author: Author{UserID: 30, Name: "Carol"}, PostID: 1, Text: "second"})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	second := comments[0]
	assert.Equal(t, "second", second.Text, "new comments go first")

	_, err = svc.RemoveComment(ctx, 1, second.ID, 20)
	assert.ErrorIs(t, err, models.NewForbiddenError("User not authorised to delete the comment"))

	_, err = svc.RemoveComment(ctx, 1, "missing", 20)
	assert.ErrorIs(t, err, models.NewNotFoundError("Comment"))

	// Removing Bob's comment must not touch Carol's, which sits before it.
	comments, err = svc.RemoveComment(ctx, 1, first.ID, 20)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, second.ID, comments[0].ID)
}

func TestPostService_ListNewestFirst(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "Alice", "a@x.com")

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.posts.CreatePost(ctx, CreatePostInput{Author: Author{UserID: id, Name: "Alice"}, Text: text})
		require.NoError(t, err)
	}

	posts, err := s.posts.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "three", posts[0].Text)
	assert.Equal(t, "two", posts[1].Text)
}
