package service

import (
	"context"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"gorm.io/datatypes"
)

// LikeDirection selects between liking and unliking.
type LikeDirection int

const (
	Like LikeDirection = iota
	Unlike
)

type PostService struct {
	postRepo repository.PostRepository
}

// Author is the denormalized identity copied onto posts and comments.
type Author struct {
	UserID uint
	Name   string
	Avatar string
}

type CreatePostInput struct {
	Author
	Text string
}

type AddCommentInput struct {
	Author
	PostID uint
	Text   string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validateText(text string) error {
	return validation.New().Required("text", text, "Text is required").Err()
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateText(in.Text); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		Text:     in.Text,
		Name:     in.Name,
		Avatar:   in.Avatar,
		Likes:    datatypes.JSONSlice[models.Like]{},
		Comments: datatypes.JSONSlice[models.Comment]{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post written by requesterID.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("User not authorised")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes or unlikes the post and returns the resulting likes.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint, dir LikeDirection) ([]models.Like, error) {
	post, err := s.postRepo.Mutate(ctx, postID, func(p *models.Post) error {
		if dir == Unlike {
			return p.RemoveLike(userID)
		}
		return p.AddLike(userID)
	})
	if err != nil {
		return nil, err
	}
	return nonNil(post.Likes), nil
}

// AddComment puts a new comment at the head of the thread.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) ([]models.Comment, error) {
	if err := validateText(in.Text); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     models.NewEntryID(),
		User:   in.UserID,
		Text:   in.Text,
		Name:   in.Name,
		Avatar: in.Avatar,
		Date:   time.Now().UTC(),
	}
	post, err := s.postRepo.Mutate(ctx, in.PostID, func(p *models.Post) error {
		p.PrependComment(comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonNil(post.Comments), nil
}

// RemoveComment deletes the comment identified by commentID when requesterID wrote it.
func (s *PostService) RemoveComment(ctx context.Context, postID uint, commentID models.EntryID, requesterID uint) ([]models.Comment, error) {
	post, err := s.postRepo.Mutate(ctx, postID, func(p *models.Post) error {
		return p.RemoveComment(commentID, requesterID)
	})
	if err != nil {
		return nil, err
	}
	return nonNil(post.Comments), nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
