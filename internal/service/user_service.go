// Package service holds the business rules between handlers and repositories.
package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"
)

// Credentials hashes passwords and issues tokens. *auth.Credentials satisfies it.
type Credentials interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, digest string) bool
	IssueToken(userID uint) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	creds    Credentials
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewUserService(userRepo repository.UserRepository, creds Credentials) *UserService {
	return &UserService{userRepo: userRepo, creds: creds}
}

// Register creates an account and returns a token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	err := validation.New().
		Required("name", in.Name, "Name is required").
		Email("email", in.Email, "Please include a valid email").
		MinLength("password", in.Password, validation.MinPasswordLength, "Please enter a password with 6 or more characters").
		MaxBytes("password", in.Password, validation.MaxPasswordBytes, "Password must be at most 72 bytes").
		Err()
	if err != nil {
		return "", err
	}

	email := validation.NormalizeEmail(in.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("User already exists")
	}

	digest, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    email,
		Password: digest,
		Avatar:   GravatarURL(email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.issue(user.ID)
}

// Login checks the email and password and returns a fresh token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	err := validation.New().
		Email("email", in.Email, "Please include a valid email").
		Required("password", in.Password, "Password is required").
		Err()
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		return "", err
	}
	if user == nil || !s.creds.VerifyPassword(in.Password, user.Password) {
		return "", models.NewValidationError("Invalid credentials")
	}

	return s.issue(user.ID)
}

func (s *UserService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) issue(userID uint) (string, error) {
	token, err := s.creds.IssueToken(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// GravatarURL returns the protocol-relative avatar URL for email:
// 200px, rated pg, mystery-man fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(validation.NormalizeEmail(email)))
	return fmt.Sprintf("//www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
