package service

import (
	"context"
	"errors"

	"devconnector/internal/models"
	"devconnector/internal/repository"

	"gorm.io/datatypes"
)

var errProfileNotFound = models.NewNotFoundError("Profile")

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo}
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, errProfileNotFound) {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "There is no profile for this user"}
	}
	return profile, err
}

func (s *ProfileService) ByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// Upsert merges in into the user's profile, creating it when absent.
// A create that loses the race to another create falls back to a merge.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		profile, err := s.profileRepo.Mutate(ctx, userID, func(p *models.Profile) error {
			in.apply(p)
			return nil
		})
		if !errors.Is(err, errProfileNotFound) {
			return profile, err
		}

		owner, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		profile = &models.Profile{
			UserID:     userID,
			Skills:     datatypes.JSONSlice[string]{},
			Experience: datatypes.JSONSlice[models.Experience]{},
			Education:  datatypes.JSONSlice[models.Education]{},
		}
		in.apply(profile)

		err = s.profileRepo.Create(ctx, profile)
		if err == nil {
			profile.User = &models.User{ID: owner.ID, Name: owner.Name, Avatar: owner.Avatar}
			return profile, nil
		}
		if !errors.Is(err, &models.AppError{Code: models.CodeConflict}) {
			return nil, err
		}
	}
	return nil, models.ErrWriteConflict
}

// AddExperience puts a new experience entry at the head of the list.
func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry := in.entry(models.NewEntryID())
	return s.profileRepo.Mutate(ctx, userID, func(p *models.Profile) error {
		p.PrependExperience(entry)
		return nil
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, id models.EntryID) (*models.Profile, error) {
	return s.profileRepo.Mutate(ctx, userID, func(p *models.Profile) error {
		if !p.RemoveExperience(id) {
			return models.NewNotFoundError("Experience")
		}
		return nil
	})
}

// AddEducation puts a new education entry at the head of the list.
func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (*models.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	entry := in.entry(models.NewEntryID())
	return s.profileRepo.Mutate(ctx, userID, func(p *models.Profile) error {
		p.PrependEducation(entry)
		return nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID uint, id models.EntryID) (*models.Profile, error) {
	return s.profileRepo.Mutate(ctx, userID, func(p *models.Profile) error {
		if !p.RemoveEducation(id) {
			return models.NewNotFoundError("Education")
		}
		return nil
	})
}

// DeleteAccount removes the user's posts, profile and account atomically.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.DeleteWithContent(ctx, userID)
}
