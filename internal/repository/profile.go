package repository

import (
	"context"
	"errors"

	"devconnector/internal/cache"
	"devconnector/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Mutate(ctx context.Context, userID uint, fn func(*models.Profile) error) (*models.Profile, error)
}

type profileRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB, c *cache.Cache) ProfileRepository {
	return &profileRepository{db: db, cache: c}
}

// withOwner populates the owner's public fields.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "avatar")
	})
}

func (r *profileRepository) load(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := withOwner(db).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.cache.Aside(ctx, "profile", cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		p, err := r.load(r.db.WithContext(ctx), userID)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns profiles in creation order. A non-positive limit returns all.
func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	q := withOwner(r.db.WithContext(ctx)).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	profile.Version = 1
	if err := r.db.WithContext(ctx).Omit("User").Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Profile already exists")
		}
		return models.NewInternalError(err)
	}
	r.cache.Invalidate(ctx, cache.ProfileKey(profile.UserID))
	return nil
}

// Mutate applies fn to the user's profile and saves it with a version check,
// retrying on concurrent writes.
func (r *profileRepository) Mutate(ctx context.Context, userID uint, fn func(*models.Profile) error) (*models.Profile, error) {
	profile, err := mutateVersioned(ctx, r.db, "profiles",
		func(tx *gorm.DB) (*models.Profile, error) { return r.load(tx, userID) },
		func(p *models.Profile) *int { return &p.Version },
		fn,
		"UserID", "Date",
	)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(ctx, cache.ProfileKey(userID))
	return profile, nil
}
