// Package seed fills the database with demo data for development. Everything
// is written through the services so seeded documents obey the same rules
// as API traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"
	"devconnector/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "devconnector"

// Default demo sizes, used by cmd/seed and by startup seeding.
const (
	DefaultNumUsers = 20
	DefaultNumPosts = 60
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed int64
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Profiles int
	Posts    int
	Likes    int
	Comments int
}

var statuses = []string{
	"Developer", "Junior Developer", "Senior Developer", "Manager",
	"Student or Learning", "Instructor or Teacher", "Intern", "Other",
}

// Seeder writes demo users, profiles and posts.
type Seeder struct {
	db       *gorm.DB
	cache    *cache.Cache
	creds    *auth.Credentials
	users    *service.UserService
	profiles *service.ProfileService
	posts    *service.PostService
	faker    *gofakeit.Faker
}

// NewSeeder builds a Seeder over db using creds for password digests.
// c is the cache a running server reads through; it may be nil.
func NewSeeder(db *gorm.DB, c *cache.Cache, creds *auth.Credentials, opts Options) *Seeder {
	userRepo := repository.NewUserRepository(db, c)
	return &Seeder{
		db:       db,
		cache:    c,
		creds:    creds,
		users:    service.NewUserService(userRepo, creds),
		profiles: service.NewProfileService(repository.NewProfileRepository(db, c), userRepo),
		posts:    service.NewPostService(repository.NewPostRepository(db)),
		faker:    gofakeit.New(opts.Seed),
	}
}

// ClearAll deletes every post, profile and user, and drops the cached
// documents of the deleted users.
func (s *Seeder) ClearAll(ctx context.Context) error {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	session := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
		if err := session.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}

	for _, id := range ids {
		s.cache.InvalidateUser(ctx, id)
	}
	return nil
}

// Run creates opts.NumUsers accounts with profiles and opts.NumPosts posts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return sum, err
		}
	}

	authors := make([]service.Author, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		author, err := s.createUser(ctx, i)
		if err != nil {
			return sum, err
		}
		authors = append(authors, author)
		sum.Users++

		if err := s.createProfile(ctx, author.UserID); err != nil {
			return sum, err
		}
		sum.Profiles++
	}
	if len(authors) == 0 {
		return sum, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		likes, comments, err := s.createPost(ctx, authors)
		if err != nil {
			return sum, err
		}
		sum.Posts++
		sum.Likes += likes
		sum.Comments += comments
	}

	observability.Logger.InfoContext(ctx, "seed complete",
		"users", sum.Users, "posts", sum.Posts, "likes", sum.Likes, "comments", sum.Comments)
	return sum, nil
}

func (s *Seeder) pick(authors []service.Author) service.Author {
	return authors[s.faker.Number(0, len(authors)-1)]
}

func (s *Seeder) createUser(ctx context.Context, i int) (service.Author, error) {
	first, last := s.faker.FirstName(), s.faker.LastName()
	email := fmt.Sprintf("%s.%s.%d@example.com", emailLocal(first), emailLocal(last), i)

	token, err := s.users.Register(ctx, service.RegisterInput{
		Name:     first + " " + last,
		Email:    email,
		Password: DemoPassword,
	})
	if err != nil {
		return service.Author{}, fmt.Errorf("register %s: %w", email, err)
	}
	userID, err := s.creds.VerifyToken(token)
	if err != nil {
		return service.Author{}, err
	}
	user, err := s.users.CurrentUser(ctx, userID)
	if err != nil {
		return service.Author{}, err
	}
	return service.Author{UserID: user.ID, Name: user.Name, Avatar: user.Avatar}, nil
}

func (s *Seeder) createProfile(ctx context.Context, userID uint) error {
	f := s.faker
	status := statuses[f.Number(0, len(statuses)-1)]
	skills := service.Skills{f.ProgrammingLanguage(), f.ProgrammingLanguage(), f.ProgrammingLanguage()}
	company, location, bio := f.Company(), f.City(), f.Sentence(12)
	website := "https://" + f.DomainName()
	github := strings.ToLower(f.Username())
	twitter := "https://twitter.com/" + github

	if _, err := s.profiles.Upsert(ctx, userID, service.ProfileInput{
		Status:         &status,
		Skills:         &skills,
		Company:        &company,
		Website:        &website,
		Location:       &location,
		Bio:            &bio,
		GithubUsername: &github,
		Twitter:        &twitter,
	}); err != nil {
		return fmt.Errorf("profile for user %d: %w", userID, err)
	}

	now := time.Now().UTC()
	for j := f.Number(1, 3); j > 0; j-- {
		from := f.DateRange(now.AddDate(-10, 0, 0), now.AddDate(-1, 0, 0))
		to := models.NewDate(from.AddDate(0, f.Number(6, 36), 0))
		if _, err := s.profiles.AddExperience(ctx, userID, service.ExperienceInput{
			Title:       f.JobTitle(),
			Company:     f.Company(),
			Location:    f.City(),
			From:        models.NewDate(from),
			To:          &to,
			Current:     j == 1 && f.Bool(),
			Description: f.Sentence(10),
		}); err != nil {
			return err
		}
	}

	from := f.DateRange(now.AddDate(-20, 0, 0), now.AddDate(-10, 0, 0))
	to := models.NewDate(from.AddDate(4, 0, 0))
	_, err := s.profiles.AddEducation(ctx, userID, service.EducationInput{
		School:       f.Company() + " University",
		Degree:       "Bachelor",
		FieldOfStudy: "Computer Science",
		From:         models.NewDate(from),
		To:           &to,
	})
	return err
}

func (s *Seeder) createPost(ctx context.Context, authors []service.Author) (likes, comments int, err error) {
	f := s.faker
	post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
		Author: s.pick(authors),
		Text:   f.Paragraph(1, 3, 12, " "),
	})
	if err != nil {
		return 0, 0, err
	}

	for n := f.Number(0, len(authors)); n > 0; n-- {
		_, err := s.posts.ToggleLike(ctx, post.ID, s.pick(authors).UserID, service.Like)
		switch {
		case err == nil:
			likes++
		case !isAlreadyLiked(err):
			return likes, comments, err
		}
	}

	for n := f.Number(0, 3); n > 0; n-- {
		if _, err := s.posts.AddComment(ctx, service.AddCommentInput{
			Author: s.pick(authors),
			PostID: post.ID,
			Text:   f.Sentence(8),
		}); err != nil {
			return likes, comments, err
		}
		comments++
	}
	return likes, comments, nil
}

func isAlreadyLiked(err error) bool {
	return errors.Is(err, models.ErrAlreadyLiked)
}

// emailLocal keeps the letters and digits of name, lowercased.
func emailLocal(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
