package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"devconnector/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSkills_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Skills
	}{
		{"comma string is split and trimmed", `{"skills":" Go, SQL ,Docker"}`, Skills{"Go", "SQL", "Docker"}},
		{"single skill", `{"skills":"Go"}`, Skills{"Go"}},
		{"list passes through", `{"skills":[" Go ","SQL"]}`, Skills{" Go ", "SQL"}},
		{"empty string", `{"skills":""}`, Skills{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in ProfileInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			require.NotNil(t, in.Skills)
			assert.Equal(t, tt.want, *in.Skills)
		})
	}

	var in ProfileInput
	assert.Error(t, json.Unmarshal([]byte(`{"skills":42}`), &in))
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Dev"}`), &in))
	assert.Nil(t, in.Skills)
}

func TestProfileService_UpsertValidation(t *testing.T) {
	svc := NewProfileService(nil, nil)
	_, err := svc.Upsert(context.Background(), 1, ProfileInput{})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Upsert(context.Background(), 1, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{" "}})
	assert.ErrorIs(t, err, models.NewValidationError("Skills is required"))

	_, err = svc.Upsert(context.Background(), 1, ProfileInput{
		Status:  strPtr("Dev"),
		Skills:  &Skills{"Go"},
		Website: strPtr("not a url"),
	})
	assert.ErrorIs(t, err, models.NewValidationError("Website must be a valid URL"))
}

func TestProfileService_UpsertCreatesThenMerges(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "Alice", "a@x.com")

	created, err := s.profiles.Upsert(ctx, id, ProfileInput{
		Status:  strPtr("Developer"),
		Skills:  &Skills{"Go", "SQL"},
		Company: strPtr("Acme"),
		Twitter: strPtr("https://twitter.com/alice"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.User)
	assert.Equal(t, "Alice", created.User.Name)
	assert.Equal(t, map[string]string{"twitter": "https://twitter.com/alice"}, created.Social)
	assert.Empty(t, created.Experience)

	merged, err := s.profiles.Upsert(ctx, id, ProfileInput{
		Status:   strPtr("Senior Developer"),
		Skills:   &Skills{"Go"},
		Location: strPtr("Berlin"),
		Youtube:  strPtr("https://youtube.com/alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", merged.Status)
	assert.Equal(t, "Acme", merged.Company, "omitted fields keep their value")
	assert.Equal(t, "Berlin", merged.Location)
	assert.Equal(t, []string{"Go"}, []string(merged.Skills))
	assert.Equal(t, map[string]string{
		"twitter": "https://twitter.com/alice",
		"youtube": "https://youtube.com/alice",
	}, merged.Social)
	assert.Equal(t, created.ID, merged.ID)

	me, err := s.profiles.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", me.Status)
}

func TestProfileService_UpsertUnknownUser(t *testing.T) {
	s := newStack(t)
	_, err := s.profiles.Upsert(context.Background(), 404, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{"Go"}})
	assert.ErrorIs(t, err, models.NewNotFoundError("User"))
}

func TestProfileService_Reads(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "Alice", "a@x.com")
	bob := s.register(t, "Bob", "b@x.com")

	_, err := s.profiles.Me(ctx, alice)
	assert.ErrorIs(t, err, &models.AppError{Code: models.CodeNotFound, Message: "There is no profile for this user"})
	_, err = s.profiles.ByUser(ctx, alice)
	assert.ErrorIs(t, err, models.NewNotFoundError("Profile"))

	for _, id := range []uint{alice, bob} {
		_, err := s.profiles.Upsert(ctx, id, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{"Go"}})
		require.NoError(t, err)
	}

	list, err := s.profiles.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].User.Name)
	assert.Equal(t, "Bob", list[1].User.Name)

	byUser, err := s.profiles.ByUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "Bob", byUser.User.Name)
}

func TestProfileService_ExperienceAddRemoveRestoresList(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "Alice", "a@x.com")

	_, err := s.profiles.AddExperience(ctx, id, ExperienceInput{Title: "Dev", Company: "Acme", From: models.NewDate(time.Now())})
	assert.ErrorIs(t, err, models.NewNotFoundError("Profile"), "a profile is required first")

	_, err = s.profiles.Upsert(ctx, id, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{"Go"}})
	require.NoError(t, err)

	from := models.NewDate(time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC))
	first, err := s.profiles.AddExperience(ctx, id, ExperienceInput{Title: "Junior", Company: "Acme", From: from})
	require.NoError(t, err)
	before := append([]models.Experience(nil), first.Experience...)

	added, err := s.profiles.AddExperience(ctx, id, ExperienceInput{
		Title:   "Senior",
		Company: "Globex",
		From:    from,
		To:      &from,
		Current: true,
	})
	require.NoError(t, err)
	require.Len(t, added.Experience, 2)
	head := added.Experience[0]
	assert.Equal(t, "Senior", head.Title, "new entries go first")
	assert.Nil(t, head.To, "current positions have no end date")
	assert.NotEmpty(t, head.ID)
	assert.NotEqual(t, before[0].ID, head.ID)

	removed, err := s.profiles.RemoveExperience(ctx, id, head.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(before, []models.Experience(removed.Experience)); diff != "" {
		t.Errorf("experience mismatch after add+remove (-want +got):\n%s", diff)
	}

	_, err = s.profiles.RemoveExperience(ctx, id, "missing")
	assert.ErrorIs(t, err, models.NewNotFoundError("Experience"))

	stored, err := s.profiles.Me(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Experience, 1, "a missing id removes nothing")
}

func TestProfileService_Education(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "Alice", "a@x.com")
	_, err := s.profiles.Upsert(ctx, id, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{"Go"}})
	require.NoError(t, err)

	_, err = s.profiles.AddEducation(ctx, id, EducationInput{School: "MIT"})
	assertCode(t, err, models.CodeValidation)

	from := models.NewDate(time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC))
	p, err := s.profiles.AddEducation(ctx, id, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	entry := p.Education[0]
	assert.Equal(t, "CS", entry.FieldOfStudy)
	assert.True(t, entry.From.Equal(from.Time))

	p, err = s.profiles.RemoveEducation(ctx, id, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)

	_, err = s.profiles.RemoveEducation(ctx, id, entry.ID)
	assert.ErrorIs(t, err, models.NewNotFoundError("Education"))
}

func TestProfileService_DeleteAccount(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "Alice", "a@x.com")
	bob := s.register(t, "Bob", "b@x.com")

	_, err := s.profiles.Upsert(ctx, alice, ProfileInput{Status: strPtr("Dev"), Skills: &Skills{"Go"}})
	require.NoError(t, err)
	own, err := s.posts.CreatePost(ctx, CreatePostInput{Author: Author{UserID: alice, Name: "Alice"}, Text: "hello"})
	require.NoError(t, err)
	other, err := s.posts.CreatePost(ctx, CreatePostInput{Author: Author{UserID: bob, Name: "Bob"}, Text: "hi"})
	require.NoError(t, err)
	_, err = s.posts.AddComment(ctx, AddCommentInput{Author: Author{UserID: alice, Name: "Alice"}, PostID: other.ID, Text: "hey"})
	require.NoError(t, err)

	require.NoError(t, s.profiles.DeleteAccount(ctx, alice))

	_, err = s.users.CurrentUser(ctx, alice)
	assertCode(t, err, models.CodeNotFound)
	_, err = s.profiles.ByUser(ctx, alice)
	assertCode(t, err, models.CodeNotFound)
	_, err = s.posts.Get(ctx, own.ID)
	assertCode(t, err, models.CodeNotFound)

	kept, err := s.posts.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Comments, 1)
}

func TestProfileService_DeleteAccountPropagatesErrors(t *testing.T) {
	repo := noopUserRepo()
	repo.deleteWithContentFn = func(_ context.Context, _ uint) error { return models.NewNotFoundError("User") }
	svc := NewProfileService(nil, repo)

	assertCode(t, svc.DeleteAccount(context.Background(), 3), models.CodeNotFound)
}
