package seed

import (
	"context"
	"testing"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() *auth.Credentials {
	return auth.NewCredentials("seed-test-secret-0123456789abcdef", time.Hour, 4)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewDB(t)
	opts := Options{NumUsers: 3, NumPosts: 4, Seed: 42}
	s := NewSeeder(db, nil, testCreds(), opts)

	sum, err := s.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Users)
	assert.Equal(t, 3, sum.Profiles)
	assert.Equal(t, 4, sum.Posts)

	var users, profiles int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.EqualValues(t, 3, users)
	assert.EqualValues(t, 3, profiles)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 4)
	likes, comments := 0, 0
	for _, p := range posts {
		seen := map[uint]bool{}
		for _, l := range p.Likes {
			assert.False(t, seen[l.User], "one like per user")
			seen[l.User] = true
		}
		likes += len(p.Likes)
		comments += len(p.Comments)
	}
	assert.Equal(t, sum.Likes, likes)
	assert.Equal(t, sum.Comments, comments)

	var profile models.Profile
	require.NoError(t, db.First(&profile).Error)
	assert.NotEmpty(t, profile.Experience)
	assert.Len(t, profile.Education, 1)
	assert.Len(t, profile.Skills, 3)
}

func TestSeeder_CleanAndReproducible(t *testing.T) {
	names := func() []string {
		db := testutil.NewDB(t)
		opts := Options{NumUsers: 2, Seed: 7}
		_, err := NewSeeder(db, nil, testCreds(), opts).Run(context.Background(), opts)
		require.NoError(t, err)

		var users []models.User
		require.NoError(t, db.Order("id").Find(&users).Error)
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.Name)
		}
		return out
	}
	assert.Equal(t, names(), names())

	db := testutil.NewDB(t)
	opts := Options{NumUsers: 2, NumPosts: 1, Seed: 1}
	s := NewSeeder(db, nil, testCreds(), opts)
	_, err := s.Run(context.Background(), opts)
	require.NoError(t, err)

	opts.ShouldClean = true
	opts.Seed = 2
	sum, err := NewSeeder(db, nil, testCreds(), opts).Run(context.Background(), opts)
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, sum.Users, users, "clean removes the earlier run")
}

func TestSeeder_CleanDropsCachedDocuments(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	db := testutil.NewDB(t)
	ctx := context.Background()
	opts := Options{NumUsers: 2, Seed: 5}
	s := NewSeeder(db, c, testCreds(), opts)
	_, err = s.Run(ctx, opts)
	require.NoError(t, err)

	var ids []uint
	require.NoError(t, db.Model(&models.User{}).Pluck("id", &ids).Error)
	require.Len(t, ids, 2)
	for _, id := range ids {
		require.NoError(t, c.SetJSON(ctx, cache.UserKey(id), models.User{ID: id}, time.Minute))
		require.NoError(t, c.SetJSON(ctx, cache.ProfileKey(id), models.Profile{UserID: id}, time.Minute))
	}

	require.NoError(t, s.ClearAll(ctx))

	for _, id := range ids {
		assert.False(t, mr.Exists(cache.UserKey(id)), "user %d still cached", id)
		assert.False(t, mr.Exists(cache.ProfileKey(id)), "profile %d still cached", id)
	}
}
