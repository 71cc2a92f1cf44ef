// Command main fills the database with demo users, profiles, and posts.
package main

import (
	"context"
	"flag"
	"log"

	"devconnector/internal/auth"
	"devconnector/internal/cache"
	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultNumUsers, "Number of users to create")
	numPosts := flag.Int("posts", seed.DefaultNumPosts, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed; 0 picks one from the clock")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Writes and -clean invalidate the cache a running server reads.
	var c *cache.Cache
	if cfg.RedisURL != "" {
		if rdb := cache.Connect(cfg.RedisURL); rdb != nil {
			defer rdb.Close()
			c = cache.New(rdb)
		}
	}

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		Seed:        *seedValue,
	}
	log.Printf("Target: %d users, %d posts, clean=%v", opts.NumUsers, opts.NumPosts, opts.ShouldClean)

	summary, err := seed.NewSeeder(db, c, auth.FromConfig(cfg), opts).Run(context.Background(), opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d profiles, %d posts, %d likes, %d comments",
		summary.Users, summary.Profiles, summary.Posts, summary.Likes, summary.Comments)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
