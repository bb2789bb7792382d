// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"devconnect/internal/models"

	"gorm.io/gorm"
)

// Options configure the seeder.
type Options struct {
	// SkipBcrypt stores a marker string instead of a real hash. Use in tests
	// where hashing cost matters and nobody logs in.
	SkipBcrypt bool
	// MaxDays bounds how far back generated timestamps are spread.
	MaxDays int
}

// Seeder populates the database with generated demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder for the given database.
func NewSeeder(db *gorm.DB, opts ...Options) *Seeder {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Seeder{
		db:      db,
		factory: NewFactory(db, o),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Table order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("clearing existing data")
	tables := []string{"notifications", "likes", "comments", "follows", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates numUsers users and a follow graph between them.
// Each user follows a handful of others; every follow also leaves a
// notification for the followee, mirroring what the live API does.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]models.User, error) {
	if numUsers <= 0 {
		return nil, nil
	}

	users := make([]models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	for i := range users {
		follows := 1 + s.rng.Intn(4)
		for j := 0; j < follows; j++ {
			target := &users[s.rng.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			if err := s.factory.CreateFollow(&users[i], target); err != nil {
				return nil, err
			}
			if err := s.factory.CreateNotification(target.ID,
				models.NotificationTypeFollow,
				users[i].Name+" followed you."); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("seeded %d users with follow mesh", len(users))
	return users, nil
}

// SeedPosts creates numPosts posts spread across the given users, with
// comments and likes on the approved ones. Around one post in five stays
// pending so the admin review queue has content.
func (s *Seeder) SeedPosts(users []models.User, numPosts int) ([]models.Post, error) {
	if len(users) == 0 || numPosts <= 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := &users[s.rng.Intn(len(users))]

		status := models.PostStatusApproved
		if s.rng.Intn(5) == 0 {
			status = models.PostStatusPending
		}

		post, err := s.factory.CreatePost(author, status)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)

		if status != models.PostStatusApproved {
			continue
		}

		// Engagement only lands on approved posts.
		for c := s.rng.Intn(4); c > 0; c-- {
			commenter := &users[s.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, err
			}
		}
		for l := s.rng.Intn(6); l > 0; l-- {
			liker := &users[s.rng.Intn(len(users))]
			if err := s.factory.CreateLike(liker, post); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("seeded %d posts", len(posts))
	return posts, nil
}

// Run seeds a full demo dataset: users, follows, posts, and engagement.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users, err := s.SeedSocialMesh(numUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if _, err := s.SeedPosts(users, numPosts); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Println("database seeding completed")
	return nil
}
