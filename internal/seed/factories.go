// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// demoPassword is the password every generated account shares, so developers
// can log in as any seeded user.
const demoPassword = "DevConnectDemo1!"

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	name := strings.ToLower(gofakeit.Username())
	if len(name) < 3 {
		name = name + gofakeit.DigitN(3)
	}
	if len(name) > 30 {
		name = name[:30]
	}

	user := &models.User{
		Name:       name,
		Email:      fmt.Sprintf("%s_%s@example.com", name, gofakeit.DigitN(4)),
		Password:   f.hashPassword(demoPassword),
		Bio:        gofakeit.JobTitle() + " who writes about " + gofakeit.BuzzWord(),
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		Role:       models.RoleUser,
		IsVerified: true,
		CreatedAt:  f.pastTime(),
	}
	for _, o := range overrides {
		o(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post for the given author without persisting it.
// Roughly one in three posts carries images.
func (f *Factory) BuildPost(user *models.User, status models.PostStatus, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Description: f.postDescription(),
		Images:      "[]",
		Status:      status,
		UserID:      user.ID,
		CreatedAt:   f.pastTime(),
	}

	if f.rng.Intn(3) == 0 {
		urls := make([]string, 1+f.rng.Intn(3))
		for i := range urls {
			urls[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
		encoded, err := json.Marshal(urls)
		if err == nil {
			post.Images = string(encoded)
		}
	}

	for _, o := range overrides {
		o(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(user *models.User, status models.PostStatus, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, status, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment by the given user on the given post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:      gofakeit.Sentence(4 + f.rng.Intn(10)),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: post.CreatedAt.Add(time.Duration(1+f.rng.Intn(72)) * time.Hour),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateLike persists a like; duplicate (user, post) pairs are skipped.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	err := f.db.Create(like).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// CreateFollow persists a follow edge; duplicates and self-follows are skipped.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	err := f.db.Create(follow).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// CreateNotification persists a notification addressed to the given user.
func (f *Factory) CreateNotification(userID uint, typ models.NotificationType, message string) error {
	return f.db.Create(&models.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}).Error
}

func (f *Factory) postDescription() string {
	templates := []string{
		"Just shipped %s for my %s. %s",
		"Spent the weekend learning %s. The %s part finally clicked. %s",
		"Hot take: %s beats %s for most teams. %s",
		"Debugging a gnarly issue in our %s today. Turned out to be %s. %s",
	}
	t := templates[f.rng.Intn(len(templates))]
	return fmt.Sprintf(t, gofakeit.BuzzWord(), gofakeit.BuzzWord(), gofakeit.Sentence(6+f.rng.Intn(8)))
}

// pastTime returns a timestamp spread over the last opts.MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) hashPassword(password string) string {
	if f.opts.SkipBcrypt {
		return "seed:" + password
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "seed:" + password
	}
	return string(hashed)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
