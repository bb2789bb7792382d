package seed

import (
	"encoding/json"
	"strings"
	"testing"

	"devconnect/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestBuildUser(t *testing.T) {
	f := NewFactory(nil, Options{SkipBcrypt: true})

	for i := 0; i < 20; i++ {
		u := f.BuildUser()
		if len(u.Name) < 3 || len(u.Name) > 30 {
			t.Fatalf("name %q out of bounds", u.Name)
		}
		if !strings.Contains(u.Email, "@example.com") {
			t.Fatalf("unexpected email %q", u.Email)
		}
		if u.Role != models.RoleUser {
			t.Fatalf("expected user role, got %q", u.Role)
		}
		if !u.IsVerified {
			t.Fatal("seeded users should be pre-verified")
		}
	}
}

func TestBuildUser_Override(t *testing.T) {
	f := NewFactory(nil, Options{SkipBcrypt: true})

	u := f.BuildUser(func(u *models.User) {
		u.Role = models.RoleAdmin
		u.Name = "root"
	})
	if u.Role != models.RoleAdmin || u.Name != "root" {
		t.Fatalf("override not applied: %+v", u)
	}
}

func TestBuildUser_PasswordHash(t *testing.T) {
	f := NewFactory(nil, Options{})
	u := f.BuildUser()
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(demoPassword)); err != nil {
		t.Fatalf("password hash does not verify: %v", err)
	}
}

func TestBuildPost_ImagesAreValidJSON(t *testing.T) {
	f := NewFactory(nil, Options{})
	author := &models.User{ID: 1}

	for i := 0; i < 30; i++ {
		p := f.BuildPost(author, models.PostStatusApproved)
		var urls []string
		if err := json.Unmarshal([]byte(p.Images), &urls); err != nil {
			t.Fatalf("images field is not a JSON array: %q", p.Images)
		}
		if p.Description == "" {
			t.Fatal("expected non-empty description")
		}
		if p.UserID != 1 {
			t.Fatalf("expected author 1, got %d", p.UserID)
		}
	}
}

func TestBuildPost_Status(t *testing.T) {
	f := NewFactory(nil, Options{})
	author := &models.User{ID: 2}

	p := f.BuildPost(author, models.PostStatusPending)
	if p.Status != models.PostStatusPending {
		t.Fatalf("expected pending, got %q", p.Status)
	}
}
