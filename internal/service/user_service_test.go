package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "original"}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Name:   strings.Repeat("x", 31),
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	t.Run("only name changes when bio is empty", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "old", Bio: "my bio"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Name:   "newname",
		})
		require.NoError(t, err)
		assert.Equal(t, "newname", user.Name)
		assert.Equal(t, "my bio", user.Bio, "bio should be unchanged when not provided")
		require.NotNil(t, saved)
		assert.Equal(t, "newname", saved.Name)
	})

	t.Run("only bio changes when name is empty", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "myuser", Bio: "old bio"}, nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    "new bio",
		})
		require.NoError(t, err)
		assert.Equal(t, "myuser", user.Name, "name should be unchanged when not provided")
		assert.Equal(t, "new bio", user.Bio)
	})
}

func TestUserService_UpdateProfile_RepoError(t *testing.T) {
	t.Parallel()

	t.Run("GetByID error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db connection error")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Name: "newname"})
		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("Update error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("update failed")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			return repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Name: "newname"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_SearchUsers(t *testing.T) {
	t.Parallel()

	t.Run("trims and caps the query", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var gotQuery string
		var gotLimit int
		repo.searchFn = func(_ context.Context, query string, limit int) ([]models.User, error) {
			gotQuery = query
			gotLimit = limit
			return []models.User{
				{ID: 3, Name: "alice", Email: "alice@example.com", Avatar: "https://cdn.example.com/a.png"},
			}, nil
		}
		svc := NewUserService(repo)
		results, err := svc.SearchUsers(context.Background(), "  alice ")
		require.NoError(t, err)
		assert.Equal(t, "alice", gotQuery)
		assert.Equal(t, 10, gotLimit)
		require.Len(t, results, 1)
		assert.Equal(t, uint(3), results[0].ID)
		assert.Equal(t, "alice@example.com", results[0].Email)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.SearchUsers(context.Background(), "   ")
		assertValidationError(t, err)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db down")
		repo := noopUserRepo()
		repo.searchFn = func(_ context.Context, _ string, _ int) ([]models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.SearchUsers(context.Background(), "bob")
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_GetPublicProfile(t *testing.T) {
	t.Parallel()

	t.Run("strips private fields", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:       id,
				Name:     "alice",
				Email:    "alice@example.com",
				Password: "hash",
				Bio:      "hello",
				Avatar:   "https://cdn.example.com/a.png",
			}, nil
		}
		svc := NewUserService(repo)
		profile, err := svc.GetPublicProfile(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), profile.ID)
		assert.Equal(t, "alice", profile.Name)
		assert.Equal(t, "hello", profile.Bio)
		assert.Equal(t, "https://cdn.example.com/a.png", profile.Avatar)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.GetPublicProfile(context.Background(), 99)
		assert.ErrorIs(t, err, repoErr)
	})
}
