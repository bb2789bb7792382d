package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, tx *gorm.DB, follow *models.Follow) error {
	args := m.Called(ctx, tx, follow)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestFollowUser_PublishesAfterCommit(t *testing.T) {
	gormDB, dbMock := setupMockDB(t)
	followRepo := new(MockFollowRepository)
	userRepo := new(MockUserRepository)
	notifRepo := new(MockNotificationRepository)
	reg := newFakeRegistry()

	s := &Server{
		db:         gormDB,
		followRepo: followRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		registry:   reg,
	}

	// User 1 follows user 2.
	userRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Name: "alice"}, nil)
	userRepo.On("GetByID", mock.Anything, uint(2)).
		Return(&models.User{ID: 2, Name: "bob"}, nil)
	followRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(f *models.Follow) bool {
		return f.FollowerID == 1 && f.FolloweeID == 2
	})).Return(nil)
	notifRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == 2 && n.Type == models.NotificationTypeFollow
	})).Return(nil)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	app := fiber.New()
	app.Use(authAs(1))
	app.Post("/follows", s.FollowUser)

	body, _ := json.Marshal(map[string]uint{"user_id": 2})
	req := httptest.NewRequest(http.MethodPost, "/follows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var respBody map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
	assert.Equal(t, "Followed", respBody["message"])

	// The followee got the follow notification after the transaction committed.
	msgs := reg.messagesFor(2)
	require.Len(t, msgs, 1)
	typ, payload := decodeEvent(t, msgs[0])
	assert.Equal(t, EventNotification, typ)
	assert.Equal(t, "alice followed you.", payload["message"])
	assert.Equal(t, float64(2), payload["user_id"])

	// Everyone connected got the count-refresh hint.
	all := reg.broadcasts()
	require.Len(t, all, 1)
	typ, payload = decodeEvent(t, all[0])
	assert.Equal(t, EventFollowUpdate, typ)
	assert.Equal(t, float64(1), payload["follower_id"])
	assert.Equal(t, float64(2), payload["target_user_id"])
	assert.Equal(t, true, payload["is_following"])

	assert.NoError(t, dbMock.ExpectationsWereMet())
	followRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

func TestFollowUser_SelfFollowRejected(t *testing.T) {
	reg := newFakeRegistry()
	s := &Server{registry: reg}

	app := fiber.New()
	app.Use(authAs(1))
	app.Post("/follows", s.FollowUser)

	body, _ := json.Marshal(map[string]uint{"user_id": 1})
	req := httptest.NewRequest(http.MethodPost, "/follows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, reg.broadcasts())
}
