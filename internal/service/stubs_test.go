package service

import (
	"context"
	"testing"

	"devconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTxDB returns a gorm DB backed by sqlmock so services can run their
// transactions against expected Begin/Commit pairs while repositories are
// stubbed out.
func setupTxDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "CONFLICT")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

// userRepoStub implements repository.UserRepository with overridable funcs.
type userRepoStub struct {
	getByIDFn       func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	createFn        func(ctx context.Context, user *models.User) error
	updateFn        func(ctx context.Context, user *models.User) error
	deleteFn        func(ctx context.Context, id uint) error
	listFn          func(ctx context.Context, limit, offset int) ([]models.User, error)
	listNonAdminsFn func(ctx context.Context, limit, offset int) ([]models.User, error)
	searchFn        func(ctx context.Context, query string, limit int) ([]models.User, error)
	hasAdminFn      func(ctx context.Context) (bool, error)
}

func noopUserRepo() *userRepoStub { return &userRepoStub{} }

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Name: "user"}, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *userRepoStub) ListNonAdmins(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listNonAdminsFn != nil {
		return s.listNonAdminsFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (s *userRepoStub) HasAdmin(ctx context.Context) (bool, error) {
	if s.hasAdminFn != nil {
		return s.hasAdminFn(ctx)
	}
	return false, nil
}

// followRepoStub implements repository.FollowRepository.
type followRepoStub struct {
	createFn         func(ctx context.Context, tx *gorm.DB, follow *models.Follow) error
	deleteFn         func(ctx context.Context, followerID, followeeID uint) error
	existsFn         func(ctx context.Context, followerID, followeeID uint) (bool, error)
	getFollowersFn   func(ctx context.Context, userID uint) ([]models.User, error)
	getFollowingFn   func(ctx context.Context, userID uint) ([]models.User, error)
	countFollowersFn func(ctx context.Context, userID uint) (int64, error)
	countFollowingFn func(ctx context.Context, userID uint) (int64, error)
}

func noopFollowRepo() *followRepoStub { return &followRepoStub{} }

func (s *followRepoStub) Create(ctx context.Context, tx *gorm.DB, follow *models.Follow) error {
	if s.createFn != nil {
		return s.createFn(ctx, tx, follow)
	}
	follow.ID = 1
	return nil
}

func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, followerID, followeeID)
	}
	return nil
}

func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (s *followRepoStub) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	if s.getFollowersFn != nil {
		return s.getFollowersFn(ctx, userID)
	}
	return nil, nil
}

func (s *followRepoStub) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	if s.getFollowingFn != nil {
		return s.getFollowingFn(ctx, userID)
	}
	return nil, nil
}

func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	if s.countFollowersFn != nil {
		return s.countFollowersFn(ctx, userID)
	}
	return 0, nil
}

func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	if s.countFollowingFn != nil {
		return s.countFollowingFn(ctx, userID)
	}
	return 0, nil
}

// notifRepoStub implements repository.NotificationRepository and records
// every notification its default Create receives.
type notifRepoStub struct {
	created []*models.Notification

	createFn      func(ctx context.Context, tx *gorm.DB, n *models.Notification) error
	getByIDFn     func(ctx context.Context, id uint) (*models.Notification, error)
	listByUserFn  func(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error)
	markReadFn    func(ctx context.Context, userID, id uint) (bool, error)
	markAllReadFn func(ctx context.Context, userID uint) (int64, error)
	deleteFn      func(ctx context.Context, userID, id uint) (bool, error)
	countUnreadFn func(ctx context.Context, userID uint) (int64, error)
}

func noopNotifRepo() *notifRepoStub { return &notifRepoStub{} }

func (s *notifRepoStub) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	if s.createFn != nil {
		return s.createFn(ctx, tx, n)
	}
	n.ID = uint(len(s.created) + 1)
	s.created = append(s.created, n)
	return nil
}

func (s *notifRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Notification", id)
}

func (s *notifRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (s *notifRepoStub) MarkRead(ctx context.Context, userID, id uint) (bool, error) {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, id)
	}
	return false, nil
}

func (s *notifRepoStub) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func (s *notifRepoStub) Delete(ctx context.Context, userID, id uint) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, id)
	}
	return false, nil
}

func (s *notifRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	if s.countUnreadFn != nil {
		return s.countUnreadFn(ctx, userID)
	}
	return 0, nil
}

// postRepoStub implements repository.PostRepository.
type postRepoStub struct {
	createFn       func(ctx context.Context, post *models.Post) error
	getByIDFn      func(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	listFn         func(ctx context.Context, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error)
	listByUserFn   func(ctx context.Context, userID uint, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error)
	searchFn       func(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	updateStatusFn func(ctx context.Context, tx *gorm.DB, id uint, status models.PostStatus) error
	deleteFn       func(ctx context.Context, tx *gorm.DB, id uint) error
	likeFn         func(ctx context.Context, tx *gorm.DB, userID, postID uint) (bool, error)
	unlikeFn       func(ctx context.Context, userID, postID uint) (bool, error)
	isLikedFn      func(ctx context.Context, userID, postID uint) (bool, error)
	countLikesFn   func(ctx context.Context, postID uint) (int64, error)
	listLikersFn   func(ctx context.Context, postID uint) ([]models.User, error)
}

func noopPostRepo() *postRepoStub { return &postRepoStub{} }

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id, currentUserID)
	}
	return &models.Post{ID: id, Status: models.PostStatusApproved}, nil
}

func (s *postRepoStub) List(ctx context.Context, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx, status, limit, offset, currentUserID)
	}
	return nil, nil
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID, status, limit, offset, currentUserID)
	}
	return nil, nil
}

func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit, offset, currentUserID)
	}
	return nil, nil
}

func (s *postRepoStub) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.PostStatus) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, tx, id, status)
	}
	return nil
}

func (s *postRepoStub) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, tx, id)
	}
	return nil
}

func (s *postRepoStub) Like(ctx context.Context, tx *gorm.DB, userID, postID uint) (bool, error) {
	if s.likeFn != nil {
		return s.likeFn(ctx, tx, userID, postID)
	}
	return true, nil
}

func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	if s.unlikeFn != nil {
		return s.unlikeFn(ctx, userID, postID)
	}
	return true, nil
}

func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	if s.isLikedFn != nil {
		return s.isLikedFn(ctx, userID, postID)
	}
	return false, nil
}

func (s *postRepoStub) CountLikes(ctx context.Context, postID uint) (int64, error) {
	if s.countLikesFn != nil {
		return s.countLikesFn(ctx, postID)
	}
	return 0, nil
}

func (s *postRepoStub) ListLikers(ctx context.Context, postID uint) ([]models.User, error) {
	if s.listLikersFn != nil {
		return s.listLikersFn(ctx, postID)
	}
	return nil, nil
}

// commentRepoStub implements repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(ctx context.Context, tx *gorm.DB, comment *models.Comment) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Comment, error)
	listByPostFn func(ctx context.Context, postID uint) ([]*models.Comment, error)
	deleteFn     func(ctx context.Context, id uint) error
}

func noopCommentRepo() *commentRepoStub { return &commentRepoStub{} }

func (s *commentRepoStub) Create(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	if s.createFn != nil {
		return s.createFn(ctx, tx, comment)
	}
	comment.ID = 1
	return nil
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Comment{ID: id}, nil
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if s.listByPostFn != nil {
		return s.listByPostFn(ctx, postID)
	}
	return nil, nil
}

func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}
