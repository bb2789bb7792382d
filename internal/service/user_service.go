package service

import (
	"context"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/validation"
)

// UserService provides profile business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the partial profile update; empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID uint
	Name   string
	Bio    string
	Avatar string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicProfile returns the public view of a user.
func (s *UserService) GetPublicProfile(ctx context.Context, id uint) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	return &profile, nil
}

// maxSearchResults caps the user directory search; it is a typeahead feed,
// not a paginated listing.
const maxSearchResults = 10

// SearchUsers finds regular accounts whose name or email contains the query.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	users, err := s.userRepo.Search(ctx, query, maxSearchResults)
	if err != nil {
		return nil, err
	}

	results := make([]models.UserSearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, models.UserSearchResult{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: u.Avatar,
		})
	}
	return results, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Name != "" {
		if err := validation.ValidateUsername(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
