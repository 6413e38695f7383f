package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/social-network-website/internal/domain"
	"github.com/dom/social-network-website/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Name      string
	Email     string
	Password  string
	About     *string
	Photo     []byte
	PhotoType string
}

func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// GetProfile loads a user together with follow counts and whether the viewer
// follows them. viewerID may equal userID; a user never "follows" themselves.
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != uuid.Nil && viewerID != userID {
		isFollowing, err = s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Profile{
		User:        user,
		Followers:   followers,
		Following:   following,
		IsFollowing: isFollowing,
	}, nil
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
		}
		user.Email = email
	}
	if input.Password != "" {
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.About != nil {
		user.About = *input.About
	}
	if len(input.Photo) > 0 {
		user.Photo = input.Photo
		user.PhotoType = input.PhotoType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

// Photo returns the stored photo bytes and content type, or ErrPhotoNotFound
// when the user never uploaded one.
func (s *UserService) Photo(ctx context.Context, userID uuid.UUID) ([]byte, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !user.HasPhoto() {
		return nil, "", domain.ErrPhotoNotFound
	}
	return user.Photo, user.PhotoType, nil
}

// FindPeople lists users the given user does not yet follow, excluding the
// user themselves.
func (s *UserService) FindPeople(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	following, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListExcluding(ctx, append(following, userID))
}
