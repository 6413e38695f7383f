package service

import (
	"context"

	"github.com/dom/social-network-website/internal/domain"
	"github.com/dom/social-network-website/internal/repository"
	"github.com/google/uuid"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return domain.ErrSelfFollow
	}

	// Verify the target exists so a bad ID surfaces as 404, not an FK error.
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	return s.followRepo.Create(ctx, &domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	})
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	return s.followRepo.Delete(ctx, followerID, followedID)
}
