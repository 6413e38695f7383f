package repository

import (
	"context"

	"github.com/dom/social-network-website/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.User, error)
	ListExcluding(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type FollowRepository interface {
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Post, error)
	GetByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LikeRepository interface {
	Create(ctx context.Context, like *domain.PostLike) error
	Delete(ctx context.Context, postID, userID uuid.UUID) error
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	LikedByUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.PostComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PostComment, error)
	GetByPosts(ctx context.Context, postIDs []uuid.UUID) ([]*domain.PostComment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Follow  FollowRepository
	Post    PostRepository
	Like    LikeRepository
	Comment CommentRepository
}
