package service

import (
	"github.com/dom/social-network-website/internal/config"
	"github.com/dom/social-network-website/internal/repository"
)

type Services struct {
	Auth   *AuthService
	User   *UserService
	Follow *FollowService
	Post   *PostService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, repos.Session, cfg),
		User:   NewUserService(repos.User, repos.Follow),
		Follow: NewFollowService(repos.Follow, repos.User),
		Post:   NewPostService(repos.Post, repos.Follow, repos.Like, repos.Comment),
	}
}
