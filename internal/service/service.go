package service

import (
	"github.com/sirupsen/logrus"

	"devconnector/internal/config"
	"devconnector/internal/repository"
	"devconnector/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Profile ProfileService
	Post    PostService
	GitHub  GitHubService
	Health  HealthService
}

// NewService wires every service. store is nil when image storage is not
// configured.
func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, log logrus.FieldLogger) *Service {
	return &Service{
		Auth:    NewAuthService(rep.User, cfg),
		User:    NewUserService(rep, store, log),
		Profile: NewProfileService(rep.Profile),
		Post:    NewPostService(rep.Post, rep.User, store, log),
		GitHub:  NewGitHubService(cfg.GitHub),
		Health:  NewHealthService(rep.Health),
	}
}
