package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"devconnector/internal/config"
	"devconnector/internal/service"
)

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	ProfileService service.ProfileService
	PostService    service.PostService
	GitHubService  service.GitHubService
	HealthService  service.HealthService
	Log            logrus.FieldLogger
	Validate       *validator.Validate
	MaxUploadSize  int64
}

func NewHandlers(svc *service.Service, cfg *config.Config, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		AuthService:    svc.Auth,
		UserService:    svc.User,
		ProfileService: svc.Profile,
		PostService:    svc.Post,
		GitHubService:  svc.GitHub,
		HealthService:  svc.Health,
		Log:            log,
		Validate:       NewValidator(),
		MaxUploadSize:  cfg.MaxUploadSize,
	}
}
