package test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"devconnector/internal/models"
	"devconnector/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) IssueToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ParseToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profile(args mock.Arguments) (*models.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Upsert(ctx context.Context, userID string, in service.ProfileInput) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, in))
}

func (m *MockProfileService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileService) AddExperience(ctx context.Context, userID string, in service.ExperienceInput) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, in))
}

func (m *MockProfileService) DeleteExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, expID))
}

func (m *MockProfileService) AddEducation(ctx context.Context, userID string, in service.EducationInput) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, in))
}

func (m *MockProfileService) DeleteEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, eduID))
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	args := m.Called(ctx, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, userID, postID string) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockPostService) Like(ctx context.Context, userID, postID string) (models.Likes, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Likes), args.Error(1)
}

func (m *MockPostService) Unlike(ctx context.Context, userID, postID string) (models.Likes, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Likes), args.Error(1)
}

func (m *MockPostService) AddComment(ctx context.Context, userID, postID, text string) (models.Comments, error) {
	args := m.Called(ctx, userID, postID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Comments), args.Error(1)
}

func (m *MockPostService) DeleteComment(ctx context.Context, userID, postID, commentID string) (models.Comments, error) {
	args := m.Called(ctx, userID, postID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Comments), args.Error(1)
}

func (m *MockPostService) AddImage(ctx context.Context, userID, postID string, upload service.ImageUpload) (*models.Image, error) {
	args := m.Called(ctx, userID, postID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockPostService) DeleteImage(ctx context.Context, userID, postID, imageID string) (models.Images, error) {
	args := m.Called(ctx, userID, postID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Images), args.Error(1)
}

type MockGitHubService struct {
	mock.Mock
}

func (m *MockGitHubService) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
