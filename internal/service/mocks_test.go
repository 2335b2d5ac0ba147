package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) profile(args mock.Arguments) (*models.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, req repository.UpsertProfileRequest) (*models.Profile, error) {
	return m.profile(m.Called(ctx, req))
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockProfileRepository) PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, exp))
}

func (m *MockProfileRepository) PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, expID))
}

func (m *MockProfileRepository) PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, edu))
}

func (m *MockProfileRepository) PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, eduID))
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *MockPostRepository) DeleteByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) AddLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Likes), args.Error(1)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Likes), args.Error(1)
}

func (m *MockPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comments, error) {
	args := m.Called(ctx, postID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Comments), args.Error(1)
}

func (m *MockPostRepository) RemoveComment(ctx context.Context, postID, commentID, userID string) (models.Comments, error) {
	args := m.Called(ctx, postID, commentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Comments), args.Error(1)
}

func (m *MockPostRepository) AddImage(ctx context.Context, postID, userID string, image models.Image) (models.Images, error) {
	args := m.Called(ctx, postID, userID, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Images), args.Error(1)
}

func (m *MockPostRepository) RemoveImage(ctx context.Context, postID, imageID, userID string) (*models.Image, models.Images, error) {
	args := m.Called(ctx, postID, imageID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Image), args.Get(1).(models.Images), args.Error(2)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, postID, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, postID, fileName, contentType, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}
