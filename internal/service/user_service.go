package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"devconnector/internal/apperr"
	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/storage"
)

type UserService interface {
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	// DeleteAccount removes the user's posts, then the profile, then the
	// user. The steps are independent writes; the first failure stops the
	// sequence.
	DeleteAccount(ctx context.Context, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	images      *imageCleaner
}

func NewUserService(rep *repository.Repository, store storage.Storage, log logrus.FieldLogger) UserService {
	return &userService{
		userRepo:    rep.User,
		profileRepo: rep.Profile,
		postRepo:    rep.Post,
		images:      &imageCleaner{store: store, log: log},
	}
}

func (s *userService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.CurrentUser"

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(op, "User not found")
		}
		return nil, apperr.Internal(op, err)
	}
	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	const op = "UserService.DeleteAccount"

	posts, err := s.postRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return apperr.Internal(op, err)
	}
	for i := range posts {
		s.images.remove(ctx, posts[i].ID, posts[i].Images)
	}

	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return apperr.Internal(op, err)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal(op, err)
	}
	return nil
}

// imageCleaner deletes stored objects after their records are gone. Failures
// leave orphaned objects and are only logged.
type imageCleaner struct {
	store storage.Storage
	log   logrus.FieldLogger
}

func (c *imageCleaner) remove(ctx context.Context, postID string, images []models.Image) {
	if c.store == nil {
		return
	}
	for _, img := range images {
		if err := c.store.DeleteImage(ctx, img.Object); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"post_id": postID,
				"object":  img.Object,
			}).Warn("failed to delete image object")
		}
	}
}
