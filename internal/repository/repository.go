package repository

import (
	"context"
	"errors"

	"devconnector/internal/models"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrNotOwner        = errors.New("caller does not own the resource")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrCommentNotFound = errors.New("comment not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrEntryNotFound   = errors.New("profile entry not found")
)

// UpsertProfileRequest is the field set of a profile upsert. Nil optional
// fields keep their stored value; Social replaces the stored object.
type UpsertProfileRequest struct {
	ID             string // used only when the profile is created
	UserID         string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GitHubUsername *string
	Status         string
	Skills         []string
	Social         models.Social
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type ProfileRepository interface {
	Upsert(ctx context.Context, req UpsertProfileRequest) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error
	PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
}

// PostRepository mutates embedded collections with single guarded writes.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Delete(ctx context.Context, postID, userID string) error
	DeleteByUserID(ctx context.Context, userID string) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID string) (models.Likes, error)
	RemoveLike(ctx context.Context, postID, userID string) (models.Likes, error)
	AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comments, error)
	RemoveComment(ctx context.Context, postID, commentID, userID string) (models.Comments, error)
	AddImage(ctx context.Context, postID, userID string, image models.Image) (models.Images, error)
	RemoveImage(ctx context.Context, postID, imageID, userID string) (*models.Image, models.Images, error)
}

// HealthRepository reports whether the backing store is reachable.
type HealthRepository interface {
	Ping(ctx context.Context) error
	Name() string
}

type Repository struct {
	User    UserRepository
	Profile ProfileRepository
	Post    PostRepository
	Health  HealthRepository
}
