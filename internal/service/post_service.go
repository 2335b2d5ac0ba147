package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"devconnector/internal/apperr"
	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/storage"
)

const (
	msgPostNotFound    = "Post not found"
	msgNotAuthorized   = "User not authorized"
	msgCommentNotFound = "Comment does not exist"
	msgNoImageStorage  = "Image storage is not configured"
)

// ImageUpload is one validated file destined for a post.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PostService interface {
	Create(ctx context.Context, userID, text string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) (models.Likes, error)
	Unlike(ctx context.Context, userID, postID string) (models.Likes, error)
	AddComment(ctx context.Context, userID, postID, text string) (models.Comments, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) (models.Comments, error)
	AddImage(ctx context.Context, userID, postID string, upload ImageUpload) (*models.Image, error)
	DeleteImage(ctx context.Context, userID, postID, imageID string) (models.Images, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	storage  storage.Storage
	images   *imageCleaner
	now      func() time.Time
}

// NewPostService builds the post service. store may be nil, in which case
// image operations fail with a server error.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, store storage.Storage, log logrus.FieldLogger) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		storage:  store,
		images:   &imageCleaner{store: store, log: log},
		now:      time.Now,
	}
}

// author loads the caller so name and avatar can be snapshotted.
func (p *postService) author(ctx context.Context, op, userID string) (*models.User, error) {
	user, err := p.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(op, "User not found")
		}
		return nil, apperr.Internal(op, err)
	}
	return user, nil
}

func (p *postService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	const op = "PostService.Create"

	user, err := p.author(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   p.now().UTC(),
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return post, nil
}

func (p *postService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := p.postRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("PostService.List", err)
	}
	return posts, nil
}

func (p *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	const op = "PostService.Get"

	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, postError(op, err)
	}
	return post, nil
}

func (p *postService) Delete(ctx context.Context, userID, postID string) error {
	const op = "PostService.Delete"

	post, err := p.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperr.Unauthorized(op, msgNotAuthorized)
	}

	if err := p.postRepo.Delete(ctx, postID, userID); err != nil {
		return postError(op, err)
	}

	p.images.remove(ctx, post.ID, post.Images)
	return nil
}

func (p *postService) Like(ctx context.Context, userID, postID string) (models.Likes, error) {
	const op = "PostService.Like"

	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	likes, err := p.postRepo.AddLike(ctx, postID, userID)
	if err != nil {
		return nil, postError(op, err)
	}
	return likes, nil
}

func (p *postService) Unlike(ctx context.Context, userID, postID string) (models.Likes, error) {
	const op = "PostService.Unlike"

	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	likes, err := p.postRepo.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, postError(op, err)
	}
	return likes, nil
}

func (p *postService) AddComment(ctx context.Context, userID, postID, text string) (models.Comments, error) {
	const op = "PostService.AddComment"

	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	user, err := p.author(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		User:   user.ID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   p.now().UTC(),
	}

	comments, err := p.postRepo.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, postError(op, err)
	}
	return comments, nil
}

func (p *postService) DeleteComment(ctx context.Context, userID, postID, commentID string) (models.Comments, error) {
	const op = "PostService.DeleteComment"

	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	comments, err := p.postRepo.RemoveComment(ctx, postID, commentID, userID)
	if err != nil {
		return nil, postError(op, err)
	}
	return comments, nil
}

func (p *postService) AddImage(ctx context.Context, userID, postID string, upload ImageUpload) (*models.Image, error) {
	const op = "PostService.AddImage"

	if p.storage == nil {
		return nil, apperr.E(apperr.CodeInternal, op, msgNoImageStorage, nil)
	}

	post, err := p.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperr.Unauthorized(op, msgNotAuthorized)
	}

	objectName, url, err := p.storage.UploadImage(ctx, postID, upload.FileName, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	image := models.Image{
		ID:     uuid.NewString(),
		URL:    url,
		Object: objectName,
		Date:   p.now().UTC(),
	}

	if _, err := p.postRepo.AddImage(ctx, postID, userID, image); err != nil {
		// the record never referenced the object, so drop it
		p.images.remove(ctx, postID, []models.Image{image})
		return nil, postError(op, err)
	}
	return &image, nil
}

func (p *postService) DeleteImage(ctx context.Context, userID, postID, imageID string) (models.Images, error) {
	const op = "PostService.DeleteImage"

	if p.storage == nil {
		return nil, apperr.E(apperr.CodeInternal, op, msgNoImageStorage, nil)
	}
	if !validID(postID) {
		return nil, apperr.NotFound(op, msgPostNotFound)
	}

	removed, images, err := p.postRepo.RemoveImage(ctx, postID, imageID, userID)
	if err != nil {
		return nil, postError(op, err)
	}

	p.images.remove(ctx, postID, []models.Image{*removed})
	return images, nil
}

// postError translates repository failures on posts into client errors.
func postError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(op, msgPostNotFound)
	case errors.Is(err, repository.ErrNotOwner):
		return apperr.Unauthorized(op, msgNotAuthorized)
	case errors.Is(err, repository.ErrAlreadyLiked):
		return apperr.BadRequest(op, "Post already liked")
	case errors.Is(err, repository.ErrNotLiked):
		return apperr.BadRequest(op, "Post not liked")
	case errors.Is(err, repository.ErrCommentNotFound):
		return apperr.NotFound(op, msgCommentNotFound)
	case errors.Is(err, repository.ErrImageNotFound):
		return apperr.NotFound(op, "Image not found")
	default:
		return apperr.Internal(op, err)
	}
}
