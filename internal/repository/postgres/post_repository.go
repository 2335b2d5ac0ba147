package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

const postColumns = `id, user_id, text, name, avatar, likes, comments, images, date`

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.Normalize()

	query := `
		INSERT INTO posts (id, user_id, text, name, avatar, likes, comments, images, date)
		VALUES (:id, :user_id, :text, :name, :avatar, :likes, :comments, :images, :date)
	`

	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post

	err := r.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts WHERE id = $1`, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	post.Normalize()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}

	if err := r.db.SelectContext(ctx, &posts, `SELECT `+postColumns+` FROM posts ORDER BY date DESC`); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	for i := range posts {
		posts[i].Normalize()
	}

	return posts, nil
}

// Delete removes the post only when userID owns it.
func (r *postRepository) Delete(ctx context.Context, postID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.ownershipError(ctx, postID)
	}

	return nil
}

func (r *postRepository) DeleteByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	deleted := []models.Post{}

	query := `DELETE FROM posts WHERE user_id = $1 RETURNING ` + postColumns
	if err := r.db.SelectContext(ctx, &deleted, query, userID); err != nil {
		return nil, fmt.Errorf("delete posts of user: %w", err)
	}

	return deleted, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	query := `
		UPDATE posts SET likes = jsonb_build_array(jsonb_build_object('user', $2::text)) || likes
		WHERE id = $1 AND NOT likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		RETURNING likes
	`

	var likes models.Likes
	err := r.db.GetContext(ctx, &likes, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classify(ctx, postID, repository.ErrAlreadyLiked)
		}
		return nil, fmt.Errorf("like post: %w", err)
	}

	return nonNil(likes), nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	query := `
		UPDATE posts SET likes = COALESCE((
			SELECT jsonb_agg(l ORDER BY ord)
			FROM jsonb_array_elements(likes) WITH ORDINALITY AS t(l, ord)
			WHERE l->>'user' <> $2
		), '[]'::jsonb)
		WHERE id = $1 AND likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		RETURNING likes
	`

	var likes models.Likes
	err := r.db.GetContext(ctx, &likes, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classify(ctx, postID, repository.ErrNotLiked)
		}
		return nil, fmt.Errorf("unlike post: %w", err)
	}

	return nonNil(likes), nil
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comments, error) {
	payload, err := json.Marshal(models.Comments{comment})
	if err != nil {
		return nil, fmt.Errorf("encode comment: %w", err)
	}

	query := `UPDATE posts SET comments = $2::jsonb || comments WHERE id = $1 RETURNING comments`

	var comments models.Comments
	err = r.db.GetContext(ctx, &comments, query, postID, string(payload))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}

	return nonNil(comments), nil
}

// RemoveComment deletes the comment only when it exists and belongs to userID.
func (r *postRepository) RemoveComment(ctx context.Context, postID, commentID, userID string) (models.Comments, error) {
	query := `
		UPDATE posts SET comments = COALESCE((
			SELECT jsonb_agg(c ORDER BY ord)
			FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(c, ord)
			WHERE c->>'_id' <> $2
		), '[]'::jsonb)
		WHERE id = $1 AND comments @> jsonb_build_array(jsonb_build_object('_id', $2::text, 'user', $3::text))
		RETURNING comments
	`

	var comments models.Comments
	err := r.db.GetContext(ctx, &comments, query, postID, commentID, userID)
	if err == nil {
		return nonNil(comments), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("remove comment: %w", err)
	}

	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Comment(commentID) == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, repository.ErrCommentNotFound)
	}
	return nil, fmt.Errorf("comment %s: %w", commentID, repository.ErrNotOwner)
}

func (r *postRepository) AddImage(ctx context.Context, postID, userID string, image models.Image) (models.Images, error) {
	payload, err := json.Marshal(models.Images{image})
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	query := `UPDATE posts SET images = images || $3::jsonb WHERE id = $1 AND user_id = $2 RETURNING images`

	var images models.Images
	err = r.db.GetContext(ctx, &images, query, postID, userID, string(payload))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.ownershipError(ctx, postID)
		}
		return nil, fmt.Errorf("add image: %w", err)
	}

	return nonNil(images), nil
}

func (r *postRepository) RemoveImage(ctx context.Context, postID, imageID, userID string) (*models.Image, models.Images, error) {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if post.UserID != userID {
		return nil, nil, fmt.Errorf("post %s: %w", postID, repository.ErrNotOwner)
	}

	var removed *models.Image
	for i := range post.Images {
		if post.Images[i].ID == imageID {
			removed = &post.Images[i]
			break
		}
	}
	if removed == nil {
		return nil, nil, fmt.Errorf("image %s: %w", imageID, repository.ErrImageNotFound)
	}

	query := `
		UPDATE posts SET images = COALESCE((
			SELECT jsonb_agg(i ORDER BY ord)
			FROM jsonb_array_elements(images) WITH ORDINALITY AS t(i, ord)
			WHERE i->>'_id' <> $3
		), '[]'::jsonb)
		WHERE id = $1 AND user_id = $2 AND images @> jsonb_build_array(jsonb_build_object('_id', $3::text))
		RETURNING images
	`

	var images models.Images
	err = r.db.GetContext(ctx, &images, query, postID, userID, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// removed concurrently
			return nil, nil, fmt.Errorf("image %s: %w", imageID, repository.ErrImageNotFound)
		}
		return nil, nil, fmt.Errorf("remove image: %w", err)
	}

	return removed, nonNil(images), nil
}

// classify explains why a guarded update matched nothing: either the post is
// gone, or the guard itself failed with guardErr.
func (r *postRepository) classify(ctx context.Context, postID string, guardErr error) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID); err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if !exists {
		return fmt.Errorf("post %s: %w", postID, repository.ErrNotFound)
	}
	return fmt.Errorf("post %s: %w", postID, guardErr)
}

func (r *postRepository) ownershipError(ctx context.Context, postID string) error {
	return r.classify(ctx, postID, repository.ErrNotOwner)
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
