package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

type postRepo struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) repository.PostRepository {
	return &postRepo{col: db.Collection(postsCollection)}
}

func likeFilter(postID, userID string) bson.M {
	return bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}}
}

func unlikeFilter(postID, userID string) bson.M {
	return bson.M{"_id": postID, "likes.user": userID}
}

// commentOwnerFilter matches the post only while it holds commentID written by userID.
func commentOwnerFilter(postID, commentID, userID string) bson.M {
	return bson.M{
		"_id":      postID,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user": userID}},
	}
}

func pullByID(field, id string) bson.M {
	return bson.M{"$pull": bson.M{field: bson.M{"_id": id}}}
}

func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	post.Normalize()
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var p models.Post
	err := r.col.FindOne(ctx, bson.M{"_id": postID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	p.Normalize()
	return &p, nil
}

func (r *postRepo) List(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *postRepo) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (r *postRepo) Delete(ctx context.Context, postID, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": postID, "user": userID})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.classify(ctx, postID, repository.ErrNotOwner)
	}
	return nil
}

func (r *postRepo) DeleteByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := r.find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	if _, err := r.col.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		return nil, fmt.Errorf("delete posts of user: %w", err)
	}
	return posts, nil
}

func (r *postRepo) AddLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	post, err := r.update(ctx, likeFilter(postID, userID), prependUpdate("likes", models.Like{User: userID}))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classify(ctx, postID, repository.ErrAlreadyLiked)
	}
	if err != nil {
		return nil, fmt.Errorf("like post: %w", err)
	}
	return post.Likes, nil
}

func (r *postRepo) RemoveLike(ctx context.Context, postID, userID string) (models.Likes, error) {
	update := bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}}

	post, err := r.update(ctx, unlikeFilter(postID, userID), update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classify(ctx, postID, repository.ErrNotLiked)
	}
	if err != nil {
		return nil, fmt.Errorf("unlike post: %w", err)
	}
	return post.Likes, nil
}

func (r *postRepo) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comments, error) {
	post, err := r.update(ctx, bson.M{"_id": postID}, prependUpdate("comments", comment))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return post.Comments, nil
}

func (r *postRepo) RemoveComment(ctx context.Context, postID, commentID, userID string) (models.Comments, error) {
	post, err := r.update(ctx, commentOwnerFilter(postID, commentID, userID), pullByID("comments", commentID))
	if err == nil {
		return post.Comments, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("remove comment: %w", err)
	}

	current, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if current.Comment(commentID) == nil {
		return nil, repository.ErrCommentNotFound
	}
	return nil, repository.ErrNotOwner
}

func (r *postRepo) AddImage(ctx context.Context, postID, userID string, image models.Image) (models.Images, error) {
	update := bson.M{"$push": bson.M{"images": image}}

	post, err := r.update(ctx, bson.M{"_id": postID, "user": userID}, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classify(ctx, postID, repository.ErrNotOwner)
	}
	if err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}
	return post.Images, nil
}

func (r *postRepo) RemoveImage(ctx context.Context, postID, imageID, userID string) (*models.Image, models.Images, error) {
	current, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if current.UserID != userID {
		return nil, nil, repository.ErrNotOwner
	}

	var removed *models.Image
	for i := range current.Images {
		if current.Images[i].ID == imageID {
			removed = &current.Images[i]
			break
		}
	}
	if removed == nil {
		return nil, nil, repository.ErrImageNotFound
	}

	filter := bson.M{"_id": postID, "user": userID, "images._id": imageID}
	post, err := r.update(ctx, filter, pullByID("images", imageID))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, repository.ErrImageNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("remove image: %w", err)
	}
	return removed, post.Images, nil
}

// update applies update to the document matching filter and returns it as
// stored afterwards.
func (r *postRepo) update(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (r *postRepo) classify(ctx context.Context, postID string, guardErr error) error {
	found, err := exists(ctx, r.col, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if !found {
		return repository.ErrNotFound
	}
	return guardErr
}
