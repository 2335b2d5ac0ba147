// Package mongo implements the repositories on MongoDB. Embedded collections
// are changed with single-document conditional updates so concurrent likes
// and comments never overwrite each other.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"devconnector/internal/repository"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"
)

func NewRepository(db *mongo.Database) *repository.Repository {
	return &repository.Repository{
		User:    NewUserRepo(db),
		Profile: NewProfileRepo(db),
		Post:    NewPostRepo(db),
		Health:  NewHealthRepo(db.Client()),
	}
}

// exists reports whether col holds a document matching filter.
func exists(ctx context.Context, col *mongo.Collection, filter bson.M) (bool, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count %s: %w", col.Name(), err)
	}
	return n > 0, nil
}

type healthRepo struct {
	client *mongo.Client
}

func NewHealthRepo(client *mongo.Client) repository.HealthRepository {
	return &healthRepo{client: client}
}

func (r *healthRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *healthRepo) Name() string {
	return "mongo"
}
