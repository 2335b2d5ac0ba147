package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/config"
)

// ConnectMongo connects, pings and ensures indexes. The returned client must
// be disconnected by the caller.
func ConnectMongo(ctx context.Context, cfg config.Mongo, log logrus.FieldLogger) (*mongo.Client, *mongo.Database, error) {
	log.WithField("database", cfg.Database).Info("connecting to mongo")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).
		SetServerSelectionTimeout(20 * time.Second).
		SetConnectTimeout(15 * time.Second).
		SetMaxPoolSize(25).
		SetMinPoolSize(1)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	log.Info("mongo ready")
	return client, db, nil
}

// MongoIndexes lists the indexes every collection needs. The unique ones back
// duplicate detection on registration and one-profile-per-user.
func MongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true),
			},
		},
		"profiles": {
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetName("uniq_user").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("by_date"),
			},
		},
		"posts": {
			{
				Keys:    bson.D{{Key: "date", Value: -1}},
				Options: options.Index().SetName("by_date"),
			},
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetName("by_user"),
			},
		},
	}
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range MongoIndexes() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}
