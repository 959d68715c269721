package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

func newMongoClient(ctx context.Context, log *logger.Logger, uri string, retry RetryConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("note-app").
		SetConnectTimeout(constants.DBConnectTimeout).
		SetServerSelectionTimeout(constants.DBConnectTimeout).
		SetMaxPoolSize(uint64(constants.DBPoolMaxConns)).
		SetMinPoolSize(uint64(constants.DBPoolMinConns)).
		SetMaxConnIdleTime(constants.DBPoolConnMaxIdleTime)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}

	var client *mongo.Client
	err := RetryWithBackoff(ctx, log, BackendMongo, retry, func(ctx context.Context) error {
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("mongodb client connected: max_pool=%d", constants.DBPoolMaxConns)
	return client, nil
}

// EnsureIndexes creates the unique user indexes that back duplicate detection, plus the
// owner/createdAt index used by note listing. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	users := database.Collection(constants.UsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	notes := database.Collection(constants.NotesCollection)
	_, err = notes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("owner_created"),
	})
	if err != nil {
		return fmt.Errorf("create note indexes: %w", err)
	}
	return nil
}
