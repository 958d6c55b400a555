package database

import (
	"context"
	"fmt"
	"time"

	"todo-app/src/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB represents the document store connection. The driver manages its
// own connection pool; this wrapper owns connect/disconnect lifecycle.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *logrus.Logger
}

// NewDB connects to the document store and verifies the connection
func NewDB(cfg *config.MongoConfig, logger *logrus.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// 接続をテスト
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.WithField("database", cfg.Database).Info("データベースに接続しました")

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

// Collection returns a handle for the named collection
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// EnsureTodoIndexes creates the indexes the common todo queries rely on
func (db *DB) EnsureTodoIndexes(ctx context.Context, collection string) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}}},
	}

	_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	db.logger.WithField("collection", collection).Info("インデックスを作成しました")
	return nil
}

// Close disconnects from the document store
func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("データベース接続を閉じています")
	return db.client.Disconnect(ctx)
}

// Health checks document store health
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.client.Ping(ctx, readpref.Primary())
}
