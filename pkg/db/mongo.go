package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"flash-actu/pkg/domain"
)

// MongoClient archives episodes in a MongoDB collection.
type MongoClient struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection
}

// NewMongoClient creates a Mongo-backed episode archive.
func NewMongoClient(ctx context.Context, connectionString, databaseName, collectionName string) (*MongoClient, error) {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoClient{
		mongoClient: mongoClient,
		collection:  mongoClient.Database(databaseName).Collection(collectionName),
	}, nil
}

// SaveEpisode upserts the episode keyed by GUID.
func (c *MongoClient) SaveEpisode(ctx context.Context, ep *domain.Episode) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"guid": ep.GUID}
	update := bson.M{"$set": ep}
	opts := options.Update().SetUpsert(true)

	if _, err := c.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert episode: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *MongoClient) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}
