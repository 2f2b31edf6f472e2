package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

const settingsDocID = "settings"

// settingsDoc is the single settings document; the editable admin profile
// lives inside it, denormalized from the users table.
type settingsDoc struct {
	ID        string         `bson:"_id"`
	Profile   domain.Profile `bson:"profile"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type MongoSettings struct {
	collection *mongo.Collection
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func NewMongoSettings(db *mongo.Database) *MongoSettings {
	return &MongoSettings{collection: db.Collection("settings")}
}

func (m *MongoSettings) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var doc settingsDoc

	filter := bson.M{"_id": settingsDocID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &doc.Profile, nil
}

func (m *MongoSettings) SaveProfile(ctx context.Context, profile domain.Profile) error {
	filter := bson.M{"_id": settingsDocID}
	update := bson.M{"$set": bson.M{
		"profile":    profile,
		"updated_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
