// ABOUTME: MongoDB roast storage for deployments that already run a document database
// ABOUTME: Roasts live in one collection keyed by their UUID

package mongo

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/pkg/config"
)

const connectTimeout = 10 * time.Second

// Store implements RoastStorage on a MongoDB collection
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewStore connects, pings and ensures the user listing index
func NewStore(cfg config.MongoConfig) (*Store, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, stderrors.New("mongo uri and database cannot be empty")
	}
	if cfg.Collection == "" {
		cfg.Collection = "roasts"
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create roast index: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

// Create persists a new roast
func (s *Store) Create(ctx context.Context, roast *domain.Roast) error {
	if _, err := s.collection.InsertOne(ctx, roast); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &errors.ConflictError{Resource: "roast", ID: roast.ID, Reason: "already exists"}
		}
		return fmt.Errorf("failed to insert roast: %w", err)
	}
	return nil
}

// Get retrieves a roast by ID
func (s *Store) Get(ctx context.Context, id string) (*domain.Roast, error) {
	var roast domain.Roast
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&roast)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, &errors.NotFoundError{Resource: "roast", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roast: %w", err)
	}
	return &roast, nil
}

// UpdateScreenshotURL sets the screenshot of a roast that has none
func (s *Store) UpdateScreenshotURL(ctx context.Context, id, screenshotURL string) error {
	res, err := s.collection.UpdateOne(ctx,
		screenshotUnsetFilter(id),
		bson.M{"$set": bson.M{
			"screenshot_url": screenshotURL,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update screenshot: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := s.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to update screenshot: %w", err)
	}
	if n == 0 {
		return &errors.NotFoundError{Resource: "roast", ID: id}
	}
	return &errors.ConflictError{Resource: "roast", ID: id, Reason: "screenshot already set"}
}

// ListByUser returns a user's roasts, newest first
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, listOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list roasts: %w", err)
	}
	defer cursor.Close(ctx)

	roasts := make([]*domain.Roast, 0)
	if err := cursor.All(ctx, &roasts); err != nil {
		return nil, fmt.Errorf("failed to decode roasts: %w", err)
	}
	return roasts, nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// screenshotUnsetFilter matches the roast only while it has no screenshot
func screenshotUnsetFilter(id string) bson.M {
	return bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"screenshot_url": ""},
			bson.M{"screenshot_url": bson.M{"$exists": false}},
		},
	}
}

func listOptions(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
