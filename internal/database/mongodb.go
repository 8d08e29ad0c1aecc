package database

import (
	"context"
	"fmt"
	"time"

	"github.com/organize/tasktracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectMongoWithRetry retries ConnectMongo with doubling backoff to tolerate startup races.
func ConnectMongoWithRetry(ctx context.Context, uri string, timeout time.Duration, attempts int) (*mongo.Client, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := ConnectMongo(ctx, uri, timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, attempts, err)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

// Sequence hands out increasing int64 ids backed by a counters collection,
// one document per sequence name.
type Sequence struct {
	col  *mongo.Collection
	name string
}

func NewSequence(db *mongo.Database, name string) *Sequence {
	return &Sequence{col: db.Collection("counters"), name: name}
}

// Next atomically increments and returns the sequence value.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": s.name}, bson.M{"$inc": bson.M{"value": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return doc.Value, nil
}

// EnsureUniqueIndex creates a unique ascending index on field.
func EnsureUniqueIndex(ctx context.Context, col *mongo.Collection, field string) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create index %s.%s: %w", col.Name(), field, err)
	}
	return nil
}
