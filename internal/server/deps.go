package server

import (
	"context"
	"net"

	"github.com/organize/tasktracker/internal/config"
	"github.com/organize/tasktracker/internal/database"
	"github.com/organize/tasktracker/internal/rpc"
	"github.com/organize/tasktracker/internal/tokens"
	"github.com/organize/tasktracker/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoAttempts = 5

// NewCodec builds the token codec from the shared secret and any retired secrets.
func NewCodec(cfg config.JWTConfig) (*tokens.Codec, error) {
	keys, err := tokens.NewStaticKeys(cfg.Secret, cfg.PreviousSecrets...)
	if err != nil {
		return nil, err
	}
	return tokens.NewCodec(keys, cfg.TokenTTL), nil
}

// RetryPolicy converts the configured attempts and backoff for the RPC clients.
func RetryPolicy(cfg config.ServicesConfig) rpc.RetryPolicy {
	return rpc.RetryPolicy{MaxAttempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
}

// ConnectRedis returns a client when Redis is configured and answering, nil otherwise.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Host, cfg.Port, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s:%s", cfg.Host, cfg.Port)
	return client
}

// ConnectMongo opens the configured database. A nil database with a nil error
// means MongoDB is not configured or unreachable and the caller should fall back
// to the in-memory repositories. The returned func disconnects the client.
func ConnectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Database, func(), error) {
	noop := func() {}
	if cfg.URI == "" {
		logger.Infof("MONGODB_URI not set, using in-memory repositories")
		return nil, noop, nil
	}
	client, err := database.ConnectMongoWithRetry(ctx, cfg.URI, cfg.Timeout, mongoAttempts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, noop, ctx.Err()
		}
		logger.Warnf("could not connect to MongoDB after %d attempts, using in-memory repositories: %v", mongoAttempts, err)
		return nil, noop, nil
	}
	logger.Infof("connected to MongoDB database %s", cfg.Database)
	return client.Database(cfg.Database), func() { _ = client.Disconnect(context.Background()) }, nil
}

// MongoCheck pings db for the readiness probe.
func MongoCheck(db *mongo.Database) ReadyCheck {
	return func(ctx context.Context) error { return db.Client().Ping(ctx, nil) }
}

// RedisCheck pings client for the readiness probe.
func RedisCheck(client *redis.Client) ReadyCheck {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}
