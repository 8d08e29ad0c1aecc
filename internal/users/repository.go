package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/organize/tasktracker/internal/database"
	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines persistence operations for users. Lookups return
// (nil, nil) when no user matches.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
	seq *database.Sequence
}

// NewMongoUserRepository creates a repository over db's "users" collection and
// ensures email and id are unique.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	col := db.Collection("users")
	for _, field := range []string{"email", "id"} {
		if err := database.EnsureUniqueIndex(ctx, col, field); err != nil {
			return nil, err
		}
	}
	return &MongoUserRepository{col: col, seq: database.NewSequence(db, "users")}, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	id, err := r.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	u.ID = id
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("user with email %s already exists", u.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)
	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}
