package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/organize/tasktracker/internal/database"
	"github.com/organize/tasktracker/internal/submission"
	"github.com/organize/tasktracker/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores submissions in the "submissions" collection.
type MongoRepo struct {
	col *mongo.Collection
	seq *database.Sequence
}

func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	col := db.Collection("submissions")
	if err := database.EnsureUniqueIndex(ctx, col, "id"); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col, seq: database.NewSequence(db, "submissions")}, nil
}

func (m *MongoRepo) Create(ctx context.Context, s *submission.Submission) (*submission.Submission, error) {
	id, err := m.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.ID = id
	if _, err := m.col.InsertOne(ctx, cp); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return &cp, nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	var s submission.Submission
	if err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("submission not found with id %d", id)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &s, nil
}

func (m *MongoRepo) List(ctx context.Context, f Filter) ([]*submission.Submission, error) {
	q := bson.M{}
	if f.TaskID != nil {
		q["taskId"] = *f.TaskID
	}
	cur, err := m.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer cur.Close(ctx)
	out := []*submission.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) Update(ctx context.Context, s *submission.Submission) (*submission.Submission, error) {
	res, err := m.col.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("submission not found with id %d", s.ID)
	}
	cp := *s
	return &cp, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("submission not found with id %d", id)
	}
	return nil
}
