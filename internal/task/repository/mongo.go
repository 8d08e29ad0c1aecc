package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/organize/tasktracker/internal/database"
	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores tasks in the "tasks" collection keyed by an integer "id"
// drawn from the "tasks" sequence.
type MongoRepo struct {
	col *mongo.Collection
	seq *database.Sequence
}

func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	col := db.Collection("tasks")
	if err := database.EnsureUniqueIndex(ctx, col, "id"); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col, seq: database.NewSequence(db, "tasks")}, nil
}

func (m *MongoRepo) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	id, err := m.seq.Next(ctx)
	if err != nil {
		return nil, err
	}
	stored := t.Clone()
	stored.ID = id
	if _, err := m.col.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return stored, nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*task.Task, error) {
	var t task.Task
	if err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task not found with id %d", id)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (m *MongoRepo) List(ctx context.Context, f Filter) ([]*task.Task, error) {
	q := bson.M{}
	if f.Status != nil {
		q["status"] = *f.Status
	}
	if f.AssignedUserID != nil {
		q["assignedUserId"] = *f.AssignedUserID
	}
	cur, err := m.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)
	out := []*task.Task{}
	for cur.Next(ctx) {
		var t task.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

// Update replaces the whole record, so a nil pointer field is removed from the document.
func (m *MongoRepo) Update(ctx context.Context, t *task.Task) (*task.Task, error) {
	res, err := m.col.ReplaceOne(ctx, bson.M{"id": t.ID}, t)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperr.NotFound("task not found with id %d", t.ID)
	}
	return t.Clone(), nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("task not found with id %d", id)
	}
	return nil
}
