package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/prompts"
	"github.com/prompthub/prompthub/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Ids are ObjectID
// hex strings stored as string _id values.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		logger.Warnf("prompts: create indexes: %v", err)
	}
	return &MongoRepo{col: col}
}

func mongoFilter(f prompts.Filter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["userId"] = f.UserID
	}
	switch f.Visibility {
	case prompts.VisibilityPublic:
		q["isPublic"] = true
	case prompts.VisibilityPrivate:
		q["isPublic"] = false
	}
	return q
}

func (m *MongoRepo) Create(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	doc := p.Clone()
	doc.ID = primitive.NewObjectID().Hex()
	// Mongo stores milliseconds; truncate so the returned value matches reads.
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc.Upvotes = 0
	doc.Views = 0
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *MongoRepo) List(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Prompt{}
	for cur.Next(ctx) {
		var p models.Prompt
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p.Normalize())
	}
	return out, cur.Err()
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p.Normalize(), nil
}

func (m *MongoRepo) Increment(ctx context.Context, id, field string, delta int64) (*models.Prompt, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Prompt
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p.Normalize(), nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
