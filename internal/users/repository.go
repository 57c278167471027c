package users

import (
	"context"
	"errors"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrValidation    = errors.New("validation failed")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	// UpsertByExternalID writes the profile snapshot (email, full name, image)
	// and leaves any chosen username untouched.
	UpsertByExternalID(ctx context.Context, u *models.User) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// SetUsername never creates a user; ErrNotFound if externalID is unknown
	// and ErrUsernameTaken if another user holds username.
	SetUsername(ctx context.Context, externalID, username string) (*models.User, error)
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection and
// ensures its unique indexes. Username uniqueness only applies to non-empty values.
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	idx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$gt": ""}}),
		},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		logger.Warnf("users: create indexes: %v", err)
	}
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) UpsertByExternalID(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"externalId": u.ExternalID}
	update := bson.M{
		"$set": bson.M{
			"email":     u.Email,
			"fullName":  u.FullName,
			"imageUrl":  u.ImageURL,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"externalId": externalID})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) SetUsername(ctx context.Context, externalID, username string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"username":  username,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"externalId": externalID}, update, opts).Decode(&updated)
	if err != nil {
		return nil, setUsernameErr(err)
	}
	return &updated, nil
}

// setUsernameErr maps driver errors from a username write. The partial unique
// index on username reports a lost race as a duplicate key.
func setUsernameErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrUsernameTaken
	}
	return err
}
