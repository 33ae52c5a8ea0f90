// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/notehive/internal/domain/models"
)

// Store holds user profile documents. The user id is issued by the
// external identity provider and treated as opaque. The groups array on a
// user is only ever edited by the membership store.
type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("user not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Upsert creates the profile document on first sight of a user and keeps
// the display name current afterwards. The groups array is never touched
// here.
func (s *Store) Upsert(ctx context.Context, id, name string) (models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"name": name, "updated_at": now},
		"$setOnInsert": bson.M{
			"groups":     []string{},
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
