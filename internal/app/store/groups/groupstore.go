// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/notehive/internal/app/system/subjects"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// Store reads and updates group documents. Membership edits are not here:
// they touch user documents too and live in the membership store so both
// sides always change together.
type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound         = errors.New("group not found")
	ErrDuplicateSubject = errors.New("a subject with this name already exists in the group")
	ErrInvalidSubject   = errors.New("subject name is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByInviteCode looks a group up by its invite code, exact match.
func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"invite_code": code}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// ListForUser returns every group whose member set contains userID,
// newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Group, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCustomSubject appends a custom subject to the group. The name must
// not collide case-insensitively with a built-in subject or an existing
// custom one; a duplicate submission fails rather than silently
// deduplicating.
func (s *Store) AddCustomSubject(ctx context.Context, groupID string, sub models.CustomSubject) error {
	if strings.TrimSpace(sub.Name) == "" {
		return ErrInvalidSubject
	}

	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if subjects.Taken(sub.Name, g.CustomSubjects) {
		return ErrDuplicateSubject
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$push": bson.M{"custom_subjects": sub}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
