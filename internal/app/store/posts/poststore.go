// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/notehive/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound       = errors.New("post not found")
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingGroup   = errors.New("group id is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts a new post. The id and created_at are assigned here; the
// returned value is the point-in-time object the caller constructed, which
// the next feed snapshot supersedes.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if strings.TrimSpace(p.GroupID) == "" {
		return models.Post{}, ErrMissingGroup
	}
	if strings.TrimSpace(p.Subject) == "" {
		return models.Post{}, ErrMissingSubject
	}

	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt = time.Now().UTC()
	if p.PhotoURLs == nil {
		p.PhotoURLs = []string{}
	}
	p.Comments = []models.Comment{}
	p.Reactions = []models.Reaction{}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return p, nil
}

// ListByGroup returns the group's posts, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Post, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment appends one comment, assigning its id and timestamp.
func (s *Store) AddComment(ctx context.Context, postID string, c models.Comment) (models.Comment, error) {
	if strings.TrimSpace(c.Text) == "" {
		return models.Comment{}, errors.New("comment text is required")
	}
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return models.Comment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, ErrNotFound
	}
	return c, nil
}

// AppendPhotos appends already-uploaded photo URLs to the post without
// disturbing prior entries.
func (s *Store) AppendPhotos(ctx context.Context, postID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"photo_urls": bson.M{"$each": urls}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReactions replaces the whole reactions field. The value is computed
// from the caller's last-known list, so concurrent toggles on the same
// post can overwrite each other; that lost update is accepted and not
// detected here.
func (s *Store) SetReactions(ctx context.Context, postID string, list []models.Reaction) error {
	if list == nil {
		list = []models.Reaction{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"reactions": list}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post and returns it so the caller can clean up its
// media.
func (s *Store) Delete(ctx context.Context, postID string) (models.Post, error) {
	var p models.Post
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": postID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return p, nil
}
