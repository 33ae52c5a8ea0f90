// internal/app/store/requests/requeststore.go
package requeststore

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
	ErrNotFound       = errors.New("note request not found")
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingGroup   = errors.New("group id is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("note_requests")}
}

// Create inserts a new request in the open state.
func (s *Store) Create(ctx context.Context, r models.NoteRequest) (models.NoteRequest, error) {
	if strings.TrimSpace(r.GroupID) == "" {
		return models.NoteRequest{}, ErrMissingGroup
	}
	if strings.TrimSpace(r.Subject) == "" {
		return models.NoteRequest{}, ErrMissingSubject
	}

	r.ID = primitive.NewObjectID().Hex()
	r.Status = models.RequestOpen
	r.Responses = []models.Response{}
	r.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.NoteRequest{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.NoteRequest, error) {
	var r models.NoteRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NoteRequest{}, ErrNotFound
		}
		return models.NoteRequest{}, err
	}
	return r, nil
}

// ListByGroup returns the group's requests, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID string) ([]models.NoteRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.NoteRequest, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Respond appends the response and flips the request to fulfilled in a
// single document update, so no reader ever sees a response with the
// status still open.
func (s *Store) Respond(ctx context.Context, requestID string, resp models.Response) (models.Response, error) {
	resp.ID = uuid.New().String()
	resp.CreatedAt = time.Now().UTC()
	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": requestID},
		bson.M{
			"$push": bson.M{"responses": resp},
			"$set":  bson.M{"status": models.RequestFulfilled},
		})
	if err != nil {
		return models.Response{}, err
	}
	if res.MatchedCount == 0 {
		return models.Response{}, ErrNotFound
	}
	return resp, nil
}

// MarkFulfilled forces the terminal state without a response, for manual
// resolution by the author.
func (s *Store) MarkFulfilled(ctx context.Context, requestID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": requestID},
		bson.M{"$set": bson.M{"status": models.RequestFulfilled}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the request and returns it so the caller can clean up
// response media.
func (s *Store) Delete(ctx context.Context, requestID string) (models.NoteRequest, error) {
	var r models.NoteRequest
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": requestID}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NoteRequest{}, ErrNotFound
		}
		return models.NoteRequest{}, err
	}
	return r, nil
}
