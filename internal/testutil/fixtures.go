// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/notehive/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithIdentity sets the identity headers the API layer expects from the
// external auth front end.
func WithIdentity(r *http.Request, userID, userName string) *http.Request {
	r.Header.Set("X-User-ID", userID)
	r.Header.Set("X-User-Name", userName)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user profile with the given groups.
func (f *Fixtures) CreateUser(ctx context.Context, id, name string, groups ...string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	if groups == nil {
		groups = []string{}
	}
	u := models.User{
		ID:        id,
		Name:      name,
		Groups:    groups,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup inserts a group with the given invite code and members. The
// members' user documents are not touched; create them with CreateUser
// when the test needs both sides.
func (f *Fixtures) CreateGroup(ctx context.Context, name, inviteCode, createdBy string, members ...string) models.Group {
	f.t.Helper()

	if members == nil {
		members = []string{}
	}
	g := models.Group{
		ID:         primitive.NewObjectID().Hex(),
		Name:       name,
		School:     "Test School",
		InviteCode: inviteCode,
		Members:    members,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreatePost inserts a post into the group's feed.
func (f *Fixtures) CreatePost(ctx context.Context, groupID, authorID, subject string, photoURLs ...string) models.Post {
	f.t.Helper()

	if photoURLs == nil {
		photoURLs = []string{}
	}
	p := models.Post{
		ID:          primitive.NewObjectID().Hex(),
		GroupID:     groupID,
		AuthorID:    authorID,
		AuthorName:  "Author " + authorID,
		Subject:     subject,
		Date:        time.Now().UTC(),
		Description: "test post",
		PhotoURLs:   photoURLs,
		Comments:    []models.Comment{},
		Reactions:   []models.Reaction{},
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}

// AddUserGroup adds a group id directly to a user's groups set, for
// seeding states the stores would not normally produce.
func (f *Fixtures) AddUserGroup(ctx context.Context, userID, groupID string) {
	f.t.Helper()
	if _, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"groups": groupID}}); err != nil {
		f.t.Fatalf("failed to add group to user: %v", err)
	}
}

// CreateRequest inserts an open note request.
func (f *Fixtures) CreateRequest(ctx context.Context, groupID, authorID, subject string) models.NoteRequest {
	f.t.Helper()

	r := models.NoteRequest{
		ID:          primitive.NewObjectID().Hex(),
		GroupID:     groupID,
		AuthorID:    authorID,
		AuthorName:  "Author " + authorID,
		Subject:     subject,
		Date:        time.Now().UTC(),
		Description: "test request",
		Status:      models.RequestOpen,
		Responses:   []models.Response{},
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("note_requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return r
}
