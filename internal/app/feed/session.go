// internal/app/feed/session.go
package feed

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/system/changefeed"
	"github.com/dalemusser/notehive/internal/app/system/subjects"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// Session is the live view over one group's feeds: the posts and requests
// subscriptions run concurrently with respect to each other, while
// deliveries within each one are serialized.
type Session struct {
	GroupID  string
	Posts    *changefeed.Subscription[models.Post]
	Requests *changefeed.Subscription[models.NoteRequest]
}

func openSession(ctx context.Context, db *mongo.Database, g models.Group, logger *zap.Logger) *Session {
	sort := bson.D{{Key: "created_at", Value: -1}}
	return &Session{
		GroupID: g.ID,
		Posts: changefeed.Watch(ctx, db.Collection("posts"), changefeed.Query{
			Filter: bson.D{{Key: "group_id", Value: g.ID}},
			Sort:   sort,
		}, postDecoder(g.CustomSubjects), logger),
		Requests: changefeed.Watch(ctx, db.Collection("note_requests"), changefeed.Query{
			Filter: bson.D{{Key: "group_id", Value: g.ID}},
			Sort:   sort,
		}, requestDecoder(g.CustomSubjects), logger),
	}
}

// Close tears both subscriptions down and waits for their delivery
// goroutines, so no snapshot arrives after Close returns.
func (s *Session) Close() {
	s.Posts.Close()
	s.Requests.Close()
}

// postDecoder drops documents whose subject resolves to nothing and
// defaults missing optionals so downstream code never sees nil slices or
// zero timestamps.
func postDecoder(custom []models.CustomSubject) changefeed.DecodeFunc[models.Post] {
	return func(raw bson.Raw) (models.Post, bool) {
		var p models.Post
		if err := bson.Unmarshal(raw, &p); err != nil {
			return models.Post{}, false
		}
		if !subjects.Known(p.Subject, custom) {
			return models.Post{}, false
		}
		if p.PhotoURLs == nil {
			p.PhotoURLs = []string{}
		}
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
		if p.Reactions == nil {
			p.Reactions = []models.Reaction{}
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		return p, true
	}
}

// groupDecoder defaults nil member sets and timestamps; groups have no
// required enum-valued fields, so nothing is dropped beyond documents
// that fail to unmarshal at all.
func groupDecoder(raw bson.Raw) (models.Group, bool) {
	var g models.Group
	if err := bson.Unmarshal(raw, &g); err != nil {
		return models.Group{}, false
	}
	if g.Members == nil {
		g.Members = []string{}
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	return g, true
}

// requestDecoder additionally drops documents whose status is outside the
// open/fulfilled state machine.
func requestDecoder(custom []models.CustomSubject) changefeed.DecodeFunc[models.NoteRequest] {
	return func(raw bson.Raw) (models.NoteRequest, bool) {
		var r models.NoteRequest
		if err := bson.Unmarshal(raw, &r); err != nil {
			return models.NoteRequest{}, false
		}
		if !models.IsValidRequestStatus(r.Status) {
			return models.NoteRequest{}, false
		}
		if !subjects.Known(r.Subject, custom) {
			return models.NoteRequest{}, false
		}
		if r.Responses == nil {
			r.Responses = []models.Response{}
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		return r, true
	}
}
