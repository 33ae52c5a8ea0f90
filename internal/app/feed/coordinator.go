// internal/app/feed/coordinator.go

// Package feed orchestrates the note and request feeds for one group:
// write-side mutations that run the media pipeline before any document
// write, and the read-side live session built on change-feed
// subscriptions. There is no optimistic local insert; the writer observes
// its own change through the same subscription as everyone else.
package feed

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/app/system/changefeed"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/app/system/reactions"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// ErrNotAuthor is returned when a delete is attempted by someone other
// than the entity's author.
var ErrNotAuthor = errors.New("only the author may delete this")

type Coordinator struct {
	db       *mongo.Database
	groups   *groupstore.Store
	posts    *poststore.Store
	requests *requeststore.Store
	media    *media.Pipeline
	log      *zap.Logger

	mu      sync.Mutex
	session *Session
}

func New(db *mongo.Database, groups *groupstore.Store, posts *poststore.Store, requests *requeststore.Store, pipeline *media.Pipeline, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		db:       db,
		groups:   groups,
		posts:    posts,
		requests: requests,
		media:    pipeline,
		log:      logger,
	}
}

// CreatePost ingests the photos first; the document is written only after
// every photo has a durable URL. The returned post is a point-in-time
// object, superseded by the next feed snapshot.
func (c *Coordinator) CreatePost(ctx context.Context, p models.Post, images [][]byte) (models.Post, error) {
	if len(images) > 0 {
		urls, err := c.media.Ingest(ctx, images, postPrefix(p.GroupID))
		if err != nil {
			return models.Post{}, err
		}
		p.PhotoURLs = urls
	}
	return c.posts.Create(ctx, p)
}

// AddComment appends one comment to the post.
func (c *Coordinator) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comment, error) {
	return c.posts.AddComment(ctx, postID, comment)
}

// AddPhotos ingests new images and appends their URLs to the post without
// disturbing prior entries.
func (c *Coordinator) AddPhotos(ctx context.Context, postID, groupID string, images [][]byte) error {
	urls, err := c.media.Ingest(ctx, images, postPrefix(groupID))
	if err != nil {
		return err
	}
	return c.posts.AppendPhotos(ctx, postID, urls)
}

// ToggleReaction flips userID's membership in the emoji bucket, computed
// from the post's current reaction list, and replaces the whole field.
func (c *Coordinator) ToggleReaction(ctx context.Context, postID, emoji, userID string) error {
	p, err := c.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return c.posts.SetReactions(ctx, postID, reactions.Toggle(p.Reactions, emoji, userID))
}

// DeletePost removes the post, author-only, and best-effort deletes its
// photos after the document is gone.
func (c *Coordinator) DeletePost(ctx context.Context, postID, userID string) error {
	p, err := c.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != userID {
		return ErrNotAuthor
	}
	deleted, err := c.posts.Delete(ctx, postID)
	if err != nil {
		return err
	}
	c.media.Delete(deleted.PhotoURLs)
	return nil
}

// CreateRequest writes a new open request.
func (c *Coordinator) CreateRequest(ctx context.Context, r models.NoteRequest) (models.NoteRequest, error) {
	return c.requests.Create(ctx, r)
}

// RespondToRequest ingests the response photos, then appends the response
// and flips the request to fulfilled in one write.
func (c *Coordinator) RespondToRequest(ctx context.Context, requestID, groupID string, resp models.Response, images [][]byte) (models.Response, error) {
	if len(images) > 0 {
		urls, err := c.media.Ingest(ctx, images, responsePrefix(groupID))
		if err != nil {
			return models.Response{}, err
		}
		resp.PhotoURLs = urls
	}
	return c.requests.Respond(ctx, requestID, resp)
}

// MarkFulfilled forces the terminal state without a response.
func (c *Coordinator) MarkFulfilled(ctx context.Context, requestID string) error {
	return c.requests.MarkFulfilled(ctx, requestID)
}

// DeleteRequest removes the request, author-only, and best-effort deletes
// every response photo.
func (c *Coordinator) DeleteRequest(ctx context.Context, requestID, userID string) error {
	r, err := c.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if r.AuthorID != userID {
		return ErrNotAuthor
	}
	deleted, err := c.requests.Delete(ctx, requestID)
	if err != nil {
		return err
	}
	var urls []string
	for _, resp := range deleted.Responses {
		urls = append(urls, resp.PhotoURLs...)
	}
	c.media.Delete(urls)
	return nil
}

// OpenSession opens an untracked live session for groupID. Callers own
// the returned session and must Close it; streaming endpoints open one
// per connection.
func (c *Coordinator) OpenSession(ctx context.Context, groupID string) (*Session, error) {
	g, err := c.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return openSession(ctx, c.db, g, c.log), nil
}

// OpenGroupsFeed subscribes to the caller's group list: every group whose
// member set contains userID, newest first. Callers own the subscription
// and must Close it.
func (c *Coordinator) OpenGroupsFeed(ctx context.Context, userID string) *changefeed.Subscription[models.Group] {
	return changefeed.Watch(ctx, c.db.Collection("groups"), changefeed.Query{
		Filter: bson.D{{Key: "members", Value: userID}},
		Sort:   bson.D{{Key: "created_at", Value: -1}},
	}, groupDecoder, c.log)
}

// Switch tears down the current live session, if any, and opens one for
// groupID. The old session is fully closed before the new subscriptions
// are established, so a group change never double-delivers.
func (c *Coordinator) Switch(ctx context.Context, groupID string) (*Session, error) {
	g, err := c.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	c.session = openSession(ctx, c.db, g, c.log)
	return c.session, nil
}

// CloseSession tears down the current live session, if any.
func (c *Coordinator) CloseSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}

func postPrefix(groupID string) string {
	return "groups/" + groupID + "/posts"
}

func responsePrefix(groupID string) string {
	return "groups/" + groupID + "/responses"
}
