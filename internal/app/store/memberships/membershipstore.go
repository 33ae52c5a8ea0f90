// internal/app/store/memberships/membershipstore.go
package membershipstore

// Membership is denormalized in both directions: group.members holds user
// ids and user.groups holds group ids. Every operation here edits both
// sides inside one transaction so neither can be observed without the
// other. No single-sided membership mutation exists anywhere else in the
// codebase.

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/system/invitecode"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/app/system/txn"
	"github.com/dalemusser/notehive/internal/domain/models"
)

type Store struct {
	client   *mongo.Client
	groups   *mongo.Collection
	users    *mongo.Collection
	posts    *mongo.Collection
	requests *mongo.Collection
	media    *media.Pipeline
	log      *zap.Logger
}

var (
	ErrGroupNotFound = errors.New("no group with this invite code")
	ErrAlreadyMember = errors.New("you are already a member of this group")
	ErrMissingName   = errors.New("group name is required")
)

// codeMintAttempts bounds invite-code regeneration on unique-index
// collisions.
const codeMintAttempts = 5

func New(db *mongo.Database, pipeline *media.Pipeline, logger *zap.Logger) *Store {
	return &Store{
		client:   db.Client(),
		groups:   db.Collection("groups"),
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		requests: db.Collection("note_requests"),
		media:    pipeline,
		log:      logger,
	}
}

// CreateGroup inserts a new group with a fresh invite code and the creator
// as its only member, and adds the group to the creator's groups set, all
// in one transaction. A collision on the invite code's unique index mints
// a new code and retries.
func (s *Store) CreateGroup(ctx context.Context, name, school, userID string) (models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return models.Group{}, ErrMissingName
	}

	var lastErr error
	for attempt := 0; attempt < codeMintAttempts; attempt++ {
		code, err := invitecode.New()
		if err != nil {
			return models.Group{}, err
		}

		g := models.Group{
			ID:         primitive.NewObjectID().Hex(),
			Name:       name,
			School:     school,
			InviteCode: code,
			Members:    []string{userID},
			CreatedBy:  userID,
			CreatedAt:  time.Now().UTC(),
		}

		err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
			if _, err := s.groups.InsertOne(ctx, g); err != nil {
				return err
			}
			return s.addGroupToUser(ctx, userID, g.ID)
		})
		if err == nil {
			return g, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Group{}, err
		}
		lastErr = err
		s.log.Info("invite code collision, reminting", zap.String("group", name))
	}
	return models.Group{}, lastErr
}

// Join adds userID to the group addressed by the invite code. The
// membership precondition is checked against a fresh read immediately
// before the transaction; two concurrent joins by the same user can both
// pass it, which is harmless because both sides are added with $addToSet.
//
// The returned group has the new member appended in memory so callers can
// show success without waiting for the feed echo.
func (s *Store) Join(ctx context.Context, code, userID string) (models.Group, error) {
	var g models.Group
	if err := s.groups.FindOne(ctx, bson.M{"invite_code": code}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrGroupNotFound
		}
		return models.Group{}, err
	}
	if g.HasMember(userID) {
		return models.Group{}, ErrAlreadyMember
	}

	err := txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.groups.UpdateOne(ctx,
			bson.M{"_id": g.ID},
			bson.M{"$addToSet": bson.M{"members": userID}}); err != nil {
			return err
		}
		return s.addGroupToUser(ctx, userID, g.ID)
	})
	if err != nil {
		return models.Group{}, err
	}

	g.Members = append(g.Members, userID)
	return g, nil
}

// Leave removes userID from both sides. Leaving a group the user is not a
// member of is a no-op that still succeeds.
func (s *Store) Leave(ctx context.Context, groupID, userID string) error {
	return txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.groups.UpdateOne(ctx,
			bson.M{"_id": groupID},
			bson.M{"$pull": bson.M{"members": userID}}); err != nil {
			return err
		}
		_, err := s.users.UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$pull": bson.M{"groups": groupID}})
		return err
	})
}

// DeleteGroup removes the group, every post and request in it, and the
// group's id from every member's groups set, in one transaction. Only the
// group's creator may delete it; that policy is enforced by the caller.
//
// Media referenced by the deleted documents is cleaned up after the
// commit, fire and forget: a crash between commit and cleanup leaves
// orphaned objects but never a document referencing deleted media.
func (s *Store) DeleteGroup(ctx context.Context, group models.Group) error {
	urls, err := s.collectMediaURLs(ctx, group.ID)
	if err != nil {
		return err
	}

	err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := s.posts.DeleteMany(ctx, bson.M{"group_id": group.ID}); err != nil {
			return err
		}
		if _, err := s.requests.DeleteMany(ctx, bson.M{"group_id": group.ID}); err != nil {
			return err
		}
		if len(group.Members) > 0 {
			if _, err := s.users.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": group.Members}},
				bson.M{"$pull": bson.M{"groups": group.ID}}); err != nil {
				return err
			}
		}
		_, err := s.groups.DeleteOne(ctx, bson.M{"_id": group.ID})
		return err
	})
	if err != nil {
		return err
	}

	s.media.Delete(urls)
	return nil
}

// collectMediaURLs gathers the union of post photos and request response
// photos for the group before the documents disappear.
func (s *Store) collectMediaURLs(ctx context.Context, groupID string) ([]string, error) {
	var urls []string

	cur, err := s.posts.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetProjection(bson.M{"photo_urls": 1}))
	if err != nil {
		return nil, err
	}
	var posts []struct {
		PhotoURLs []string `bson:"photo_urls"`
	}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		urls = append(urls, p.PhotoURLs...)
	}

	cur, err = s.requests.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetProjection(bson.M{"responses.photo_urls": 1}))
	if err != nil {
		return nil, err
	}
	var reqs []struct {
		Responses []struct {
			PhotoURLs []string `bson:"photo_urls"`
		} `bson:"responses"`
	}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	for _, r := range reqs {
		for _, resp := range r.Responses {
			urls = append(urls, resp.PhotoURLs...)
		}
	}
	return urls, nil
}

// addGroupToUser adds groupID to the user's groups set, creating the
// profile document if the identity provider authenticated a user we have
// not seen yet.
func (s *Store) addGroupToUser(ctx context.Context, userID, groupID string) error {
	now := time.Now().UTC()
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet":    bson.M{"groups": groupID},
			"$setOnInsert": bson.M{"name": "", "created_at": now, "updated_at": now},
		},
		options.Update().SetUpsert(true))
	return err
}
