package changefeed_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/system/changefeed"
	"github.com/dalemusser/notehive/internal/domain/models"
	"github.com/dalemusser/notehive/internal/testutil"
)

// waitLong covers the polling fallback cadence on standalone test
// deployments; change-stream deliveries arrive much sooner.
const waitLong = 10 * time.Second

func decodePost(raw bson.Raw) (models.Post, bool) {
	var p models.Post
	if err := bson.Unmarshal(raw, &p); err != nil {
		return models.Post{}, false
	}
	if p.Subject == "" {
		return models.Post{}, false
	}
	return p, true
}

func recvSnapshot(t *testing.T, sub *changefeed.Subscription[models.Post], timeout time.Duration) []models.Post {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a snapshot")
	}
	return nil
}

func TestWatch_InitialSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePost(ctx, "g1", "u1", "Hindi")
	fixtures.CreatePost(ctx, "g1", "u2", "Science")
	fixtures.CreatePost(ctx, "g2", "u3", "Hindi")

	sub := changefeed.Watch(ctx, db.Collection("posts"), changefeed.Query{
		Filter: bson.D{{Key: "group_id", Value: "g1"}},
		Sort:   bson.D{{Key: "created_at", Value: -1}},
	}, decodePost, zap.NewNop())
	defer sub.Close()

	snap := recvSnapshot(t, sub, waitLong)
	if len(snap) != 2 {
		t.Fatalf("initial snapshot: expected 2 posts, got %d", len(snap))
	}
	for _, p := range snap {
		if p.GroupID != "g1" {
			t.Errorf("snapshot leaked post from group %q", p.GroupID)
		}
	}
}

func TestWatch_DeliversOnChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := changefeed.Watch(ctx, db.Collection("posts"), changefeed.Query{
		Filter: bson.D{{Key: "group_id", Value: "g1"}},
	}, decodePost, zap.NewNop())
	defer sub.Close()

	snap := recvSnapshot(t, sub, waitLong)
	if len(snap) != 0 {
		t.Fatalf("expected an empty initial snapshot, got %d posts", len(snap))
	}

	fixtures.CreatePost(ctx, "g1", "u1", "Hindi")

	deadline := time.Now().Add(waitLong)
	for {
		snap = recvSnapshot(t, sub, time.Until(deadline))
		if len(snap) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("never observed the inserted post, last snapshot had %d", len(snap))
		}
	}
	if snap[0].Subject != "Hindi" {
		t.Errorf("subject: got %q", snap[0].Subject)
	}
}

func TestWatch_DropsUndecodableDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePost(ctx, "g1", "u1", "Hindi")
	// Missing subject: the decoder rejects it, the snapshot carries on.
	if _, err := db.Collection("posts").InsertOne(ctx, bson.M{
		"_id":      "broken",
		"group_id": "g1",
	}); err != nil {
		t.Fatalf("insert broken doc: %v", err)
	}

	sub := changefeed.Watch(ctx, db.Collection("posts"), changefeed.Query{
		Filter: bson.D{{Key: "group_id", Value: "g1"}},
	}, decodePost, zap.NewNop())
	defer sub.Close()

	snap := recvSnapshot(t, sub, waitLong)
	if len(snap) != 1 {
		t.Fatalf("expected 1 decodable post, got %d", len(snap))
	}
	if snap[0].ID == "broken" {
		t.Error("undecodable document survived the snapshot")
	}
}

func TestSubscription_Close(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub := changefeed.Watch(ctx, db.Collection("posts"), changefeed.Query{
		Filter: bson.D{{Key: "group_id", Value: "g1"}},
	}, decodePost, zap.NewNop())

	recvSnapshot(t, sub, waitLong)
	sub.Close()

	// The channel is closed once Close returns; a replacement
	// subscription can now be opened without double delivery.
	if _, ok := <-sub.Snapshots(); ok {
		t.Error("snapshots channel still open after Close")
	}
}
