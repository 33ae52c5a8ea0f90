package membershipstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/notehive/internal/app/store/memberships"
	"github.com/dalemusser/notehive/internal/app/system/blob"
	"github.com/dalemusser/notehive/internal/app/system/invitecode"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/testutil"
)

func newStore(t *testing.T) (*membershipstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	local, err := blob.NewLocal(t.TempDir(), "http://localhost/media")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	pipeline := media.New(local, media.Config{}, zap.NewNop())
	return membershipstore.New(db, pipeline, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestStore_CreateGroup(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.CreateGroup(ctx, "Class 10B", "DPS Vasant Kunj", "u1")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if !invitecode.Valid(g.InviteCode) {
		t.Errorf("invite code %q not in the unambiguous alphabet", g.InviteCode)
	}
	if len(g.Members) != 1 || g.Members[0] != "u1" {
		t.Errorf("members: %v", g.Members)
	}

	// The creator's profile picked up the group even though no user
	// document existed beforehand.
	var u struct {
		Groups []string `bson:"groups"`
	}
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": "u1"}).Decode(&u); err != nil {
		t.Fatalf("creator profile not created: %v", err)
	}
	if len(u.Groups) != 1 || u.Groups[0] != g.ID {
		t.Errorf("creator groups: %v", u.Groups)
	}

	if _, err := store.CreateGroup(ctx, "  ", "school", "u1"); !errors.Is(err, membershipstore.ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
}

func TestStore_Join(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Class 10B", "DEMO01", "u1", "u1", "u2", "u3")
	fixtures.CreateUser(ctx, "u9", "Asha")

	joined, err := store.Join(ctx, "DEMO01", "u9")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if !joined.HasMember("u9") {
		t.Errorf("returned group missing new member: %v", joined.Members)
	}

	var u struct {
		Groups []string `bson:"groups"`
	}
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": "u9"}).Decode(&u); err != nil {
		t.Fatalf("read user: %v", err)
	}
	if len(u.Groups) != 1 || u.Groups[0] != g.ID {
		t.Errorf("user groups: %v", u.Groups)
	}

	if _, err := store.Join(ctx, "NOSUCH", "u9"); !errors.Is(err, membershipstore.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestStore_Join_AlreadyMember(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Class 10B", "DEMO01", "u1", "u1", "u2", "u3")

	if _, err := store.Join(ctx, "DEMO01", "u3"); !errors.Is(err, membershipstore.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// The failed join mutated nothing on either side.
	var after struct {
		Members []string `bson:"members"`
	}
	if err := fixtures.DB().Collection("groups").FindOne(ctx, bson.M{"_id": g.ID}).Decode(&after); err != nil {
		t.Fatalf("read group: %v", err)
	}
	if len(after.Members) != 3 {
		t.Errorf("members changed: %v", after.Members)
	}
	n, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": "u3"})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Error("failed join should not create a user profile")
	}
}

func TestStore_JoinThenLeave_RoundTrip(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Class 10B", "DEMO01", "u1", "u1", "u2")
	fixtures.CreateUser(ctx, "u9", "Asha")

	if _, err := store.Join(ctx, "DEMO01", "u9"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if err := store.Leave(ctx, g.ID, "u9"); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	var group struct {
		Members []string `bson:"members"`
	}
	if err := fixtures.DB().Collection("groups").FindOne(ctx, bson.M{"_id": g.ID}).Decode(&group); err != nil {
		t.Fatalf("read group: %v", err)
	}
	if len(group.Members) != 2 {
		t.Errorf("member set not restored: %v", group.Members)
	}
	var u struct {
		Groups []string `bson:"groups"`
	}
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": "u9"}).Decode(&u); err != nil {
		t.Fatalf("read user: %v", err)
	}
	if len(u.Groups) != 0 {
		t.Errorf("user groups not restored: %v", u.Groups)
	}
}

func TestStore_Leave_NonMember(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Class 10B", "DEMO01", "u1", "u1")
	fixtures.CreateUser(ctx, "u9", "Asha")

	// Leaving a group the user never joined still succeeds.
	if err := store.Leave(ctx, g.ID, "u9"); err != nil {
		t.Fatalf("Leave of non-member should be a no-op, got %v", err)
	}
}

func TestStore_DeleteGroup_Cascade(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Class 10B", "DEMO01", "u1", "u1", "u2")
	fixtures.CreateUser(ctx, "u1", "Priya", g.ID)
	fixtures.CreateUser(ctx, "u2", "Rahul", g.ID, "other-group")
	fixtures.CreatePost(ctx, g.ID, "u1", "Hindi", "a.jpg")
	fixtures.CreatePost(ctx, g.ID, "u2", "Science")
	fixtures.CreateRequest(ctx, g.ID, "u2", "Mathematics")

	if err := store.DeleteGroup(ctx, g); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	db := fixtures.DB()
	for _, coll := range []string{"posts", "note_requests"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"group_id": g.ID})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s: %d documents survived the cascade", coll, n)
		}
	}
	n, err := db.Collection("groups").CountDocuments(ctx, bson.M{"_id": g.ID})
	if err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if n != 0 {
		t.Error("group document survived")
	}

	// No user still references the deleted group, and unrelated
	// memberships are untouched.
	n, err = db.Collection("users").CountDocuments(ctx, bson.M{"groups": g.ID})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Errorf("%d users still reference the deleted group", n)
	}
	var u2 struct {
		Groups []string `bson:"groups"`
	}
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": "u2"}).Decode(&u2); err != nil {
		t.Fatalf("read u2: %v", err)
	}
	if len(u2.Groups) != 1 || u2.Groups[0] != "other-group" {
		t.Errorf("unrelated membership disturbed: %v", u2.Groups)
	}
}
