package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/notehive/internal/app/store/users"
	"github.com/dalemusser/notehive/internal/testutil"
)

func TestStore_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Upsert(ctx, "uid-1", "Priya")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if u.Name != "Priya" {
		t.Errorf("name: got %q", u.Name)
	}
	if u.Groups == nil || len(u.Groups) != 0 {
		t.Errorf("new user should start with an empty groups set, got %v", u.Groups)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Re-upserting updates the display name without touching groups.
	testutil.NewFixtures(t, db).AddUserGroup(ctx, "uid-1", "g1")

	u, err = store.Upsert(ctx, "uid-1", "Priya S")
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if u.Name != "Priya S" {
		t.Errorf("name not updated: %q", u.Name)
	}
	if len(u.Groups) != 1 || u.Groups[0] != "g1" {
		t.Errorf("groups disturbed by Upsert: %v", u.Groups)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, "nobody")
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
