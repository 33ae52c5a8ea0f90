package requeststore_test

import (
	"errors"
	"testing"

	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/domain/models"
	"github.com/dalemusser/notehive/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, err := store.Create(ctx, models.NoteRequest{
		GroupID:    "g1",
		AuthorID:   "u1",
		AuthorName: "Priya",
		Subject:    "Science",
		// A caller cannot smuggle in a terminal state.
		Status: models.RequestFulfilled,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Status != models.RequestOpen {
		t.Errorf("new requests must start open, got %q", r.Status)
	}
	if r.Responses == nil || len(r.Responses) != 0 {
		t.Errorf("responses: %+v", r.Responses)
	}

	_, err = store.Create(ctx, models.NoteRequest{Subject: "Hindi"})
	if !errors.Is(err, requeststore.ErrMissingGroup) {
		t.Errorf("expected ErrMissingGroup, got %v", err)
	}
	_, err = store.Create(ctx, models.NoteRequest{GroupID: "g1"})
	if !errors.Is(err, requeststore.ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got %v", err)
	}
}

func TestStore_Respond(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fixtures.CreateRequest(ctx, "g1", "u1", "Science")

	resp, err := store.Respond(ctx, req.ID, models.Response{
		AuthorID:   "u2",
		AuthorName: "Rahul",
		PhotoURLs:  []string{"notes-1.jpg"},
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if resp.ID == "" || resp.CreatedAt.IsZero() {
		t.Error("expected id and timestamp to be assigned")
	}

	// The response and the status flip land together.
	got, err := store.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.RequestFulfilled {
		t.Errorf("status: got %q, want fulfilled", got.Status)
	}
	if len(got.Responses) != 1 || got.Responses[0].AuthorID != "u2" {
		t.Errorf("responses: %+v", got.Responses)
	}

	_, err = store.Respond(ctx, "nosuch", models.Response{AuthorID: "u2"})
	if !errors.Is(err, requeststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_MarkFulfilled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fixtures.CreateRequest(ctx, "g1", "u1", "Science")

	if err := store.MarkFulfilled(ctx, req.ID); err != nil {
		t.Fatalf("MarkFulfilled failed: %v", err)
	}
	got, err := store.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.RequestFulfilled {
		t.Errorf("status: got %q", got.Status)
	}
	if len(got.Responses) != 0 {
		t.Errorf("manual fulfillment must not add a response: %+v", got.Responses)
	}

	if err := store.MarkFulfilled(ctx, "nosuch"); !errors.Is(err, requeststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fixtures.CreateRequest(ctx, "g1", "u1", "Science")
	if _, err := store.Respond(ctx, req.ID, models.Response{
		AuthorID:  "u2",
		PhotoURLs: []string{"notes-1.jpg"},
	}); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	deleted, err := store.Delete(ctx, req.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(deleted.Responses) != 1 || len(deleted.Responses[0].PhotoURLs) != 1 {
		t.Errorf("deleted request should carry response media, got %+v", deleted.Responses)
	}

	if _, err := store.GetByID(ctx, req.ID); !errors.Is(err, requeststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
