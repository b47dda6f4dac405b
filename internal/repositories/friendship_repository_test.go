package repositories

import (
	"testing"

	"brainrank/internal/models"
	"brainrank/internal/testhelpers"
)

func TestFindBetween_EitherDirection(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	if err := repo.Create(&models.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: models.FriendshipPending}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	forward, err := repo.FindBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("forward lookup failed: %v", err)
	}
	reverse, err := repo.FindBetween(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("reverse lookup failed: %v", err)
	}
	if forward == nil || reverse == nil || forward.ID != reverse.ID {
		t.Fatalf("expected the same edge from both directions")
	}
}

func TestFindBetween_NoEdge(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge, err := repo.FindBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if edge != nil {
		t.Fatalf("expected nil for strangers, got %+v", edge)
	}
}

func TestCreate_DuplicatePairRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	if err := repo.Create(&models.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: models.FriendshipPending}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(&models.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: models.FriendshipPending}); err == nil {
		t.Fatalf("expected the unique pair index to reject the duplicate")
	}
}

func TestAcceptedFor_FiltersStatusAndPreloadsSides(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	if err := repo.Create(&models.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: models.FriendshipAccepted}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(&models.Friendship{UserID: carol.ID, FriendID: alice.ID, Status: models.FriendshipPending}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	edges, err := repo.AcceptedFor(alice.ID)
	if err != nil {
		t.Fatalf("AcceptedFor failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected only the accepted edge, got %d", len(edges))
	}
	if edges[0].User == nil || edges[0].Friend == nil {
		t.Fatalf("expected both sides preloaded")
	}

	n, err := repo.CountAcceptedFor(alice.ID)
	if err != nil {
		t.Fatalf("CountAcceptedFor failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
}

func TestPendingFor_IncomingOnly(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	// Incoming for alice, outgoing from alice.
	if err := repo.Create(&models.Friendship{UserID: bob.ID, FriendID: alice.ID, Status: models.FriendshipPending}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(&models.Friendship{UserID: alice.ID, FriendID: carol.ID, Status: models.FriendshipPending}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	edges, err := repo.PendingFor(alice.ID)
	if err != nil {
		t.Fatalf("PendingFor failed: %v", err)
	}
	if len(edges) != 1 || edges[0].UserID != bob.ID {
		t.Fatalf("expected only bob's incoming request, got %+v", edges)
	}
	if edges[0].User == nil || edges[0].User.Username != "bob" {
		t.Fatalf("expected the requester preloaded")
	}
}

func TestUpdateStatus(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge := &models.Friendship{UserID: alice.ID, FriendID: bob.ID, Status: models.FriendshipPending}
	if err := repo.Create(edge); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.UpdateStatus(edge.ID, models.FriendshipAccepted); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	reloaded, err := repo.GetByID(edge.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != models.FriendshipAccepted {
		t.Fatalf("expected ACCEPTED, got %s", reloaded.Status)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := &FriendshipRepository{DB: db}

	if _, err := repo.GetByID("00000000-0000-0000-0000-000000000000"); err != ErrFriendshipNotFound {
		t.Fatalf("expected ErrFriendshipNotFound, got %v", err)
	}
}
