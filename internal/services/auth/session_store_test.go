package auth

import (
	"testing"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
)

func TestSessionStoreRoundtrip(t *testing.T) {
	store := NewSessionStore(time.Hour)

	sid, err := store.Create(models.SessionIdentity{
		Username:       "jdoe",
		DepartmentName: "Engineering",
		Roles:          []string{"User"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(sid) != 64 {
		t.Errorf("expected a 64-char hex session id, got %d chars", len(sid))
	}

	identity, ok := store.Get(sid)
	if !ok {
		t.Fatal("expected the session to resolve")
	}
	if identity.Username != "jdoe" || identity.DepartmentName != "Engineering" {
		t.Errorf("resolved identity mismatch: %+v", identity)
	}
}

func TestSessionStoreReturnsCopies(t *testing.T) {
	store := NewSessionStore(time.Hour)

	sid, err := store.Create(models.SessionIdentity{Username: "jdoe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, _ := store.Get(sid)
	first.Username = "tampered"

	second, _ := store.Get(sid)
	if second.Username != "jdoe" {
		t.Error("mutating a resolved identity must not affect the stored entry")
	}
}

func TestSessionStoreUnknownIDNotFound(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if _, ok := store.Get("deadbeef"); ok {
		t.Error("unknown session id must not resolve")
	}
}

func TestSessionStoreExpiredEntryEvictedOnGet(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)

	sid, err := store.Create(models.SessionIdentity{Username: "jdoe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get(sid); ok {
		t.Error("expired session must not resolve")
	}
	if store.Count() != 0 {
		t.Errorf("expired entry must be removed on access, %d entries remain", store.Count())
	}
}

func TestSessionStoreGetSlidesExpiry(t *testing.T) {
	store := NewSessionStore(60 * time.Millisecond)

	sid, err := store.Create(models.SessionIdentity{Username: "jdoe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Keep touching the session past the original TTL; each read renews it
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, ok := store.Get(sid); !ok {
			t.Fatalf("active session expired on touch %d", i)
		}
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore(time.Hour)

	sid, err := store.Create(models.SessionIdentity{Username: "jdoe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.Delete(sid)
	if _, ok := store.Get(sid); ok {
		t.Error("deleted session must not resolve")
	}
}

func TestSessionStoreJanitorEvictsExpired(t *testing.T) {
	store := NewSessionStore(5 * time.Millisecond)
	store.SetInterval(10 * time.Millisecond)

	if _, err := store.Create(models.SessionIdentity{Username: "jdoe"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(models.SessionIdentity{Username: "asmith"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.Start()
	defer store.Stop()

	deadline := time.Now().Add(time.Second)
	for store.Count() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not evict expired sessions, %d remain", store.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
