package memory

import (
	"testing"
	"time"

	"maharaja-assistant-be/pkg/store"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewSessionStateRepository(time.Hour)

	session := &store.Session{ID: "s1", TurnCount: 3, CountryContext: "IN"}
	if err := repo.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found := repo.Get("s1")
	if !found {
		t.Fatal("Get = not found")
	}
	if got.TurnCount != 3 || got.CountryContext != "IN" {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	repo := NewSessionStateRepository(time.Hour)

	if _, found := repo.Get("nope"); found {
		t.Error("Get = found for an unknown session")
	}
}

func TestDelete(t *testing.T) {
	repo := NewSessionStateRepository(time.Hour)

	repo.Save(&store.Session{ID: "s1"})
	repo.Delete("s1")
	if _, found := repo.Get("s1"); found {
		t.Error("session survived Delete")
	}
}

func TestSaveReplacesState(t *testing.T) {
	repo := NewSessionStateRepository(time.Hour)

	repo.Save(&store.Session{ID: "s1", TurnCount: 1})
	repo.Save(&store.Session{ID: "s1", TurnCount: 2})

	got, _ := repo.Get("s1")
	if got.TurnCount != 2 {
		t.Errorf("TurnCount = %d, want latest write", got.TurnCount)
	}
}

func TestEntriesExpire(t *testing.T) {
	repo := NewSessionStateRepository(10 * time.Millisecond)

	repo.Save(&store.Session{ID: "s1"})
	time.Sleep(30 * time.Millisecond)

	if _, found := repo.Get("s1"); found {
		t.Error("session survived its TTL")
	}
}
