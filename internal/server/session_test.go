package server

import (
	"errors"
	"testing"
	"time"
)

func TestSessionStoreExpiry(t *testing.T) {
	st := NewSessionStore(time.Minute)
	now := time.Unix(1000, 0)
	st.now = func() time.Time { return now }

	s := st.Create("alex")
	if got, err := st.Get(s.ID); err != nil || got.User != "alex" {
		t.Fatalf("Get = %v, %v", got, err)
	}

	// Activity keeps the session alive past the original deadline.
	now = now.Add(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Fatalf("refreshed session expired early: %v", err)
	}
	now = now.Add(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Fatalf("refreshed session expired early: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	st := NewSessionStore(0)
	s := st.Create("alex")
	st.Delete(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionSlots(t *testing.T) {
	st := NewSessionStore(0)
	s := st.Create("alex")
	if s.Slot(SlotCurrent) != nil {
		t.Fatal("fresh session has slot data")
	}
	s.SetSlot(SlotCurrent, &slotData{})
	if s.Slot(SlotCurrent) == nil {
		t.Fatal("stored slot not returned")
	}
	if s.Slot(SlotPrevious) != nil {
		t.Fatal("slots bleed into each other")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	st := NewSessionStore(0)
	a, b := st.Create("a"), st.Create("b")
	if a.ID == b.ID {
		t.Fatal("duplicate session tokens")
	}
}
