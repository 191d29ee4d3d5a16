package app

import (
	"testing"

	"github.com/dkeye/spotlight/internal/core"
	"github.com/dkeye/spotlight/internal/domain"
)

func TestRegistryLifecycle(t *testing.T) {
	codes := NewCodeGenerator()
	r := NewRegistry(codes)

	a, err := r.Register("s1", "  B12 ", domain.DeviceIOS)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a.SeatNumber != "B12" {
		t.Errorf("Expected trimmed seat B12, got %q", a.SeatNumber)
	}

	again, err := r.Register("s1", "C1", domain.DeviceWeb)
	if err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if again != a {
		t.Error("Expected re-registration to return the existing record")
	}

	sid, found, ok := r.FindByCode(a.Code)
	if !ok || sid != "s1" || found != a {
		t.Fatalf("FindByCode(%s) = %s, %v, %v", a.Code, sid, found, ok)
	}

	removed, ok := r.Remove("s1")
	if !ok || removed.Code != a.Code {
		t.Fatalf("Remove returned %v, %v", removed, ok)
	}
	if _, _, ok := r.FindByCode(a.Code); ok {
		t.Error("Expected code to be gone after Remove")
	}
	if live, retired, _ := codes.Stats(); live != 0 || retired != 1 {
		t.Errorf("Expected code retired, got live=%d retired=%d", live, retired)
	}
	if _, ok := r.Remove("s1"); ok {
		t.Error("Expected second Remove to report false")
	}
}

func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry(NewCodeGenerator())
	seats := map[core.SessionID]string{
		"a": "",
		"b": "B2",
		"c": "A9",
		"d": "B2",
		"e": "Unknown",
		"f": "A10",
	}
	for sid, seat := range seats {
		if _, err := r.Register(sid, seat, domain.DeviceWeb); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	snap := r.Snapshot()
	if len(snap) != len(seats) {
		t.Fatalf("Expected %d views, got %d", len(seats), len(snap))
	}
	wantSeats := []string{"A10", "A9", "B2", "B2", domain.UnknownSeat, domain.UnknownSeat}
	for i, v := range snap {
		if v.SeatNumber != wantSeats[i] {
			t.Errorf("Position %d: expected seat %q, got %q", i, wantSeats[i], v.SeatNumber)
		}
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].SeatNumber == snap[i-1].SeatNumber && snap[i].Code < snap[i-1].Code {
			t.Errorf("Expected code order within seat %q: %s before %s", snap[i].SeatNumber, snap[i-1].Code, snap[i].Code)
		}
	}
}

func TestRegistryResetHands(t *testing.T) {
	r := NewRegistry(NewCodeGenerator())
	for _, sid := range []core.SessionID{"a", "b", "c"} {
		a, err := r.Register(sid, "", domain.DeviceWeb)
		if err != nil {
			t.Fatal(err)
		}
		a.HandRaised = true
	}
	r.ResetHands()
	for _, v := range r.Snapshot() {
		if v.HandRaised {
			t.Errorf("Expected hand of %s lowered", v.Code)
		}
	}
}
