package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAllocationStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AllocationStatus
		want     bool
	}{
		{StatusPending, StatusReceived, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, true},
		{StatusReceived, StatusCancelled, true},
		{StatusReceived, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusReceived, false},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAllocationStatus_RestoresStock(t *testing.T) {
	if !StatusPending.RestoresStock(StatusCancelled) || !StatusReceived.RestoresStock(StatusCancelled) {
		t.Fatal("first cancellation must restore stock")
	}
	if StatusCancelled.RestoresStock(StatusCancelled) {
		t.Fatal("repeated cancellation must not restore stock")
	}
	if StatusPending.RestoresStock(StatusReceived) {
		t.Fatal("receipt must not restore stock")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" sales manager "); !ok || r != RoleSalesManager {
		t.Fatalf("got %q %v", r, ok)
	}
	if _, ok := ParseRole("Intern"); ok {
		t.Fatal("unknown role accepted")
	}
}

func TestDeltaMovement(t *testing.T) {
	if typ, qty, ok := DeltaMovement(10, 25); !ok || typ != MovementAdd || qty != 15 {
		t.Fatalf("increase: %s %d %v", typ, qty, ok)
	}
	if typ, qty, ok := DeltaMovement(25, 10); !ok || typ != MovementRemove || qty != 15 {
		t.Fatalf("decrease: %s %d %v", typ, qty, ok)
	}
	if _, _, ok := DeltaMovement(7, 7); ok {
		t.Fatal("no change must not produce a movement")
	}
}

func TestStockItem_ExpiresWithin(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.AddDate(0, 0, 30)
	item := StockItem{ExpiryDate: &exp}

	if !item.ExpiresWithin(now, 30) {
		t.Fatal("boundary day must be included")
	}
	if item.ExpiresWithin(now, 29) {
		t.Fatal("item outside window reported as expiring")
	}
	if (&StockItem{}).ExpiresWithin(now, 1000) {
		t.Fatal("item without expiry reported as expiring")
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrStockItemNotFound, KindNotFound},
		{InvalidInput("quantity %d", -1), KindInvalidInput},
		{fmt.Errorf("allocate: %w", ErrInsufficientStock), KindInsufficientStock},
		{ErrDuplicateUniqueNum, KindConflict},
		{ErrConcurrentUpdate, KindConflict},
		{ErrInvalidTransition, KindInvalidTransition},
		{ErrInvalidCredentials, KindUnauthenticated},
		{fmt.Errorf("%w: stock.update", ErrForbidden), KindForbidden},
		{StorageError("insert", errors.New("timeout")), KindStorage},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
