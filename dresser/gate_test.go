package dresser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/threadora/threadora-backend/models"
)

// fakeAccessStore mirrors the conditional-update semantics of the real
// store without a database. record is nil until a user's first request,
// like a collection with no document yet for that user.
type fakeAccessStore struct {
	record *models.DresserAccess
	err    error
}

func (f *fakeAccessStore) ensure(userID string) *models.DresserAccess {
	if f.record == nil {
		f.record = &models.DresserAccess{UserID: userID}
	}
	return f.record
}

func (f *fakeAccessStore) Get(ctx context.Context, userID string) (*models.DresserAccess, error) {
	if f.err != nil {
		return nil, f.err
	}
	record := *f.ensure(userID)
	return &record, nil
}

func (f *fakeAccessStore) GrantDailyFree(ctx context.Context, userID string, dayStart time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	record := f.ensure(userID)
	if !record.LastFreeUse.Before(dayStart) {
		return false, nil
	}
	// Stamp relative to the caller's day so a frozen test clock works
	record.LastFreeUse = dayStart
	record.LastUse = dayStart
	record.UsageCount++
	return true, nil
}

func (f *fakeAccessStore) ConsumeBonus(ctx context.Context, userID string, dayStart time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.record == nil || f.record.BonusSessions <= 0 {
		return false, nil
	}
	f.record.BonusSessions--
	f.record.UsageCount++
	f.record.LastUse = dayStart
	if f.record.LastFreeUse.Before(dayStart) {
		f.record.LastFreeUse = dayStart
	}
	return true, nil
}

func newTestGate(store AccessStore, now time.Time) *Gate {
	g := NewGate(store)
	g.now = func() time.Time { return now }
	return g
}

func TestGrantSpendsBonusFirstThenDenies(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{UserID: "u1", BonusSessions: 2}}
	gate := newTestGate(store, now)

	status, err := gate.Grant(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	if status.AccessType != AccessBonus {
		t.Errorf("first grant: want %s, got %s", AccessBonus, status.AccessType)
	}
	if status.BonusSessions != 1 {
		t.Errorf("bonus sessions after first grant: want 1, got %d", status.BonusSessions)
	}

	status, err = gate.Grant(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second grant failed: %v", err)
	}
	if status.AccessType != AccessBonus {
		t.Errorf("second grant: want %s, got %s", AccessBonus, status.AccessType)
	}
	if status.BonusSessions != 0 {
		t.Errorf("bonus sessions after consuming the last one: want 0, got %d", status.BonusSessions)
	}

	// Both bonus grants burned the free slot, so the third same-day
	// attempt has nothing left to spend.
	_, err = gate.Grant(context.Background(), "u1")
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("third grant: want AccessDeniedError, got %v", err)
	}
	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !denied.ResetsAt.Equal(wantReset) {
		t.Errorf("denial reset: want %v, got %v", wantReset, denied.ResetsAt)
	}
}

func TestGrantUsesFreeOnceBonusExhausted(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{
		UserID:        "u1",
		BonusSessions: 1,
		LastFreeUse:   now.Add(-48 * time.Hour),
	}}
	gate := newTestGate(store, now)

	status, err := gate.Grant(context.Background(), "u1")
	if err != nil {
		t.Fatalf("bonus grant failed: %v", err)
	}
	if status.AccessType != AccessBonus {
		t.Errorf("want %s while bonus sessions remain, got %s", AccessBonus, status.AccessType)
	}

	if _, err := gate.Grant(context.Background(), "u1"); err == nil {
		t.Fatal("bonus grant burned today's free slot, second grant should be denied")
	}
}

func TestGrantFirstEverRequestGetsDailyFree(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{}
	gate := newTestGate(store, now)

	status, err := gate.Grant(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first-ever grant failed: %v", err)
	}
	if !status.HasAccess || status.AccessType != AccessDailyFree {
		t.Errorf("user with no quota record yet: want daily free access, got %+v", status)
	}
	if store.record == nil {
		t.Fatal("grant should have created the quota record")
	}
}

func TestGrantFreeResetsNextDay(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{UserID: "u1"}}

	if _, err := newTestGate(store, day1).Grant(context.Background(), "u1"); err != nil {
		t.Fatalf("day 1 grant failed: %v", err)
	}
	if _, err := newTestGate(store, day1).Grant(context.Background(), "u1"); err == nil {
		t.Fatal("same-day second grant should be denied")
	}

	day2 := day1.Add(24 * time.Hour)
	status, err := newTestGate(store, day2).Grant(context.Background(), "u1")
	if err != nil {
		t.Fatalf("next-day grant failed: %v", err)
	}
	if status.AccessType != AccessDailyFree {
		t.Errorf("next-day grant: want %s, got %s", AccessDailyFree, status.AccessType)
	}
}

func TestGateFailsClosedOnStoreError(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{err: errors.New("mongo down")}
	gate := newTestGate(store, now)

	status, err := gate.Grant(context.Background(), "u1")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
	if status.HasAccess {
		t.Error("store failure must read as a denial")
	}

	status, err = gate.Check(context.Background(), "u1")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("check: want ErrUpstreamUnavailable, got %v", err)
	}
	if status.HasAccess {
		t.Error("check during store failure must read as a denial")
	}
}

func TestCheckDoesNotConsume(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{UserID: "u1", BonusSessions: 2}}
	gate := newTestGate(store, now)

	for i := 0; i < 3; i++ {
		status, err := gate.Check(context.Background(), "u1")
		if err != nil {
			t.Fatalf("check %d failed: %v", i, err)
		}
		if !status.HasAccess || status.AccessType != AccessBonus {
			t.Errorf("check %d: want bonus access, got %+v", i, status)
		}
		if status.BonusSessions != 2 {
			t.Errorf("check %d consumed bonus sessions: %d", i, status.BonusSessions)
		}
	}
}

func TestCheckReportsFreeWhenNoBonus(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{UserID: "u1"}}
	gate := newTestGate(store, now)

	status, err := gate.Check(context.Background(), "u1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !status.HasAccess || status.AccessType != AccessDailyFree {
		t.Errorf("want daily free access, got %+v", status)
	}
}

func TestCheckReportsBonusWhenFreeUsed(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{
		UserID:        "u1",
		BonusSessions: 1,
		LastFreeUse:   now.Add(-time.Hour),
	}}
	gate := newTestGate(store, now)

	status, err := gate.Check(context.Background(), "u1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !status.HasAccess || status.AccessType != AccessBonus {
		t.Errorf("want bonus access, got %+v", status)
	}
}

func TestCheckDenialCarriesReset(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	store := &fakeAccessStore{record: &models.DresserAccess{
		UserID:      "u1",
		LastFreeUse: now.Add(-time.Hour),
	}}
	gate := newTestGate(store, now)

	status, err := gate.Check(context.Background(), "u1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if status.HasAccess {
		t.Error("no free session and no bonus should deny")
	}
	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !status.ResetsAt.Equal(wantReset) {
		t.Errorf("reset: want %v, got %v", wantReset, status.ResetsAt)
	}
}
