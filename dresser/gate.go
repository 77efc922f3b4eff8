package dresser

import (
	"context"
	"fmt"
	"time"

	"github.com/threadora/threadora-backend/models"
)

// Access types reported to the client
const (
	AccessDailyFree = "daily_free"
	AccessBonus     = "bonus"
	AccessNone      = "none"
)

// AccessStore is the persistence the gate depends on. GrantDailyFree and
// ConsumeBonus must be atomic conditional updates: the gate never does a
// read-then-decide-then-write sequence of its own. ConsumeBonus also
// marks the free slot used for the day starting dayStart, so bonus and
// free sessions never stack into extra grants.
type AccessStore interface {
	Get(ctx context.Context, userID string) (*models.DresserAccess, error)
	GrantDailyFree(ctx context.Context, userID string, dayStart time.Time) (bool, error)
	ConsumeBonus(ctx context.Context, userID string, dayStart time.Time) (bool, error)
}

// AccessStatus is the gate's answer for one user
type AccessStatus struct {
	HasAccess     bool      `json:"hasAccess"`
	AccessType    string    `json:"accessType"`
	BonusSessions int       `json:"bonusSessions"`
	UsageCount    int       `json:"usageCount"`
	LastUse       time.Time `json:"lastUse,omitempty"`
	ResetsAt      time.Time `json:"resetsAt,omitempty"`
}

// Gate meters AI Dresser sessions: bonus sessions spend first, one per
// grant, then one free session per user per local calendar day. Store
// failures are never retried and always read as a denial, so a flaky
// quota store cannot hand out unmetered access.
type Gate struct {
	store AccessStore
	now   func() time.Time
}

func NewGate(store AccessStore) *Gate {
	return &Gate{store: store, now: time.Now}
}

// Check reports the user's current quota without consuming anything
func (g *Gate) Check(ctx context.Context, userID string) (AccessStatus, error) {
	record, err := g.store.Get(ctx, userID)
	if err != nil {
		return deniedStatus(g.now()), fmt.Errorf("%w: quota read failed: %v", ErrUpstreamUnavailable, err)
	}
	return statusFor(record, g.now()), nil
}

// Grant consumes a session. Bonus sessions spend first, one per grant,
// each also burning today's free slot; the free session is only used
// once the bonus counter hits zero. Denials carry the next-midnight
// reset time as an *AccessDeniedError.
func (g *Gate) Grant(ctx context.Context, userID string) (AccessStatus, error) {
	now := g.now()

	granted, err := g.store.ConsumeBonus(ctx, userID, startOfDay(now))
	if err != nil {
		return deniedStatus(now), fmt.Errorf("%w: quota update failed: %v", ErrUpstreamUnavailable, err)
	}

	accessType := AccessBonus
	if !granted {
		granted, err = g.store.GrantDailyFree(ctx, userID, startOfDay(now))
		if err != nil {
			return deniedStatus(now), fmt.Errorf("%w: quota update failed: %v", ErrUpstreamUnavailable, err)
		}
		accessType = AccessDailyFree
	}

	if !granted {
		return deniedStatus(now), &AccessDeniedError{ResetsAt: nextMidnight(now)}
	}

	status := AccessStatus{HasAccess: true, AccessType: accessType, LastUse: now}
	if record, err := g.store.Get(ctx, userID); err == nil {
		status.BonusSessions = record.BonusSessions
		status.UsageCount = record.UsageCount
		status.LastUse = record.LastUse
	}
	return status, nil
}

func statusFor(record *models.DresserAccess, now time.Time) AccessStatus {
	freeAvailable := record.LastFreeUse.Before(startOfDay(now))

	status := AccessStatus{
		BonusSessions: record.BonusSessions,
		UsageCount:    record.UsageCount,
		LastUse:       record.LastUse,
	}

	switch {
	case record.BonusSessions > 0:
		status.HasAccess = true
		status.AccessType = AccessBonus
	case freeAvailable:
		status.HasAccess = true
		status.AccessType = AccessDailyFree
	default:
		status.AccessType = AccessNone
		status.ResetsAt = nextMidnight(now)
	}
	return status
}

func deniedStatus(now time.Time) AccessStatus {
	return AccessStatus{AccessType: AccessNone, ResetsAt: nextMidnight(now)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
