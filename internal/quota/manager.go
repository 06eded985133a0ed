package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/decodedesk/decodedesk/internal/config"
)

// Default allowances. Guests get a flat cap; an authenticated identity gets
// its own weekly budget, or the combined ceiling once its window also
// contains guest-phase usage.
const (
	DefaultGuestLimit       = 8
	DefaultUserWeeklyLimit  = 5
	DefaultTotalWeeklyLimit = 13

	resetWindow = 7 * 24 * time.Hour
)

// Manager is the single source of truth for translation allowances. It never
// returns an error to callers: any storage anomaly self-heals to a fresh
// default record, because the quota is advisory rather than security-critical.
type Manager struct {
	store Store

	guestLimit       int
	userWeeklyLimit  int
	totalWeeklyLimit int

	now func() time.Time
}

func NewManager(store Store, cfg config.QuotaConfig) *Manager {
	m := &Manager{
		store:            store,
		guestLimit:       cfg.GuestLimit,
		userWeeklyLimit:  cfg.UserWeeklyLimit,
		totalWeeklyLimit: cfg.TotalWeeklyLimit,
		now:              time.Now,
	}
	if m.guestLimit == 0 {
		m.guestLimit = DefaultGuestLimit
	}
	if m.userWeeklyLimit == 0 {
		m.userWeeklyLimit = DefaultUserWeeklyLimit
	}
	if m.totalWeeklyLimit == 0 {
		m.totalWeeklyLimit = DefaultTotalWeeklyLimit
	}
	return m
}

// Get returns the identity's current record, lazily resetting it when the
// rolling 7-day window has elapsed since the first recorded action.
func (m *Manager) Get(ctx context.Context, identity string) *Record {
	rec, err := m.store.Get(ctx, identity)
	if err != nil {
		slog.Warn("quota: read failed, assuming fresh quota", "identity", identity, "error", err)
		rec = nil
	}

	if rec == nil {
		rec = m.defaultRecord()
		m.put(ctx, identity, rec)
		return rec
	}

	if rec.FirstTranslationDate != nil && m.now().Sub(*rec.FirstTranslationDate) >= resetWindow {
		rec = m.defaultRecord()
		m.put(ctx, identity, rec)
	}
	return rec
}

// Check reports whether the identity may perform one more action.
func (m *Manager) Check(ctx context.Context, identity string, authenticated bool) Status {
	rec := m.Get(ctx, identity)

	if !authenticated {
		return Status{
			Allowed:        rec.GuestUsed < m.guestLimit,
			Remaining:      m.guestLimit - rec.GuestUsed,
			Total:          m.guestLimit,
			IsWeeklyLimit:  false,
			DaysUntilReset: daysUntilReset(rec, m.now()),
		}
	}

	// Guest-phase usage in the current window drags the identity onto the
	// combined ceiling instead of the pure user budget.
	total := m.userWeeklyLimit
	if rec.GuestUsed > 0 {
		total = m.totalWeeklyLimit
	}
	used := rec.GuestUsed + rec.UserUsed

	return Status{
		Allowed:        used < total,
		Remaining:      total - used,
		Total:          total,
		IsWeeklyLimit:  true,
		DaysUntilReset: daysUntilReset(rec, m.now()),
	}
}

// RecordUse counts one consumed action and starts the 7-day clock if this
// is the first action since the last reset.
func (m *Manager) RecordUse(ctx context.Context, identity string, authenticated bool) {
	rec := m.Get(ctx, identity)

	if authenticated {
		rec.UserUsed++
	} else {
		rec.GuestUsed++
	}

	if rec.FirstTranslationDate == nil {
		now := m.now()
		rec.FirstTranslationDate = &now
	}
	rec.WeekStartDate = weekStart(m.now())

	m.put(ctx, identity, rec)
}

// MigrateOnLogin moves a guest identity's window onto the user identity.
// Guest-phase usage is preserved (it counts against the combined ceiling)
// and UserUsed starts from zero; the 7-day anchor is kept unconditionally,
// so logging in never restarts the countdown. Repeated calls are no-ops.
func (m *Manager) MigrateOnLogin(ctx context.Context, guestIdentity, userIdentity string) {
	guest := m.Get(ctx, guestIdentity)

	migrated := &Record{
		WeekStartDate:        weekStart(m.now()),
		FirstTranslationDate: guest.FirstTranslationDate,
	}
	if guest.GuestUsed > 0 {
		migrated.GuestUsed = guest.GuestUsed
	}

	m.put(ctx, userIdentity, migrated)
}

// DaysUntilReset returns whole days until the rolling window resets; 7 when
// no action has started the clock yet.
func (m *Manager) DaysUntilReset(ctx context.Context, identity string) int {
	return daysUntilReset(m.Get(ctx, identity), m.now())
}

// Reset unconditionally clears the identity's stored quota. Manual/test use
// only; the normal flow relies on the lazy rolling reset.
func (m *Manager) Reset(ctx context.Context, identity string) {
	if err := m.store.Delete(ctx, identity); err != nil {
		slog.Warn("quota: reset failed", "identity", identity, "error", err)
	}
}

func (m *Manager) defaultRecord() *Record {
	return &Record{WeekStartDate: weekStart(m.now())}
}

func (m *Manager) put(ctx context.Context, identity string, rec *Record) {
	if err := m.store.Put(ctx, identity, rec); err != nil {
		slog.Warn("quota: persist failed", "identity", identity, "error", err)
	}
}

func daysUntilReset(rec *Record, now time.Time) int {
	if rec.FirstTranslationDate == nil {
		return 7
	}
	remaining := rec.FirstTranslationDate.Add(resetWindow).Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// weekStart returns Monday 00:00 local time of the week containing t.
func weekStart(t time.Time) time.Time {
	daysSinceMonday := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
