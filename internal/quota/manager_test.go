package quota

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decodedesk/decodedesk/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	m := NewManager(NewRedisStore(rdb, time.Hour), config.QuotaConfig{})
	return m, mr
}

func TestManager_GuestAllowance(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < DefaultGuestLimit; i++ {
		status := m.Check(ctx, "guest:s1", false)
		assert.True(t, status.Allowed, "use %d should be allowed", i+1)
		assert.Equal(t, DefaultGuestLimit-i, status.Remaining)
		assert.Equal(t, DefaultGuestLimit, status.Total)
		assert.False(t, status.IsWeeklyLimit)
		m.RecordUse(ctx, "guest:s1", false)
	}

	status := m.Check(ctx, "guest:s1", false)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)
}

func TestManager_UserWeeklyAllowance(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < DefaultUserWeeklyLimit; i++ {
		status := m.Check(ctx, "user:u1", true)
		assert.True(t, status.Allowed, "use %d should be allowed", i+1)
		assert.Equal(t, DefaultUserWeeklyLimit, status.Total)
		assert.True(t, status.IsWeeklyLimit)
		m.RecordUse(ctx, "user:u1", true)
	}

	status := m.Check(ctx, "user:u1", true)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)
}

func TestManager_CombinedCeilingAfterMigration(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.RecordUse(ctx, "guest:s1", false)
	}

	m.MigrateOnLogin(ctx, "guest:s1", "user:u1")

	// Guest-phase usage lifts the total to the combined ceiling.
	status := m.Check(ctx, "user:u1", true)
	assert.True(t, status.Allowed)
	assert.Equal(t, DefaultTotalWeeklyLimit, status.Total)
	assert.Equal(t, DefaultTotalWeeklyLimit-3, status.Remaining)

	for i := 0; i < DefaultTotalWeeklyLimit-3; i++ {
		require.True(t, m.Check(ctx, "user:u1", true).Allowed, "use %d should be allowed", i+1)
		m.RecordUse(ctx, "user:u1", true)
	}

	status = m.Check(ctx, "user:u1", true)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)
}

func TestManager_MigrationWithoutGuestUsage(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	m.MigrateOnLogin(ctx, "guest:fresh", "user:u1")

	status := m.Check(ctx, "user:u1", true)
	assert.True(t, status.Allowed)
	assert.Equal(t, DefaultUserWeeklyLimit, status.Total)
	assert.Equal(t, DefaultUserWeeklyLimit, status.Remaining)
}

func TestManager_MigrationPreservesAnchorAndZeroesUserUsage(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	anchor := time.Date(2026, 8, 25, 10, 0, 0, 0, time.Local)
	m.now = func() time.Time { return anchor }
	m.RecordUse(ctx, "guest:s1", false)

	later := anchor.Add(48 * time.Hour)
	m.now = func() time.Time { return later }
	m.MigrateOnLogin(ctx, "guest:s1", "user:u1")

	rec := m.Get(ctx, "user:u1")
	require.NotNil(t, rec.FirstTranslationDate)
	assert.True(t, rec.FirstTranslationDate.Equal(anchor), "anchor must survive migration")
	assert.Equal(t, 1, rec.GuestUsed)
	assert.Equal(t, 0, rec.UserUsed)
}

func TestManager_MigrationIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	m.RecordUse(ctx, "guest:s1", false)
	m.RecordUse(ctx, "guest:s1", false)

	m.MigrateOnLogin(ctx, "guest:s1", "user:u1")
	first := m.Get(ctx, "user:u1")

	m.MigrateOnLogin(ctx, "guest:s1", "user:u1")
	second := m.Get(ctx, "user:u1")

	assert.Equal(t, first.GuestUsed, second.GuestUsed)
	assert.Equal(t, first.UserUsed, second.UserUsed)
	require.NotNil(t, second.FirstTranslationDate)
	assert.True(t, first.FirstTranslationDate.Equal(*second.FirstTranslationDate))
}

func TestManager_RollingReset(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 3, 12, 0, 0, 0, time.Local)
	m.now = func() time.Time { return start }
	for i := 0; i < DefaultGuestLimit; i++ {
		m.RecordUse(ctx, "guest:s1", false)
	}
	require.False(t, m.Check(ctx, "guest:s1", false).Allowed)

	t.Run("window not yet elapsed", func(t *testing.T) {
		m.now = func() time.Time { return start.Add(7*24*time.Hour - time.Hour) }
		status := m.Check(ctx, "guest:s1", false)
		assert.False(t, status.Allowed)
	})

	t.Run("window elapsed", func(t *testing.T) {
		m.now = func() time.Time { return start.Add(7*24*time.Hour + time.Second) }
		status := m.Check(ctx, "guest:s1", false)
		assert.True(t, status.Allowed)
		assert.Equal(t, DefaultGuestLimit, status.Remaining)

		rec := m.Get(ctx, "guest:s1")
		assert.Equal(t, 0, rec.GuestUsed)
		assert.Nil(t, rec.FirstTranslationDate)
	})
}

func TestManager_DaysUntilReset(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	assert.Equal(t, 7, m.DaysUntilReset(ctx, "guest:none"), "no usage yet")

	start := time.Date(2026, 8, 3, 12, 0, 0, 0, time.Local)
	m.now = func() time.Time { return start }
	m.RecordUse(ctx, "guest:s1", false)

	assert.Equal(t, 7, m.DaysUntilReset(ctx, "guest:s1"))

	m.now = func() time.Time { return start.Add(3*24*time.Hour + time.Hour) }
	assert.Equal(t, 4, m.DaysUntilReset(ctx, "guest:s1"))

	m.now = func() time.Time { return start.Add(6*24*time.Hour + 23*time.Hour) }
	assert.Equal(t, 1, m.DaysUntilReset(ctx, "guest:s1"))

	m.now = func() time.Time { return start.Add(8 * 24 * time.Hour) }
	// Past the window the record lazily resets, so the full 7 days report again.
	assert.Equal(t, 7, m.DaysUntilReset(ctx, "guest:s1"))
}

func TestManager_ResetClearsRecord(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	m.RecordUse(ctx, "guest:s1", false)
	require.Equal(t, 1, m.Get(ctx, "guest:s1").GuestUsed)

	m.Reset(ctx, "guest:s1")

	rec := m.Get(ctx, "guest:s1")
	assert.Equal(t, 0, rec.GuestUsed)
	assert.Nil(t, rec.FirstTranslationDate)
}

func TestManager_FailsOpenOnStorageError(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	m.RecordUse(ctx, "guest:s1", false)
	mr.Close()

	status := m.Check(ctx, "guest:s1", false)
	assert.True(t, status.Allowed, "storage failure must not block usage")
	assert.Equal(t, DefaultGuestLimit, status.Remaining)
}

func TestManager_CorruptRecordSelfHeals(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(recordKeyPrefix+"guest:s1", "{not json"))

	status := m.Check(ctx, "guest:s1", false)
	assert.True(t, status.Allowed)
	assert.Equal(t, DefaultGuestLimit, status.Remaining)
}

func TestWeekStart(t *testing.T) {
	loc := time.Local

	t.Run("midweek", func(t *testing.T) {
		// 2026-08-27 is a Thursday; its week starts Monday the 24th.
		got := weekStart(time.Date(2026, 8, 27, 15, 30, 0, 0, loc))
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, loc), got)
	})

	t.Run("sunday belongs to the preceding monday", func(t *testing.T) {
		got := weekStart(time.Date(2026, 8, 30, 1, 0, 0, 0, loc))
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, loc), got)
	})

	t.Run("monday is its own week start", func(t *testing.T) {
		got := weekStart(time.Date(2026, 8, 24, 23, 59, 0, 0, loc))
		assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, loc), got)
	})
}
