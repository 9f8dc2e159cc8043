package gameplay

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/testutil"
)

func newTestEngine(ctx context.Context) (*Engine, *testutil.MockEmitter) {
	emitter := &testutil.MockEmitter{}
	engine := NewEngine(
		repository.NewGameProfileRepository(),
		repository.NewAchievementRepository(),
		repository.NewUserAchievementRepository(),
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		emitter,
		&testutil.MockPointRecorder{},
	)

	return engine, emitter
}

func Test_Engine_GetProfile_creates_lazily(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	userID := uuid.NewString()
	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, profile.UserID)
	require.Equal(t, 1, profile.Level)
	require.Equal(t, 0, profile.TotalPoints)
	require.Equal(t, 100, profile.NextLevelPoints)
	require.Empty(t, profile.Badges)

	// A second read returns the same profile, not a new one.
	again, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, profile.CreatedAt.Unix(), again.CreatedAt.Unix())
}

func Test_Engine_GrantBadge_is_a_set(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	userID := uuid.NewString()
	require.NoError(t, engine.GrantBadge(ctx, userID, "first_milonga"))
	require.NoError(t, engine.GrantBadge(ctx, userID, "first_milonga"))
	require.NoError(t, engine.GrantBadge(ctx, userID, "dj_debut"))

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, []string{"first_milonga", "dj_debut"}, []string(profile.Badges))

	// The duplicated grant emitted nothing.
	events := emitter.EventsOf(gameevent.BadgeAwardedEvent{}.Op())
	require.Len(t, events, 2)
}

func Test_Engine_events_publish_only_after_flush(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	userID := uuid.NewString()

	// Buffered events stay invisible until the cascade flushes them.
	buffered := withEventBuffer(ctx)
	engine.emit(buffered, userID, gameevent.PointsAwardedEvent{UserID: userID, Points: 10})
	require.Empty(t, emitter.Events())

	engine.flushEvents(buffered)
	require.Len(t, emitter.EventsOf(gameevent.PointsAwardedEvent{}.Op()), 1)

	// An aborted cascade never flushes, so its events are dropped.
	dropped := withEventBuffer(ctx)
	engine.emit(dropped, userID, gameevent.LevelUpEvent{UserID: userID, NewLevel: 2})
	require.Empty(t, emitter.EventsOf(gameevent.LevelUpEvent{}.Op()))

	// Without a buffer the emit goes straight through.
	engine.emit(ctx, userID, gameevent.LevelUpEvent{UserID: userID, NewLevel: 2})
	require.Len(t, emitter.EventsOf(gameevent.LevelUpEvent{}.Op()), 1)
}

func Test_Engine_AwardPoints_concurrent_same_user(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	userID := uuid.NewString()
	_, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)

	errs := make(chan error, 100)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- engine.AwardPoints(ctx, userID, 10, "practice", "practice")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)

	// 1000 awarded points climb to level 7 (cumulative cost 991 with the
	// default curve), and the per-level bonuses 20..70 land on top.
	require.Equal(t, 7, profile.Level)
	require.Equal(t, 1000+20+30+40+50+60+70, profile.TotalPoints)
	require.Equal(t, 9, profile.CurrentLevelPoints)
	require.Equal(t, 298, profile.NextLevelPoints)
}
