package gameplay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/testutil"
)

func Test_Engine_AwardPoints_rejects_non_positive(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	userID := uuid.NewString()
	err := engine.AwardPoints(ctx, userID, 0, "nothing", "test")
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	err = engine.AwardPoints(ctx, userID, -10, "nothing", "test")
	require.Error(t, err)

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 0, profile.TotalPoints)
}

func Test_Engine_AwardPoints_level_up(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	userID := uuid.NewString()
	require.NoError(t, engine.AwardPoints(ctx, userID, 100, "event", "event"))

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 2, profile.Level)
	require.Equal(t, 0, profile.CurrentLevelPoints)
	require.Equal(t, 120, profile.NextLevelPoints)

	// 100 awarded plus the 20-point bonus for reaching level 2. The bonus
	// never feeds the level-up loop itself.
	require.Equal(t, 120, profile.TotalPoints)

	events := emitter.EventsOf(gameevent.LevelUpEvent{}.Op())
	require.Len(t, events, 1)
	require.Equal(t, 2, events[0].(gameevent.LevelUpEvent).NewLevel)
}

func Test_Engine_AwardPoints_multi_level_jump(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	// 250 points cross both the 100 and the 120 thresholds at once.
	userID := uuid.NewString()
	require.NoError(t, engine.AwardPoints(ctx, userID, 250, "big event", "event"))

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, profile.Level)
	require.Equal(t, 30, profile.CurrentLevelPoints)
	require.Equal(t, 144, profile.NextLevelPoints)
	require.Equal(t, 250+20+30, profile.TotalPoints)

	require.Len(t, emitter.EventsOf(gameevent.LevelUpEvent{}.Op()), 2)
}

func Test_Engine_AwardPoints_invariants(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	userID := uuid.NewString()
	lastLevel, lastTotal := 0, 0
	for _, points := range []int{1, 99, 13, 250, 7, 480, 1, 1, 1000} {
		require.NoError(t, engine.AwardPoints(ctx, userID, points, "sequence", "test"))

		profile, err := engine.GetProfile(ctx, userID)
		require.NoError(t, err)

		// The level pointer always sits strictly inside the current level.
		require.GreaterOrEqual(t, profile.CurrentLevelPoints, 0)
		require.Less(t, profile.CurrentLevelPoints, profile.NextLevelPoints)

		// Level and total points never go down.
		require.GreaterOrEqual(t, profile.Level, lastLevel)
		require.Greater(t, profile.TotalPoints, lastTotal)
		lastLevel, lastTotal = profile.Level, profile.TotalPoints
	}
}

func Test_Engine_level_milestones(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	// Level milestones reference catalog entries without stat requirements.
	_, err := testutil.SampleAchievement(ctx, &entity.Achievement{
		Base:   entity.Base{ID: TangoStudentAchievementID},
		Name:   "Tango Student",
		Points: 25,
	})
	require.NoError(t, err)

	_, err = testutil.SampleAchievement(ctx, &entity.Achievement{
		Base: entity.Base{ID: CommunityLeaderAchievementID},
		Name: "Community Leader",
	})
	require.NoError(t, err)

	// Cumulative curve costs: level 5 needs 536, level 10 needs 2076, and
	// level 25 needs 39235.
	userID := uuid.NewString()
	require.NoError(t, engine.AwardPoints(ctx, userID, 40000, "bulk import", "admin"))

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, profile.Level, 25)
	require.Contains(t, []string(profile.Badges), VeteranDancerBadgeID)

	unlocks := emitter.EventsOf(gameevent.AchievementUnlockedEvent{}.Op())
	require.Len(t, unlocks, 2)
	require.Equal(t, TangoStudentAchievementID,
		unlocks[0].(gameevent.AchievementUnlockedEvent).AchievementID)
	require.Equal(t, CommunityLeaderAchievementID,
		unlocks[1].(gameevent.AchievementUnlockedEvent).AchievementID)
}
