package statistic

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/testutil"
)

func insertProfile(t *testing.T, ctx context.Context, profile *entity.GameProfile) {
	t.Helper()
	require.NoError(t, repository.NewGameProfileRepository().Create(ctx, profile))
}

func Test_leaderboard_total_points_order(t *testing.T) {
	ctx := testutil.MockContext()
	profileRepo := repository.NewGameProfileRepository()
	board := New(profileRepo, repository.NewUserAchievementRepository(), &testutil.MockRedisClient{})

	insertProfile(t, ctx, &entity.GameProfile{UserID: "ana", TotalPoints: 300, Level: 3})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "beto", TotalPoints: 500, Level: 4})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "carla", TotalPoints: 300, Level: 2})

	entries, err := board.GetLeaderBoard(ctx, "points", "total", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "beto", entries[0].UserID)
	require.Equal(t, 1, entries[0].Position)
	require.Equal(t, 500, entries[0].Value)

	// Equal points break the tie on user id, ascending.
	require.Equal(t, "ana", entries[1].UserID)
	require.Equal(t, 2, entries[1].Position)
	require.Equal(t, "carla", entries[2].UserID)
	require.Equal(t, 3, entries[2].Position)
}

func Test_leaderboard_level_tie_breaks(t *testing.T) {
	ctx := testutil.MockContext()
	board := New(
		repository.NewGameProfileRepository(),
		repository.NewUserAchievementRepository(),
		&testutil.MockRedisClient{},
	)

	insertProfile(t, ctx, &entity.GameProfile{UserID: "ana", Level: 5, TotalPoints: 700})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "beto", Level: 5, TotalPoints: 900})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "carla", Level: 5, TotalPoints: 700})

	entries, err := board.GetLeaderBoard(ctx, "level", "total", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Same level falls back to total points, then to user id.
	require.Equal(t, "beto", entries[0].UserID)
	require.Equal(t, "ana", entries[1].UserID)
	require.Equal(t, "carla", entries[2].UserID)

	// Two snapshots of the same state agree entirely.
	again, err := board.GetLeaderBoard(ctx, "level", "total", 0, 10)
	require.NoError(t, err)
	require.Equal(t, entries, again)
}

func Test_leaderboard_achievements_board(t *testing.T) {
	ctx := testutil.MockContext()
	userAchievementRepo := repository.NewUserAchievementRepository()
	board := New(repository.NewGameProfileRepository(), userAchievementRepo, &testutil.MockRedisClient{})

	insertProfile(t, ctx, &entity.GameProfile{UserID: "ana"})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "beto"})

	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, userAchievementRepo.Create(ctx, &entity.UserAchievement{
			UserID:        "beto",
			AchievementID: id,
			UnlockedAt:    time.Now(),
		}))
	}

	entries, err := board.GetLeaderBoard(ctx, "achievements", "total", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "beto", entries[0].UserID)
	require.Equal(t, 3, entries[0].Value)
	require.Equal(t, "ana", entries[1].UserID)
	require.Equal(t, 0, entries[1].Value)
}

func Test_leaderboard_offset_and_limit(t *testing.T) {
	ctx := testutil.MockContext()
	board := New(
		repository.NewGameProfileRepository(),
		repository.NewUserAchievementRepository(),
		&testutil.MockRedisClient{},
	)

	insertProfile(t, ctx, &entity.GameProfile{UserID: "ana", TotalPoints: 100})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "beto", TotalPoints: 200})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "carla", TotalPoints: 300})

	entries, err := board.GetLeaderBoard(ctx, "points", "total", 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "beto", entries[0].UserID)
	require.Equal(t, 2, entries[0].Position)

	// Positions survive pagination.
	entries, err = board.GetLeaderBoard(ctx, "points", "total", 2, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 3, entries[0].Position)

	entries, err = board.GetLeaderBoard(ctx, "points", "total", 10, 10)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = board.GetLeaderBoard(ctx, "points", "total", -1, 10)
	require.Error(t, err)
}

func Test_leaderboard_GetRank(t *testing.T) {
	ctx := testutil.MockContext()
	board := New(
		repository.NewGameProfileRepository(),
		repository.NewUserAchievementRepository(),
		&testutil.MockRedisClient{},
	)

	insertProfile(t, ctx, &entity.GameProfile{UserID: "ana", StreakLongest: 10})
	insertProfile(t, ctx, &entity.GameProfile{UserID: "beto", StreakLongest: 20})

	rank, err := board.GetRank(ctx, "ana", "streak", "total")
	require.NoError(t, err)
	require.Equal(t, uint64(2), rank)

	// Unknown users are unranked.
	rank, err = board.GetRank(ctx, "nobody", "streak", "total")
	require.NoError(t, err)
	require.Equal(t, uint64(0), rank)
}

func Test_leaderboard_week_board_uses_redis(t *testing.T) {
	ctx := testutil.MockContext()

	var incremented []string
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			incremented = append(incremented, key)
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{
				{Member: "beto", Score: 120},
				{Member: "ana", Score: 80},
			}, nil
		},
	}

	board := New(
		repository.NewGameProfileRepository(),
		repository.NewUserAchievementRepository(),
		redisClient,
	)

	require.NoError(t, board.IncreasePoints(ctx, "ana", 80, time.Now()))
	require.Equal(t, []string{
		redisKeyPointBoard(NewPeriodWeek(time.Now())),
		redisKeyPointBoard(NewPeriodMonth(time.Now())),
	}, incremented)

	entries, err := board.GetLeaderBoard(ctx, "points", "week", 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "beto", entries[0].UserID)
	require.Equal(t, 120, entries[0].Value)
	require.Equal(t, 1, entries[0].Position)
	require.Equal(t, "ana", entries[1].UserID)
	require.Equal(t, 2, entries[1].Position)

	// Only the point metric has period boards.
	_, err = board.GetLeaderBoard(ctx, "level", "week", 0, 10)
	require.Error(t, err)
}
