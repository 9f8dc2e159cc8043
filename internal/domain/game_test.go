package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tangohub/backend/internal/domain/gameplay"
	"github.com/tangohub/backend/internal/domain/statistic"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/model"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/testutil"
)

func newTestGameDomain(ctx context.Context) GameDomain {
	profileRepo := repository.NewGameProfileRepository()
	userAchievementRepo := repository.NewUserAchievementRepository()
	leaderboard := statistic.New(profileRepo, userAchievementRepo, &testutil.MockRedisClient{})
	engine := gameplay.NewEngine(
		profileRepo,
		repository.NewAchievementRepository(),
		userAchievementRepo,
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		&testutil.MockEmitter{},
		leaderboard,
	)

	return NewGameDomain(engine, leaderboard)
}

func Test_gameDomain_full_flow(t *testing.T) {
	ctx := testutil.MockContext()
	gameDomain := newTestGameDomain(ctx)

	achievement, err := testutil.SampleAchievement(ctx, &entity.Achievement{
		Name:   "First Post",
		Points: 50,
		Requirements: entity.Array[entity.AchievementRequirement]{
			{StatKey: "posts_created", Target: 1},
		},
	})
	require.NoError(t, err)

	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	userID := uuid.NewString()
	_, err = gameDomain.AwardPoints(ctx, &model.AwardPointsRequest{
		UserID: userID,
		Points: 30,
		Reason: "attended a milonga",
	})
	require.NoError(t, err)

	_, err = gameDomain.UpdateStats(ctx, &model.UpdateStatsRequest{
		UserID: userID,
		Stats:  map[string]any{"posts_created": 1},
	})
	require.NoError(t, err)

	joinResp, err := gameDomain.JoinChallenge(ctx, &model.JoinChallengeRequest{
		UserID:      userID,
		ChallengeID: challenge.ID,
	})
	require.NoError(t, err)
	require.True(t, joinResp.Joined)

	profile, err := gameDomain.GetProfile(ctx, &model.GetProfileRequest{UserID: userID})
	require.NoError(t, err)
	require.Equal(t, userID, profile.UserID)
	require.Equal(t, 80, profile.TotalPoints)
	require.Len(t, profile.Achievements, 1)
	require.Equal(t, achievement.ID, profile.Achievements[0].AchievementID)
	require.Len(t, profile.Challenges, 1)
	require.Equal(t, challenge.ID, profile.Challenges[0].ChallengeID)

	board, err := gameDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Type:   "points",
		Period: "total",
		Offset: 0,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, board.Leaderboard, 1)
	require.Equal(t, userID, board.Leaderboard[0].UserID)
	require.Equal(t, 80, board.Leaderboard[0].Value)

	rank, err := gameDomain.GetRank(ctx, &model.GetRankRequest{
		UserID: userID,
		Type:   "points",
		Period: "total",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank.Rank)
}

func Test_gameDomain_validation(t *testing.T) {
	ctx := testutil.MockContext()
	gameDomain := newTestGameDomain(ctx)

	_, err := gameDomain.GetProfile(ctx, &model.GetProfileRequest{})
	require.Error(t, err)

	_, err = gameDomain.UpdateStreak(ctx, &model.UpdateStreakRequest{
		UserID:     uuid.NewString(),
		StreakType: "sleeping",
	})
	require.Error(t, err)

	_, err = gameDomain.UpdateStats(ctx, &model.UpdateStatsRequest{UserID: uuid.NewString()})
	require.Error(t, err)

	_, err = gameDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		Type:   "charisma",
		Period: "total",
		Limit:  10,
	})
	require.Error(t, err)
}

func Test_gameDomain_catalog_endpoints(t *testing.T) {
	ctx := testutil.MockContext()
	gameDomain := newTestGameDomain(ctx)

	_, err := testutil.SampleAchievement(ctx, nil)
	require.NoError(t, err)
	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	achievements, err := gameDomain.GetAllAchievements(ctx, &model.GetAllAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, achievements.Achievements, 1)

	_, err = gameDomain.JoinChallenge(ctx, &model.JoinChallengeRequest{
		UserID:      uuid.NewString(),
		ChallengeID: challenge.ID,
	})
	require.NoError(t, err)

	challenges, err := gameDomain.GetActiveChallenges(ctx, &model.GetActiveChallengesRequest{})
	require.NoError(t, err)
	require.Len(t, challenges.Challenges, 1)
	require.Equal(t, 1, challenges.Challenges[0].Participants)
}
