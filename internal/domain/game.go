package domain

import (
	"context"

	"github.com/tangohub/backend/internal/domain/gameplay"
	"github.com/tangohub/backend/internal/domain/statistic"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/model"
	"github.com/tangohub/backend/pkg/enum"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
)

type GameDomain interface {
	GetProfile(context.Context, *model.GetProfileRequest) (*model.GetProfileResponse, error)
	AwardPoints(context.Context, *model.AwardPointsRequest) (*model.AwardPointsResponse, error)
	UpdateStats(context.Context, *model.UpdateStatsRequest) (*model.UpdateStatsResponse, error)
	UpdateStreak(context.Context, *model.UpdateStreakRequest) (*model.UpdateStreakResponse, error)
	UnlockAchievement(context.Context, *model.UnlockAchievementRequest) (*model.UnlockAchievementResponse, error)
	GrantBadge(context.Context, *model.GrantBadgeRequest) (*model.GrantBadgeResponse, error)
	JoinChallenge(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	UpdateChallengeProgress(context.Context, *model.UpdateChallengeProgressRequest) (*model.UpdateChallengeProgressResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetRank(context.Context, *model.GetRankRequest) (*model.GetRankResponse, error)
	GetActiveChallenges(context.Context, *model.GetActiveChallengesRequest) (*model.GetActiveChallengesResponse, error)
	GetAllAchievements(context.Context, *model.GetAllAchievementsRequest) (*model.GetAllAchievementsResponse, error)
}

type gameDomain struct {
	engine      *gameplay.Engine
	leaderboard statistic.Leaderboard
}

func NewGameDomain(engine *gameplay.Engine, leaderboard statistic.Leaderboard) GameDomain {
	return &gameDomain{engine: engine, leaderboard: leaderboard}
}

func (d *gameDomain) GetProfile(
	ctx context.Context, req *model.GetProfileRequest,
) (*model.GetProfileResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	profile, err := d.engine.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	unlocks, err := d.engine.UserAchievements(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	participants, err := d.engine.UserChallenges(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	resp := model.GetProfileResponse(model.ConvertGameProfile(profile, unlocks, participants))
	return &resp, nil
}

func (d *gameDomain) AwardPoints(
	ctx context.Context, req *model.AwardPointsRequest,
) (*model.AwardPointsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	err := d.engine.AwardPoints(ctx, req.UserID, req.Points, req.Reason, req.Category)
	if err != nil {
		return nil, err
	}

	return &model.AwardPointsResponse{}, nil
}

func (d *gameDomain) UpdateStats(
	ctx context.Context, req *model.UpdateStatsRequest,
) (*model.UpdateStatsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if len(req.Stats) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty stats object")
	}

	if err := d.engine.UpdateStats(ctx, req.UserID, req.Stats); err != nil {
		return nil, err
	}

	return &model.UpdateStatsResponse{}, nil
}

func (d *gameDomain) UpdateStreak(
	ctx context.Context, req *model.UpdateStreakRequest,
) (*model.UpdateStreakResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	streakType, err := enum.ToEnum[entity.StreakType](req.StreakType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid streak type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid streak type %s", req.StreakType)
	}

	if err := d.engine.UpdateStreak(ctx, req.UserID, streakType); err != nil {
		return nil, err
	}

	return &model.UpdateStreakResponse{}, nil
}

func (d *gameDomain) UnlockAchievement(
	ctx context.Context, req *model.UnlockAchievementRequest,
) (*model.UnlockAchievementResponse, error) {
	if req.UserID == "" || req.AchievementID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id or achievement id")
	}

	unlocked, err := d.engine.UnlockAchievement(ctx, req.UserID, req.AchievementID)
	if err != nil {
		return nil, err
	}

	return &model.UnlockAchievementResponse{Unlocked: unlocked}, nil
}

func (d *gameDomain) GrantBadge(
	ctx context.Context, req *model.GrantBadgeRequest,
) (*model.GrantBadgeResponse, error) {
	if req.UserID == "" || req.BadgeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id or badge id")
	}

	if err := d.engine.GrantBadge(ctx, req.UserID, req.BadgeID); err != nil {
		return nil, err
	}

	return &model.GrantBadgeResponse{}, nil
}

func (d *gameDomain) JoinChallenge(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	if req.UserID == "" || req.ChallengeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id or challenge id")
	}

	joined, err := d.engine.JoinChallenge(ctx, req.UserID, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	return &model.JoinChallengeResponse{Joined: joined}, nil
}

func (d *gameDomain) UpdateChallengeProgress(
	ctx context.Context, req *model.UpdateChallengeProgressRequest,
) (*model.UpdateChallengeProgressResponse, error) {
	if req.UserID == "" || req.Metric == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id or metric")
	}

	err := d.engine.UpdateChallengeProgress(ctx, req.UserID, req.Metric, req.Increment)
	if err != nil {
		return nil, err
	}

	return &model.UpdateChallengeProgressResponse{}, nil
}

func (d *gameDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	entries, err := d.leaderboard.GetLeaderBoard(ctx, req.Type, req.Period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Leaderboard: entries}, nil
}

func (d *gameDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	rank, err := d.leaderboard.GetRank(ctx, req.UserID, req.Type, req.Period)
	if err != nil {
		return nil, err
	}

	return &model.GetRankResponse{Rank: rank}, nil
}

func (d *gameDomain) GetActiveChallenges(
	ctx context.Context, req *model.GetActiveChallengesRequest,
) (*model.GetActiveChallengesResponse, error) {
	challenges, err := d.engine.ActiveChallenges(ctx)
	if err != nil {
		return nil, err
	}

	clientChallenges := []model.Challenge{}
	for _, c := range challenges {
		participants, err := d.engine.ChallengeParticipants(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		clientChallenges = append(clientChallenges, model.ConvertChallenge(&c, len(participants)))
	}

	return &model.GetActiveChallengesResponse{Challenges: clientChallenges}, nil
}

func (d *gameDomain) GetAllAchievements(
	ctx context.Context, req *model.GetAllAchievementsRequest,
) (*model.GetAllAchievementsResponse, error) {
	achievements, err := d.engine.AllAchievements(ctx)
	if err != nil {
		return nil, err
	}

	clientAchievements := []model.Achievement{}
	for _, a := range achievements {
		clientAchievements = append(clientAchievements, model.ConvertAchievement(&a))
	}

	return &model.GetAllAchievementsResponse{Achievements: clientAchievements}, nil
}
