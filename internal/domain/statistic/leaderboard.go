package statistic

import (
	"context"
	"time"

	"github.com/pkg/math"
	"github.com/tangohub/backend/internal/model"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/enum"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
	"github.com/tangohub/backend/pkg/xredis"
	"golang.org/x/exp/slices"
)

type BoardType string

var (
	BoardPoints       = enum.New(BoardType("points"))
	BoardLevel        = enum.New(BoardType("level"))
	BoardAchievements = enum.New(BoardType("achievements"))
	BoardStreak       = enum.New(BoardType("streak"))
)

// snapshotTTL bounds how stale an all-time board can be. Rankings tolerate
// slight staleness per entry; only torn single-profile reads are forbidden.
const snapshotTTL = 30 * time.Second

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context, boardType, period string, offset, limit int,
	) ([]model.LeaderboardEntry, error)

	GetRank(ctx context.Context, userID, boardType, period string) (uint64, error)

	// IncreasePoints feeds the week and month point boards. Called by the
	// gameplay engine after every settled point change.
	IncreasePoints(ctx context.Context, userID string, value int, at time.Time) error
}

type leaderboard struct {
	profileRepo         repository.GameProfileRepository
	userAchievementRepo repository.UserAchievementRepository
	redisClient         xredis.Client
}

func New(
	profileRepo repository.GameProfileRepository,
	userAchievementRepo repository.UserAchievementRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		profileRepo:         profileRepo,
		userAchievementRepo: userAchievementRepo,
		redisClient:         redisClient,
	}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context, boardType, period string, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	if offset < 0 || limit <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid offset or limit")
	}

	bt, err := enum.ToEnum[BoardType](boardType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid leaderboard type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid leaderboard type %s", boardType)
	}

	p, err := ToPeriod(period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", period)
	}

	if _, ok := p.(PeriodTotal); ok {
		entries, err := l.snapshotBoard(ctx, bt)
		if err != nil {
			return nil, err
		}

		from := math.MinInt(offset, len(entries))
		to := math.MinInt(offset+limit, len(entries))
		return entries[from:to], nil
	}

	// Period boards exist for points only; the other metrics have no
	// per-period history.
	if bt != BoardPoints {
		return nil, errorx.New(errorx.BadRequest,
			"Leaderboard type %s supports only the total period", boardType)
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, redisKeyPointBoard(p), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, z := range results {
		entries = append(entries, model.LeaderboardEntry{
			UserID:   z.Member.(string),
			Position: offset + i + 1,
			Value:    int(z.Score),
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID, boardType, period string,
) (uint64, error) {
	bt, err := enum.ToEnum[BoardType](boardType)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid leaderboard type: %v", err)
		return 0, errorx.New(errorx.BadRequest, "Invalid leaderboard type %s", boardType)
	}

	p, err := ToPeriod(period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return 0, errorx.New(errorx.BadRequest, "Invalid period %s", period)
	}

	if _, ok := p.(PeriodTotal); ok {
		entries, err := l.snapshotBoard(ctx, bt)
		if err != nil {
			return 0, err
		}

		for _, entry := range entries {
			if entry.UserID == userID {
				return uint64(entry.Position), nil
			}
		}

		return 0, nil
	}

	if bt != BoardPoints {
		return 0, errorx.New(errorx.BadRequest,
			"Leaderboard type %s supports only the total period", boardType)
	}

	rank, err := l.redisClient.ZRevRank(ctx, redisKeyPointBoard(p), userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) IncreasePoints(
	ctx context.Context, userID string, value int, at time.Time,
) error {
	for _, p := range []PeriodType{NewPeriodWeek(at), NewPeriodMonth(at)} {
		err := l.redisClient.ZIncrBy(ctx, redisKeyPointBoard(p), int64(value), userID)
		if err != nil {
			return err
		}
	}

	return nil
}

// snapshotBoard derives the full ordered all-time board from the profile
// store. The result is cached briefly in redis; the sort itself is a pure
// function of the snapshot, so two derivations from the same state give the
// same order.
func (l *leaderboard) snapshotBoard(
	ctx context.Context, boardType BoardType,
) ([]model.LeaderboardEntry, error) {
	cacheKey := redisKeySnapshotBoard(boardType)

	var cached []model.LeaderboardEntry
	if err := l.redisClient.GetObj(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	profiles, err := l.profileRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot snapshot profiles: %v", err)
		return nil, errorx.Unknown
	}

	achievementCounts := map[string]int{}
	if boardType == BoardAchievements {
		counts, err := l.userAchievementRepo.CountGroupByUser(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count achievements: %v", err)
			return nil, errorx.Unknown
		}

		for _, c := range counts {
			achievementCounts[c.UserID] = c.Count
		}
	}

	type ranked struct {
		userID      string
		value       int
		totalPoints int
	}

	rankedProfiles := make([]ranked, 0, len(profiles))
	for _, p := range profiles {
		r := ranked{userID: p.UserID, totalPoints: p.TotalPoints}
		switch boardType {
		case BoardPoints:
			r.value = p.TotalPoints
		case BoardLevel:
			r.value = p.Level
		case BoardAchievements:
			r.value = achievementCounts[p.UserID]
		case BoardStreak:
			r.value = p.StreakLongest
		}

		rankedProfiles = append(rankedProfiles, r)
	}

	slices.SortFunc(rankedProfiles, func(a, b ranked) bool {
		if a.value != b.value {
			return a.value > b.value
		}

		// The level board breaks ties on total points; every board falls
		// back to user id so exact ties stay deterministic.
		if boardType == BoardLevel && a.totalPoints != b.totalPoints {
			return a.totalPoints > b.totalPoints
		}

		return a.userID < b.userID
	})

	entries := make([]model.LeaderboardEntry, 0, len(rankedProfiles))
	for i, r := range rankedProfiles {
		entries = append(entries, model.LeaderboardEntry{
			UserID:   r.userID,
			Position: i + 1,
			Value:    r.value,
		})
	}

	if err := l.redisClient.SetObj(ctx, cacheKey, entries, snapshotTTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache leaderboard %s: %v", cacheKey, err)
	}

	return entries, nil
}
