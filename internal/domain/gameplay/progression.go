package gameplay

import (
	"context"
	"math"

	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
)

const (
	levelTangoStudent    = 5
	levelVeteranDancer   = 10
	levelCommunityLeader = 25

	TangoStudentAchievementID    = "tango_student"
	CommunityLeaderAchievementID = "community_leader"
	VeteranDancerBadgeID         = "veteran_dancer"
)

// nextLevelPoints is the cost of leaving the given level. The curve is
// exponential: every level costs ~20% more than the last.
func nextLevelPoints(ctx context.Context, level int) int {
	cfg := xcontext.Configs(ctx).Game
	return int(math.Floor(float64(cfg.BaseLevelPoints) * math.Pow(cfg.LevelGrowthRate, float64(level-1))))
}

// AwardPoints adds points to the user's totals and runs the level-up cascade.
// Non-positive points are rejected without touching any state.
func (e *Engine) AwardPoints(ctx context.Context, userID string, points int, reason, category string) error {
	if userID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if points <= 0 {
		return errorx.New(errorx.BadRequest, "Points must be positive, got %d", points)
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	before := profile.TotalPoints
	if err := e.awardPointsLocked(ctx, profile, points, reason, category); err != nil {
		return err
	}

	if err := e.profileRepo.Update(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	e.flushEvents(ctx)
	e.recordPoints(ctx, userID, profile.TotalPoints-before)
	return nil
}

// awardPointsLocked is the in-cascade form of AwardPoints: the caller holds
// the user's lock and owns the final profile write.
func (e *Engine) awardPointsLocked(
	ctx context.Context, profile *entity.GameProfile, points int, reason, category string,
) error {
	profile.TotalPoints += points
	profile.CurrentLevelPoints += points

	e.emit(ctx, profile.UserID, gameevent.PointsAwardedEvent{
		UserID:   profile.UserID,
		Points:   points,
		Reason:   reason,
		Category: category,
	})

	for profile.CurrentLevelPoints >= profile.NextLevelPoints {
		profile.CurrentLevelPoints -= profile.NextLevelPoints
		profile.Level++
		profile.NextLevelPoints = nextLevelPoints(ctx, profile.Level)

		if err := e.handleLevelUpLocked(ctx, profile); err != nil {
			return err
		}
	}

	return nil
}

// handleLevelUpLocked applies the level-up rewards. The flat bonus goes to
// TotalPoints only and never re-enters the level-up loop, so one award call
// runs at most one level-up check per earned level.
func (e *Engine) handleLevelUpLocked(ctx context.Context, profile *entity.GameProfile) error {
	profile.TotalPoints += profile.Level * 10

	switch profile.Level {
	case levelTangoStudent:
		if _, err := e.unlockAchievementLocked(ctx, profile, TangoStudentAchievementID); err != nil {
			return err
		}
	case levelVeteranDancer:
		e.grantBadgeLocked(ctx, profile, VeteranDancerBadgeID)
	case levelCommunityLeader:
		if _, err := e.unlockAchievementLocked(ctx, profile, CommunityLeaderAchievementID); err != nil {
			return err
		}
	}

	e.emit(ctx, profile.UserID, gameevent.LevelUpEvent{
		UserID:   profile.UserID,
		NewLevel: profile.Level,
	})

	return nil
}
