package gameplay

import (
	"context"
	"fmt"
	"time"

	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/enum"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
)

const (
	// A streak continues when the previous update is at least this old...
	streakContinueAfter = 24 * time.Hour
	// ...and resets when it is older than this.
	streakResetAfter = 48 * time.Hour

	streakMilestoneDays   = 7
	streakMilestonePoints = 50
)

// UpdateStreak advances the user's activity streak. Updates inside the same
// 24h window are counted once; a gap of 48h or more resets the streak to 1.
// The timestamp is refreshed on every call, including the already-counted
// branch.
func (e *Engine) UpdateStreak(ctx context.Context, userID string, streakType entity.StreakType) error {
	if userID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if _, err := enum.ToEnum[entity.StreakType](string(streakType)); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid streak type %s", streakType)
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	now := time.Now()
	sinceLastUpdate := now.Sub(profile.StreakLastUpdate)

	continued := false
	switch {
	case sinceLastUpdate >= streakResetAfter:
		profile.StreakCurrent = 1
	case sinceLastUpdate >= streakContinueAfter:
		profile.StreakCurrent++
		if profile.StreakCurrent > profile.StreakLongest {
			profile.StreakLongest = profile.StreakCurrent
		}
		continued = true
	default:
		// Already counted for this window, only the timestamp is refreshed.
	}

	profile.StreakType = streakType
	profile.StreakLastUpdate = now

	// A fresh profile has longest=0 but current=1 after the first update.
	if profile.StreakCurrent > profile.StreakLongest {
		profile.StreakLongest = profile.StreakCurrent
	}

	e.emit(ctx, userID, gameevent.StreakUpdatedEvent{
		UserID:  userID,
		Type:    string(streakType),
		Current: profile.StreakCurrent,
		Longest: profile.StreakLongest,
	})

	before := profile.TotalPoints

	// The weekly milestone pays out only when the streak actually advanced,
	// otherwise repeated same-day calls would farm it.
	if continued && profile.StreakCurrent%streakMilestoneDays == 0 {
		bonus := streakMilestonePoints * (profile.StreakCurrent / streakMilestoneDays)
		reason := fmt.Sprintf("%d-day %s streak", profile.StreakCurrent, streakType)
		if err := e.awardPointsLocked(ctx, profile, bonus, reason, "streak"); err != nil {
			return err
		}
	}

	// Streak length feeds achievement requirements, so a longer streak can
	// unlock something new.
	if continued {
		if err := e.sweepAchievementsLocked(ctx, profile); err != nil {
			return err
		}
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
