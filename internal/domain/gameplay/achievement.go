package gameplay

import (
	"context"
	"errors"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/enum"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatKey string

var (
	StatPostsCreated       = enum.New(StatKey("posts_created"))
	StatEventsAttended     = enum.New(StatKey("events_attended"))
	StatFriendsMade        = enum.New(StatKey("friends_made"))
	StatCommentsPosted     = enum.New(StatKey("comments_posted"))
	StatDaysActive         = enum.New(StatKey("days_active"))
	StatTangoStylesLearned = enum.New(StatKey("tango_styles_learned"))
	StatActivityStreakDays = enum.New(StatKey("activity_streak_days"))
)

// statAccessors maps requirement stat keys onto profile fields. Keys outside
// this table resolve to zero, so an achievement with an unknown requirement
// can never unlock.
var statAccessors = map[StatKey]func(*entity.GameProfile) int{
	StatPostsCreated:       func(p *entity.GameProfile) int { return p.Stats.PostsCreated },
	StatEventsAttended:     func(p *entity.GameProfile) int { return p.Stats.EventsAttended },
	StatFriendsMade:        func(p *entity.GameProfile) int { return p.Stats.FriendsReferred },
	StatCommentsPosted:     func(p *entity.GameProfile) int { return p.Stats.CommentsPosted },
	StatDaysActive:         func(p *entity.GameProfile) int { return p.Stats.DaysActive },
	StatTangoStylesLearned: func(p *entity.GameProfile) int { return p.Stats.TangoStylesLearned },
	StatActivityStreakDays: func(p *entity.GameProfile) int { return p.StreakCurrent },
}

func statValue(profile *entity.GameProfile, key string) int {
	accessor, ok := statAccessors[StatKey(key)]
	if !ok {
		return 0
	}

	return accessor(profile)
}

// checkRequirements returns true only if every requirement is met. There is
// no partial credit.
func checkRequirements(profile *entity.GameProfile, achievement *entity.Achievement) bool {
	for _, requirement := range achievement.Requirements {
		if statValue(profile, requirement.StatKey) < requirement.Target {
			return false
		}
	}

	return true
}

// UnlockAchievement tries to unlock the achievement for the user. It returns
// false without an error when the achievement is unknown, already owned, or
// its requirements are not met; callers treat false as "no state change".
func (e *Engine) UnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	if userID == "" || achievementID == "" {
		return false, errorx.New(errorx.BadRequest, "Not allow empty user id or achievement id")
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return false, errorx.Unknown
	}

	before := profile.TotalPoints
	unlocked, err := e.unlockAchievementLocked(ctx, profile, achievementID)
	if err != nil {
		return false, err
	}

	if !unlocked {
		return false, nil
	}

	if err := e.profileRepo.Update(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile of user %s: %v", userID, err)
		return false, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	e.flushEvents(ctx)
	e.recordPoints(ctx, userID, profile.TotalPoints-before)
	return true, nil
}

func (e *Engine) unlockAchievementLocked(
	ctx context.Context, profile *entity.GameProfile, achievementID string,
) (bool, error) {
	achievement, err := e.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("Unknown achievement %s", achievementID)
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get achievement %s: %v", achievementID, err)
		return false, errorx.Unknown
	}

	_, err = e.userAchievementRepo.Get(ctx, profile.UserID, achievementID)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get unlock of achievement %s: %v", achievementID, err)
		return false, errorx.Unknown
	}

	if !checkRequirements(profile, achievement) {
		return false, nil
	}

	unlock := &entity.UserAchievement{
		UserID:        profile.UserID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	if err := e.userAchievementRepo.Create(ctx, unlock); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create unlock of achievement %s: %v", achievementID, err)
		return false, errorx.Unknown
	}

	if achievement.Points > 0 {
		err := e.awardPointsLocked(
			ctx, profile, achievement.Points, "achievement "+achievement.Name, string(achievement.Category))
		if err != nil {
			return false, err
		}
	}

	e.emit(ctx, profile.UserID, gameevent.AchievementUnlockedEvent{
		UserID:        profile.UserID,
		AchievementID: achievementID,
		Name:          achievement.Name,
		Rarity:        string(achievement.Rarity),
		Points:        achievement.Points,
	})

	return true, nil
}

// sweepAchievementsLocked re-evaluates the whole catalog against the profile.
// O(catalog size) per stat update, which is fine while the catalog stays in
// the tens.
func (e *Engine) sweepAchievementsLocked(ctx context.Context, profile *entity.GameProfile) error {
	achievements, err := e.achievementRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievement catalog: %v", err)
		return errorx.Unknown
	}

	for i := range achievements {
		if _, err := e.unlockAchievementLocked(ctx, profile, achievements[i].ID); err != nil {
			return err
		}
	}

	return nil
}

// UpdateStats sets the given stat fields to their reported absolute values,
// then sweeps the achievement catalog. Unknown and non-numeric fields are
// rejected.
func (e *Engine) UpdateStats(ctx context.Context, userID string, statDelta map[string]any) error {
	if userID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile.Stats,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create stats decoder: %v", err)
		return errorx.Unknown
	}

	if err := decoder.Decode(statDelta); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid stat fields: %v", err)
	}

	before := profile.TotalPoints
	if err := e.sweepAchievementsLocked(ctx, profile); err != nil {
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

// AllAchievements exposes the read-only catalog.
func (e *Engine) AllAchievements(ctx context.Context) ([]entity.Achievement, error) {
	achievements, err := e.achievementRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievement catalog: %v", err)
		return nil, errorx.Unknown
	}

	return achievements, nil
}

// UserAchievements returns the user's unlocks in unlock order.
func (e *Engine) UserAchievements(ctx context.Context, userID string) ([]entity.UserAchievement, error) {
	unlocks, err := e.userAchievementRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievements of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return unlocks, nil
}
