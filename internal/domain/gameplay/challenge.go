package gameplay

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// JoinChallenge enrolls the user in the challenge. It returns false without
// an error when the challenge is unknown, not active anymore, or the user
// already joined it.
func (e *Engine) JoinChallenge(ctx context.Context, userID, challengeID string) (bool, error) {
	if userID == "" || challengeID == "" {
		return false, errorx.New(errorx.BadRequest, "Not allow empty user id or challenge id")
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	challenge, err := e.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("Unknown challenge %s", challengeID)
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge %s: %v", challengeID, err)
		return false, errorx.Unknown
	}

	if !challenge.IsActive || time.Now().After(challenge.EndDate) {
		return false, nil
	}

	_, err = e.participantRepo.Get(ctx, challengeID, userID)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get participant of challenge %s: %v", challengeID, err)
		return false, errorx.Unknown
	}

	// The profile must exist before the first progress report arrives.
	if _, err := e.loadOrCreateProfileLocked(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return false, errorx.Unknown
	}

	participant := &entity.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
		Progress:    0,
		Target:      challenge.Target,
		StartedAt:   time.Now(),
	}
	if err := e.participantRepo.Create(ctx, participant); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create participant of challenge %s: %v", challengeID, err)
		return false, errorx.Unknown
	}

	e.emit(ctx, userID, gameevent.ChallengeJoinedEvent{
		UserID:      userID,
		ChallengeID: challengeID,
	})

	xcontext.WithCommitDBTransaction(ctx)

	e.flushEvents(ctx)
	return true, nil
}

// UpdateChallengeProgress adds increment to every uncompleted entry of the
// user whose challenge tracks the given metric. Completion is evaluated per
// entry, so one report can complete several challenges sharing a metric.
// An increment of zero means the caller omitted it and counts as one.
//
// Progress against a deactivated challenge is still recorded but can never
// complete it.
func (e *Engine) UpdateChallengeProgress(ctx context.Context, userID, metric string, increment int) error {
	if userID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if increment < 0 {
		return errorx.New(errorx.BadRequest, "Increment must not be negative, got %d", increment)
	}

	if increment == 0 {
		increment = 1
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	participants, err := e.participantRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges of user %s: %v", userID, err)
		return errorx.Unknown
	}

	before := profile.TotalPoints
	for i := range participants {
		participant := &participants[i]
		if participant.CompletedAt.Valid {
			continue
		}

		challenge, err := e.challengeRepo.GetByID(ctx, participant.ChallengeID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get challenge %s: %v", participant.ChallengeID, err)
			return errorx.Unknown
		}

		if challenge.Metric != metric {
			continue
		}

		participant.Progress += increment
		if challenge.IsActive && participant.Progress >= participant.Target {
			participant.CompletedAt = sql.NullTime{Valid: true, Time: time.Now()}
			if err := e.completeChallengeLocked(ctx, profile, challenge); err != nil {
				return err
			}
		}

		if err := e.participantRepo.Update(ctx, participant); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update participant of challenge %s: %v", challenge.ID, err)
			return errorx.Unknown
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

// completeChallengeLocked runs the completion cascade: reward points, the
// optional badge, the optional achievement, and the completion event.
func (e *Engine) completeChallengeLocked(
	ctx context.Context, profile *entity.GameProfile, challenge *entity.Challenge,
) error {
	if challenge.RewardPoints > 0 {
		err := e.awardPointsLocked(
			ctx, profile, challenge.RewardPoints, "challenge "+challenge.Name, string(challenge.Category))
		if err != nil {
			return err
		}
	}

	if challenge.RewardBadgeID.Valid {
		e.grantBadgeLocked(ctx, profile, challenge.RewardBadgeID.String)
	}

	if challenge.RewardAchievementID.Valid {
		if _, err := e.unlockAchievementLocked(ctx, profile, challenge.RewardAchievementID.String); err != nil {
			return err
		}
	}

	e.emit(ctx, profile.UserID, gameevent.ChallengeCompletedEvent{
		UserID:       profile.UserID,
		ChallengeID:  challenge.ID,
		RewardPoints: challenge.RewardPoints,
	})

	return nil
}

// ExpireChallenges deactivates every active challenge whose end date has
// passed. Joined entries survive; they simply can never complete afterwards.
func (e *Engine) ExpireChallenges(ctx context.Context, now time.Time) (int, error) {
	expired, err := e.challengeRepo.GetExpiredActive(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired challenges: %v", err)
		return 0, errorx.Unknown
	}

	for _, challenge := range expired {
		if err := e.challengeRepo.Deactivate(ctx, challenge.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate challenge %s: %v", challenge.ID, err)
			return 0, errorx.Unknown
		}
	}

	return len(expired), nil
}

// ActiveChallenges lists the currently joinable challenges.
func (e *Engine) ActiveChallenges(ctx context.Context) ([]entity.Challenge, error) {
	challenges, err := e.challengeRepo.GetActive(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active challenges: %v", err)
		return nil, errorx.Unknown
	}

	return challenges, nil
}

// ChallengeParticipants returns the participant set of a challenge.
func (e *Engine) ChallengeParticipants(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error) {
	participants, err := e.participantRepo.GetByChallengeID(ctx, challengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants of challenge %s: %v", challengeID, err)
		return nil, errorx.Unknown
	}

	return participants, nil
}

// UserChallenges returns the user's joined entries in join order.
func (e *Engine) UserChallenges(ctx context.Context, userID string) ([]entity.ChallengeParticipant, error) {
	participants, err := e.participantRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return participants, nil
}
