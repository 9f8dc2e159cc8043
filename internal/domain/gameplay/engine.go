package gameplay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/errorx"
	"github.com/tangohub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// PointRecorder receives every settled point change, so period-scoped
// leaderboards stay in sync with profiles.
type PointRecorder interface {
	IncreasePoints(ctx context.Context, userID string, value int, at time.Time) error
}

// Engine owns all profile mutation. Every public mutating method takes the
// per-user lock for the whole load-mutate-cascade-store sequence; two
// concurrent calls for the same user can never interleave their read and
// write phases.
type Engine struct {
	profileRepo         repository.GameProfileRepository
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	challengeRepo       repository.ChallengeRepository
	participantRepo     repository.ChallengeParticipantRepository

	emitter       gameevent.Emitter
	pointRecorder PointRecorder

	userLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewEngine(
	profileRepo repository.GameProfileRepository,
	achievementRepo repository.AchievementRepository,
	userAchievementRepo repository.UserAchievementRepository,
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	emitter gameevent.Emitter,
	pointRecorder PointRecorder,
) *Engine {
	return &Engine{
		profileRepo:         profileRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		challengeRepo:       challengeRepo,
		participantRepo:     participantRepo,
		emitter:             emitter,
		pointRecorder:       pointRecorder,
		userLocks:           xsync.NewMapOf[*sync.Mutex](),
	}
}

// lockUser returns the locked mutex of this user. The lock is NOT reentrant;
// cascade steps running under it must use the *Locked variants only.
func (e *Engine) lockUser(userID string) *sync.Mutex {
	mutex, _ := e.userLocks.LoadOrStore(userID, &sync.Mutex{})

	mutex.Lock()
	return mutex
}

type pendingEvent struct {
	userID string
	event  gameevent.Event
}

type eventBufferKey struct{}

// withEventBuffer opens an event buffer in the context. Events raised during
// a cascade are held there and published only after the surrounding
// transaction commits; a rollback drops them, so subscribers never see an
// event for a mutation that did not happen.
func withEventBuffer(ctx context.Context) context.Context {
	return context.WithValue(ctx, eventBufferKey{}, &[]pendingEvent{})
}

func (e *Engine) emit(ctx context.Context, userID string, event gameevent.Event) {
	if buffer, ok := ctx.Value(eventBufferKey{}).(*[]pendingEvent); ok {
		*buffer = append(*buffer, pendingEvent{userID: userID, event: event})
		return
	}

	e.emitter.Emit(ctx, userID, event)
}

func (e *Engine) flushEvents(ctx context.Context) {
	buffer, ok := ctx.Value(eventBufferKey{}).(*[]pendingEvent)
	if !ok {
		return
	}

	for _, pending := range *buffer {
		e.emitter.Emit(ctx, pending.userID, pending.event)
	}

	*buffer = (*buffer)[:0]
}

func (e *Engine) loadOrCreateProfileLocked(
	ctx context.Context, userID string,
) (*entity.GameProfile, error) {
	profile, err := e.profileRepo.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &entity.GameProfile{
		UserID:           userID,
		Level:            1,
		NextLevelPoints:  xcontext.Configs(ctx).Game.BaseLevelPoints,
		StreakLastUpdate: time.Now(),
		Badges:           entity.Array[string]{},
	}

	if err := e.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// GetProfile returns the profile of userID, creating it lazily on first
// reference.
func (e *Engine) GetProfile(ctx context.Context, userID string) (*entity.GameProfile, error) {
	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	defer e.lockUser(userID).Unlock()

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return profile, nil
}

// GrantBadge gives the badge to the user. Badges are a set; granting an
// already-owned badge is a no-op and emits nothing.
func (e *Engine) GrantBadge(ctx context.Context, userID, badgeID string) error {
	if userID == "" || badgeID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty user id or badge id")
	}

	defer e.lockUser(userID).Unlock()

	ctx = withEventBuffer(xcontext.WithDBTransaction(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	profile, err := e.loadOrCreateProfileLocked(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	if !e.grantBadgeLocked(ctx, profile, badgeID) {
		return nil
	}

	if err := e.profileRepo.Update(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile of user %s: %v", userID, err)
		return errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	e.flushEvents(ctx)
	return nil
}

func (e *Engine) grantBadgeLocked(
	ctx context.Context, profile *entity.GameProfile, badgeID string,
) bool {
	for _, b := range profile.Badges {
		if b == badgeID {
			return false
		}
	}

	profile.Badges = append(profile.Badges, badgeID)
	e.emit(ctx, profile.UserID, gameevent.BadgeAwardedEvent{
		UserID:  profile.UserID,
		BadgeID: badgeID,
	})

	return true
}

func (e *Engine) recordPoints(ctx context.Context, userID string, delta int) {
	if delta <= 0 {
		return
	}

	if err := e.pointRecorder.IncreasePoints(ctx, userID, delta, time.Now()); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record %d points of user %s: %v", delta, userID, err)
	}
}
