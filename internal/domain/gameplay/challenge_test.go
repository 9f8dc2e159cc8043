package gameplay

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/testutil"
)

func Test_Engine_JoinChallenge(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	userID := uuid.NewString()
	joined, err := engine.JoinChallenge(ctx, userID, challenge.ID)
	require.NoError(t, err)
	require.True(t, joined)

	// Joining twice is a no-op.
	joined, err = engine.JoinChallenge(ctx, userID, challenge.ID)
	require.NoError(t, err)
	require.False(t, joined)

	// Unknown challenges are a no-op too.
	joined, err = engine.JoinChallenge(ctx, userID, "no_such_challenge")
	require.NoError(t, err)
	require.False(t, joined)

	participants, err := engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	require.Equal(t, 0, participants[0].Progress)
	require.Equal(t, challenge.Target, participants[0].Target)
}

func Test_Engine_JoinChallenge_rejects_ended(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	ended, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		StartDate: time.Now().AddDate(0, 0, -7),
		EndDate:   time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	joined, err := engine.JoinChallenge(ctx, uuid.NewString(), ended.ID)
	require.NoError(t, err)
	require.False(t, joined)
}

func Test_Engine_challenge_completion_cascade(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)

	challenge, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		Name:          "Social Week",
		Metric:        "friends_referred",
		Target:        3,
		RewardPoints:  200,
		RewardBadgeID: sql.NullString{Valid: true, String: "social_week_winner"},
	})
	require.NoError(t, err)

	userID := uuid.NewString()
	joined, err := engine.JoinChallenge(ctx, userID, challenge.ID)
	require.NoError(t, err)
	require.True(t, joined)

	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, "friends_referred", 1))
	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, "friends_referred", 1))

	participants, err := engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 2, participants[0].Progress)
	require.False(t, participants[0].CompletedAt.Valid)

	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, "friends_referred", 1))

	participants, err = engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, participants[0].Progress)
	require.True(t, participants[0].CompletedAt.Valid)

	profile, err := engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Contains(t, []string(profile.Badges), "social_week_winner")

	// 200 reward points reach level 2 and pay its 20-point bonus.
	require.Equal(t, 220, profile.TotalPoints)

	// A report after completion changes nothing.
	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, "friends_referred", 1))

	participants, err = engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, participants[0].Progress)

	profile, err = engine.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 220, profile.TotalPoints)

	require.Len(t, emitter.EventsOf(gameevent.ChallengeCompletedEvent{}.Op()), 1)
}

func Test_Engine_UpdateChallengeProgress_default_increment(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	challenge, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	userID := uuid.NewString()
	joined, err := engine.JoinChallenge(ctx, userID, challenge.ID)
	require.NoError(t, err)
	require.True(t, joined)

	// A report without an explicit increment counts as one.
	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, challenge.Metric, 0))

	participants, err := engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, participants[0].Progress)

	err = engine.UpdateChallengeProgress(ctx, userID, challenge.Metric, -1)
	require.Error(t, err)

	participants, err = engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, participants[0].Progress)
}

func Test_Engine_progress_on_inactive_challenge_never_completes(t *testing.T) {
	ctx := testutil.MockContext()
	engine, emitter := newTestEngine(ctx)
	challengeRepo := repository.NewChallengeRepository()

	challenge, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		Metric: "posts_created",
		Target: 2,
	})
	require.NoError(t, err)

	userID := uuid.NewString()
	joined, err := engine.JoinChallenge(ctx, userID, challenge.ID)
	require.NoError(t, err)
	require.True(t, joined)

	require.NoError(t, challengeRepo.Deactivate(ctx, challenge.ID))

	require.NoError(t, engine.UpdateChallengeProgress(ctx, userID, "posts_created", 5))

	// Progress is recorded past the target but the entry stays open.
	participants, err := engine.UserChallenges(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 5, participants[0].Progress)
	require.False(t, participants[0].CompletedAt.Valid)

	require.Empty(t, emitter.EventsOf(gameevent.ChallengeCompletedEvent{}.Op()))
}

func Test_Engine_ExpireChallenges(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newTestEngine(ctx)

	_, err := testutil.SampleChallenge(ctx, &entity.Challenge{
		EndDate: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	alive, err := testutil.SampleChallenge(ctx, nil)
	require.NoError(t, err)

	n, err := engine.ExpireChallenges(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	active, err := engine.ActiveChallenges(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, alive.ID, active[0].ID)

	// A second sweep finds nothing left.
	n, err = engine.ExpireChallenges(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
