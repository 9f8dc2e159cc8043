package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/repository"
)

// SampleAchievement creates a new achievement in database with many fields
// randomized. The sample achievement can be overwritten by non-zero fields
// of init.
//
// This function returns the sample achievement.
func SampleAchievement(ctx context.Context, init *entity.Achievement) (entity.Achievement, error) {
	achievementRepo := repository.NewAchievementRepository()

	sample := &entity.Achievement{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        uuid.NewString(),
		Description: uuid.NewString(),
		Category:    entity.AchievementSocial,
		Rarity:      entity.RarityCommon,
		Points:      10,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := achievementRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleChallenge creates a new active challenge in database. The sample
// challenge can be overwritten by non-zero fields of init.
func SampleChallenge(ctx context.Context, init *entity.Challenge) (entity.Challenge, error) {
	challengeRepo := repository.NewChallengeRepository()

	sample := &entity.Challenge{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         uuid.NewString(),
		Category:     entity.ChallengeWeekly,
		Metric:       "posts_created",
		Target:       5,
		RewardPoints: 50,
		StartDate:    time.Now().Add(-time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
		IsActive:     true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := challengeRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
