package entity

import (
	"context"

	"github.com/tangohub/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Achievement{},
		&Challenge{},
		&GameProfile{},
		&UserAchievement{},
		&ChallengeParticipant{},
	)
}
