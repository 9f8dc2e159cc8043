package testutil

import (
	"context"

	"github.com/tangohub/backend/config"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/logger"
	"github.com/tangohub/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Default())
	ctx = xcontext.WithLogger(ctx, logger.NopLogger{})
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
