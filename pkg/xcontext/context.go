package xcontext

import (
	"context"

	"github.com/tangohub/backend/config"
	"github.com/tangohub/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	userIDKey        struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("configs is not setup in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("logger is not setup in context")
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// dbTransaction is stored as a pointer so a commit marks the transaction
// settled for every context derived from the same WithDBTransaction call.
// The usual pattern commits explicitly and leaves a deferred rollback as
// the error path; the rollback must then be a no-op.
type dbTransaction struct {
	tx      *gorm.DB
	settled bool
}

// DB returns the open transaction if one began with WithDBTransaction,
// otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.settled {
		return t.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("db is not setup in context")
	}

	return db
}

func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if ok && !t.settled {
		t.tx.Commit()
		t.settled = true
	}

	return ctx
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if ok && !t.settled {
		t.tx.Rollback()
		t.settled = true
	}

	return ctx
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return userID
}
