package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tangohub/backend/internal/domain/cron"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/internal/model"
	"github.com/tangohub/backend/pkg/kafka"
	"github.com/tangohub/backend/pkg/pubsub"
	"github.com/tangohub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startEngine(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)

	var err error
	s.subscriber, err = kafka.NewSubscriber(
		"engine",
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Kafka.StatTopic},
		s.handleStatFeed,
	)
	if err != nil {
		return err
	}

	go s.subscriber.Subscribe(s.ctx)

	cronJobManager := cron.NewCronJobManager()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		xcontext.Logger(s.ctx).Infof("Shutting down...")
		if err := s.subscriber.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop subscriber: %v", err)
		}

		if err := s.publisher.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
		}

		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(
		s.ctx,
		cron.NewExpireChallengesCronJob(s.engine, cfg.Game.ChallengeExpiryInterval),
	)

	return nil
}

func (s *srv) handleStatFeed(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var msg model.StatFeedMessage
	if err := json.Unmarshal(pack.Msg, &msg); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal stat feed message: %v", err)
		return
	}

	var err error
	switch msg.Type {
	case model.StatFeedTypeStats:
		_, err = s.gameDomain.UpdateStats(ctx, &model.UpdateStatsRequest{
			UserID: msg.UserID,
			Stats:  msg.Stats,
		})

	case model.StatFeedTypeStreak:
		_, err = s.gameDomain.UpdateStreak(ctx, &model.UpdateStreakRequest{
			UserID:     msg.UserID,
			StreakType: msg.StreakType,
		})

	case model.StatFeedTypeProgress:
		_, err = s.gameDomain.UpdateChallengeProgress(ctx, &model.UpdateChallengeProgressRequest{
			UserID:    msg.UserID,
			Metric:    msg.Metric,
			Increment: msg.Increment,
		})

	default:
		xcontext.Logger(ctx).Warnf("Unknown stat feed type %s", msg.Type)
		return
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot handle stat feed %s of user %s: %v",
			msg.Type, msg.UserID, err)
	}
}
