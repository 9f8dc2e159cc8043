package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tangohub/backend/config"
	"github.com/tangohub/backend/internal/domain"
	"github.com/tangohub/backend/internal/domain/gameevent"
	"github.com/tangohub/backend/internal/domain/gameplay"
	"github.com/tangohub/backend/internal/domain/statistic"
	"github.com/tangohub/backend/internal/repository"
	"github.com/tangohub/backend/pkg/kafka"
	"github.com/tangohub/backend/pkg/logger"
	"github.com/tangohub/backend/pkg/pubsub"
	"github.com/tangohub/backend/pkg/xcontext"
	"github.com/tangohub/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	profileRepo         repository.GameProfileRepository
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	challengeRepo       repository.ChallengeRepository
	participantRepo     repository.ChallengeParticipantRepository

	redisClient xredis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber

	engine      *gameplay.Engine
	leaderboard statistic.Leaderboard
	gameDomain  domain.GameDomain
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(cfg.LogLevel))

	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(
		xcontext.Configs(s.ctx).Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)

	var err error
	s.publisher, err = kafka.NewPublisher("engine", []string{cfg.Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.profileRepo = repository.NewGameProfileRepository()
	s.achievementRepo = repository.NewAchievementRepository()
	s.userAchievementRepo = repository.NewUserAchievementRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.participantRepo = repository.NewChallengeParticipantRepository()
}

func (s *srv) loadDomains() {
	snowflakeNode, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.leaderboard = statistic.New(s.profileRepo, s.userAchievementRepo, s.redisClient)
	s.engine = gameplay.NewEngine(
		s.profileRepo,
		s.achievementRepo,
		s.userAchievementRepo,
		s.challengeRepo,
		s.participantRepo,
		gameevent.NewEmitter(s.publisher, snowflakeNode),
		s.leaderboard,
	)
	s.gameDomain = domain.NewGameDomain(s.engine, s.leaderboard)
}
