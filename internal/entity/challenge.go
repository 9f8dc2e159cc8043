package entity

import (
	"database/sql"
	"time"

	"github.com/tangohub/backend/pkg/enum"
)

type ChallengeCategory string

var (
	ChallengeDaily    = enum.New(ChallengeCategory("daily"))
	ChallengeWeekly   = enum.New(ChallengeCategory("weekly"))
	ChallengeMonthly  = enum.New(ChallengeCategory("monthly"))
	ChallengeSeasonal = enum.New(ChallengeCategory("seasonal"))
)

type Challenge struct {
	Base

	Name     string
	Category ChallengeCategory

	// Metric is the stat key which progress reports are matched against.
	Metric string
	Target int

	RewardPoints        int
	RewardBadgeID       sql.NullString
	RewardAchievementID sql.NullString

	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// ChallengeParticipant is one user's entry in one challenge. A user joins a
// challenge at most once.
type ChallengeParticipant struct {
	ChallengeID string `gorm:"primaryKey"`
	UserID      string `gorm:"primaryKey"`

	Progress    int
	Target      int
	StartedAt   time.Time
	CompletedAt sql.NullTime
}
