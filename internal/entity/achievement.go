package entity

import (
	"time"

	"github.com/tangohub/backend/pkg/enum"
)

type AchievementCategory string

var (
	AchievementSocial    = enum.New(AchievementCategory("social"))
	AchievementLearning  = enum.New(AchievementCategory("learning"))
	AchievementEvent     = enum.New(AchievementCategory("event"))
	AchievementCommunity = enum.New(AchievementCategory("community"))
	AchievementSpecial   = enum.New(AchievementCategory("special"))
)

type AchievementRarity string

var (
	RarityCommon    = enum.New(AchievementRarity("common"))
	RarityRare      = enum.New(AchievementRarity("rare"))
	RarityEpic      = enum.New(AchievementRarity("epic"))
	RarityLegendary = enum.New(AchievementRarity("legendary"))
)

// AchievementRequirement is one conjunct of the unlock rule: the user stat
// named by StatKey must reach Target.
type AchievementRequirement struct {
	StatKey string `json:"stat_key"`
	Target  int    `json:"target"`
}

// Achievement is a catalog definition. It is read-only after the catalog is
// loaded.
type Achievement struct {
	Base

	Name        string
	Description string
	Category    AchievementCategory
	Rarity      AchievementRarity
	Points      int

	Requirements Array[AchievementRequirement]
}

// UserAchievement records a single unlock. An achievement appears at most
// once per user.
type UserAchievement struct {
	UserID        string `gorm:"primaryKey"`
	AchievementID string `gorm:"primaryKey"`
	UnlockedAt    time.Time
}
