package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tangohub/backend/pkg/enum"
)

type StreakType string

var (
	StreakLogin    = enum.New(StreakType("login"))
	StreakActivity = enum.New(StreakType("activity"))
	StreakPractice = enum.New(StreakType("practice"))
)

// ProfileStats is the per-user stat block achievements and challenges are
// evaluated against. Stored as a JSON column so new counters can be added
// without a migration.
type ProfileStats struct {
	EventsAttended     int `json:"events_attended" mapstructure:"events_attended"`
	PostsCreated       int `json:"posts_created" mapstructure:"posts_created"`
	CommentsPosted     int `json:"comments_posted" mapstructure:"comments_posted"`
	FriendsReferred    int `json:"friends_referred" mapstructure:"friends_referred"`
	DaysActive         int `json:"days_active" mapstructure:"days_active"`
	TangoStylesLearned int `json:"tango_styles_learned" mapstructure:"tango_styles_learned"`
}

func (s *ProfileStats) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), s)
	case []byte:
		return json.Unmarshal(t, s)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (s ProfileStats) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// GameProfile is the per-user progression state and the unit of concurrency
// control. All mutation goes through the gameplay engine, which holds the
// user's lock for the whole load-mutate-store sequence.
type GameProfile struct {
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Level              int
	TotalPoints        int
	CurrentLevelPoints int
	NextLevelPoints    int

	StreakCurrent    int
	StreakLongest    int
	StreakType       StreakType
	StreakLastUpdate time.Time

	Badges Array[string]
	Stats  ProfileStats
}
