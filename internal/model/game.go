package model

import "time"

type Streak struct {
	Current    int       `json:"current"`
	Longest    int       `json:"longest"`
	Type       string    `json:"type"`
	LastUpdate time.Time `json:"last_update"`
}

type Stats struct {
	EventsAttended     int `json:"events_attended"`
	PostsCreated       int `json:"posts_created"`
	CommentsPosted     int `json:"comments_posted"`
	FriendsReferred    int `json:"friends_referred"`
	DaysActive         int `json:"days_active"`
	TangoStylesLearned int `json:"tango_styles_learned"`
}

type UnlockedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

type UserChallenge struct {
	ChallengeID string     `json:"challenge_id"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type GameProfile struct {
	UserID             string                `json:"user_id"`
	Level              int                   `json:"level"`
	TotalPoints        int                   `json:"total_points"`
	CurrentLevelPoints int                   `json:"current_level_points"`
	NextLevelPoints    int                   `json:"next_level_points"`
	Streak             Streak                `json:"streak"`
	Stats              Stats                 `json:"stats"`
	Badges             []string              `json:"badges"`
	Achievements       []UnlockedAchievement `json:"achievements"`
	Challenges         []UserChallenge       `json:"challenges"`
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	Points      int    `json:"points"`
}

type ChallengeReward struct {
	Points        int    `json:"points"`
	BadgeID       string `json:"badge_id,omitempty"`
	AchievementID string `json:"achievement_id,omitempty"`
}

type Challenge struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Metric       string          `json:"metric"`
	Target       int             `json:"target"`
	Participants int             `json:"participants"`
	Reward       ChallengeReward `json:"reward"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	IsActive     bool            `json:"is_active"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Position int    `json:"position"`
	Value    int    `json:"value"`
}

type GetProfileRequest struct {
	UserID string `json:"user_id"`
}

type GetProfileResponse GameProfile

type AwardPointsRequest struct {
	UserID   string `json:"user_id"`
	Points   int    `json:"points"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

type AwardPointsResponse struct{}

type UpdateStatsRequest struct {
	UserID string         `json:"user_id"`
	Stats  map[string]any `json:"stats"`
}

type UpdateStatsResponse struct{}

type UpdateStreakRequest struct {
	UserID     string `json:"user_id"`
	StreakType string `json:"streak_type"`
}

type UpdateStreakResponse struct{}

type UnlockAchievementRequest struct {
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
}

type UnlockAchievementResponse struct {
	Unlocked bool `json:"unlocked"`
}

type GrantBadgeRequest struct {
	UserID  string `json:"user_id"`
	BadgeID string `json:"badge_id"`
}

type GrantBadgeResponse struct{}

type JoinChallengeRequest struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse struct {
	Joined bool `json:"joined"`
}

type UpdateChallengeProgressRequest struct {
	UserID    string `json:"user_id"`
	Metric    string `json:"metric"`
	Increment int    `json:"increment"`
}

type UpdateChallengeProgressResponse struct{}

type GetLeaderboardRequest struct {
	Type   string `json:"type"`
	Period string `json:"period"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GetRankRequest struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	Period string `json:"period"`
}

type GetRankResponse struct {
	Rank uint64 `json:"rank"`
}

type GetActiveChallengesRequest struct{}

type GetActiveChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetAllAchievementsRequest struct{}

type GetAllAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}
