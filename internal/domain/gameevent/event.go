package gameevent

// Event is anything the engine reports to the notification service. Op names
// the event type on the wire.
type Event interface {
	Op() string
}

// Envelope is the published form of an event. Seq is a snowflake id, so
// consumers can reorder within a partition if they need to.
type Envelope struct {
	Op     string `json:"o"`
	Seq    int64  `json:"s"`
	UserID string `json:"u"`
	Data   any    `json:"d"`
}

type PointsAwardedEvent struct {
	UserID   string `json:"user_id"`
	Points   int    `json:"points"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

func (PointsAwardedEvent) Op() string { return "points_awarded" }

type LevelUpEvent struct {
	UserID   string `json:"user_id"`
	NewLevel int    `json:"new_level"`
}

func (LevelUpEvent) Op() string { return "level_up" }

type AchievementUnlockedEvent struct {
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Rarity        string `json:"rarity"`
	Points        int    `json:"points"`
}

func (AchievementUnlockedEvent) Op() string { return "achievement_unlocked" }

type BadgeAwardedEvent struct {
	UserID  string `json:"user_id"`
	BadgeID string `json:"badge_id"`
}

func (BadgeAwardedEvent) Op() string { return "badge_awarded" }

type StreakUpdatedEvent struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

func (StreakUpdatedEvent) Op() string { return "streak_updated" }

type ChallengeJoinedEvent struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
}

func (ChallengeJoinedEvent) Op() string { return "challenge_joined" }

type ChallengeCompletedEvent struct {
	UserID       string `json:"user_id"`
	ChallengeID  string `json:"challenge_id"`
	RewardPoints int    `json:"reward_points"`
}

func (ChallengeCompletedEvent) Op() string { return "challenge_completed" }
