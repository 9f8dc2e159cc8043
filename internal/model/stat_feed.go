package model

// StatFeedMessage is the payload of the stat-update feed. Other services
// report user activity through this topic and the engine turns it into
// stats, streaks, and challenge progress.
type StatFeedMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`

	// Stats carries absolute stat values when Type is "stats".
	Stats map[string]any `json:"stats,omitempty"`

	// StreakType names the streak to touch when Type is "streak".
	StreakType string `json:"streak_type,omitempty"`

	// Metric and Increment report challenge progress when Type is "progress".
	// An omitted increment counts as one.
	Metric    string `json:"metric,omitempty"`
	Increment int    `json:"increment,omitempty"`
}

const (
	StatFeedTypeStats    = "stats"
	StatFeedTypeStreak   = "streak"
	StatFeedTypeProgress = "progress"
)
