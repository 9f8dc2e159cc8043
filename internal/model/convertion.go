package model

import (
	"github.com/tangohub/backend/internal/entity"
)

func ConvertGameProfile(
	profile *entity.GameProfile,
	unlocks []entity.UserAchievement,
	participants []entity.ChallengeParticipant,
) GameProfile {
	achievements := []UnlockedAchievement{}
	for _, u := range unlocks {
		achievements = append(achievements, UnlockedAchievement{
			AchievementID: u.AchievementID,
			UnlockedAt:    u.UnlockedAt,
		})
	}

	challenges := []UserChallenge{}
	for _, p := range participants {
		c := UserChallenge{
			ChallengeID: p.ChallengeID,
			Progress:    p.Progress,
			Target:      p.Target,
			StartedAt:   p.StartedAt,
		}
		if p.CompletedAt.Valid {
			completedAt := p.CompletedAt.Time
			c.CompletedAt = &completedAt
		}

		challenges = append(challenges, c)
	}

	badges := []string{}
	badges = append(badges, profile.Badges...)

	return GameProfile{
		UserID:             profile.UserID,
		Level:              profile.Level,
		TotalPoints:        profile.TotalPoints,
		CurrentLevelPoints: profile.CurrentLevelPoints,
		NextLevelPoints:    profile.NextLevelPoints,
		Streak: Streak{
			Current:    profile.StreakCurrent,
			Longest:    profile.StreakLongest,
			Type:       string(profile.StreakType),
			LastUpdate: profile.StreakLastUpdate,
		},
		Stats: Stats{
			EventsAttended:     profile.Stats.EventsAttended,
			PostsCreated:       profile.Stats.PostsCreated,
			CommentsPosted:     profile.Stats.CommentsPosted,
			FriendsReferred:    profile.Stats.FriendsReferred,
			DaysActive:         profile.Stats.DaysActive,
			TangoStylesLearned: profile.Stats.TangoStylesLearned,
		},
		Badges:       badges,
		Achievements: achievements,
		Challenges:   challenges,
	}
}

func ConvertAchievement(achievement *entity.Achievement) Achievement {
	return Achievement{
		ID:          achievement.ID,
		Name:        achievement.Name,
		Description: achievement.Description,
		Category:    string(achievement.Category),
		Rarity:      string(achievement.Rarity),
		Points:      achievement.Points,
	}
}

func ConvertChallenge(challenge *entity.Challenge, numberOfParticipants int) Challenge {
	reward := ChallengeReward{Points: challenge.RewardPoints}
	if challenge.RewardBadgeID.Valid {
		reward.BadgeID = challenge.RewardBadgeID.String
	}
	if challenge.RewardAchievementID.Valid {
		reward.AchievementID = challenge.RewardAchievementID.String
	}

	return Challenge{
		ID:           challenge.ID,
		Name:         challenge.Name,
		Category:     string(challenge.Category),
		Metric:       challenge.Metric,
		Target:       challenge.Target,
		Participants: numberOfParticipants,
		Reward:       reward,
		StartDate:    challenge.StartDate,
		EndDate:      challenge.EndDate,
		IsActive:     challenge.IsActive,
	}
}
