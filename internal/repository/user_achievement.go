package repository

import (
	"context"

	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
)

type UserAchievementCount struct {
	UserID string
	Count  int
}

type UserAchievementRepository interface {
	Get(ctx context.Context, userID, achievementID string) (*entity.UserAchievement, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserAchievement, error)
	Create(ctx context.Context, unlock *entity.UserAchievement) error
	CountGroupByUser(ctx context.Context) ([]UserAchievementCount, error)
}

type userAchievementRepository struct{}

func NewUserAchievementRepository() *userAchievementRepository {
	return &userAchievementRepository{}
}

func (r *userAchievementRepository) Get(
	ctx context.Context, userID, achievementID string,
) (*entity.UserAchievement, error) {
	var result entity.UserAchievement
	err := xcontext.DB(ctx).
		Take(&result, "user_id=? AND achievement_id=?", userID, achievementID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userAchievementRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.UserAchievement, error) {
	var result []entity.UserAchievement
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("unlocked_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userAchievementRepository) Create(ctx context.Context, unlock *entity.UserAchievement) error {
	return xcontext.DB(ctx).Create(unlock).Error
}

func (r *userAchievementRepository) CountGroupByUser(ctx context.Context) ([]UserAchievementCount, error) {
	var result []UserAchievementCount
	err := xcontext.DB(ctx).
		Model(&entity.UserAchievement{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
