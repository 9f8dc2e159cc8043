package repository

import (
	"context"

	"github.com/puzpuzpuz/xsync"
	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *entity.Achievement) error
	GetByID(ctx context.Context, id string) (*entity.Achievement, error)
	GetAll(ctx context.Context) ([]entity.Achievement, error)
}

type achievementRepository struct {
	// The catalog is immutable after loading, so entries can be cached
	// forever once read.
	cache *xsync.MapOf[string, entity.Achievement]
}

func NewAchievementRepository() *achievementRepository {
	return &achievementRepository{cache: xsync.NewMapOf[entity.Achievement]()}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *entity.Achievement) error {
	if err := xcontext.DB(ctx).Create(achievement).Error; err != nil {
		return err
	}

	r.cache.Store(achievement.ID, *achievement)
	return nil
}

func (r *achievementRepository) GetByID(ctx context.Context, id string) (*entity.Achievement, error) {
	if cached, ok := r.cache.Load(id); ok {
		return &cached, nil
	}

	var result entity.Achievement
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache.Store(id, result)
	return &result, nil
}

func (r *achievementRepository) GetAll(ctx context.Context) ([]entity.Achievement, error) {
	var result []entity.Achievement
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
