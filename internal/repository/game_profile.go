package repository

import (
	"context"

	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
)

type GameProfileRepository interface {
	Get(ctx context.Context, userID string) (*entity.GameProfile, error)
	Create(ctx context.Context, profile *entity.GameProfile) error
	Update(ctx context.Context, profile *entity.GameProfile) error
	GetAll(ctx context.Context) ([]entity.GameProfile, error)
}

type gameProfileRepository struct{}

func NewGameProfileRepository() *gameProfileRepository {
	return &gameProfileRepository{}
}

func (r *gameProfileRepository) Get(ctx context.Context, userID string) (*entity.GameProfile, error) {
	var result entity.GameProfile
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *gameProfileRepository) Create(ctx context.Context, profile *entity.GameProfile) error {
	return xcontext.DB(ctx).Create(profile).Error
}

// Update writes back the whole profile. Callers must hold the user's lock so
// the read-modify-write sequence cannot interleave with another writer.
func (r *gameProfileRepository) Update(ctx context.Context, profile *entity.GameProfile) error {
	return xcontext.DB(ctx).Save(profile).Error
}

func (r *gameProfileRepository) GetAll(ctx context.Context) ([]entity.GameProfile, error) {
	var result []entity.GameProfile
	if err := xcontext.DB(ctx).Order("user_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
