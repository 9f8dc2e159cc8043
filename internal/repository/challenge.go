package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetActive(ctx context.Context, now time.Time) ([]entity.Challenge, error)
	GetExpiredActive(ctx context.Context, now time.Time) ([]entity.Challenge, error)
	Deactivate(ctx context.Context, id string) error
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	return xcontext.DB(ctx).Create(challenge).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetActive(ctx context.Context, now time.Time) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).
		Where("is_active=? AND end_date > ?", true, now).
		Order("end_date ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).
		Where("is_active=? AND end_date < ?", true, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) Deactivate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Challenge{}).
		Where("id=?", id).
		Update("is_active", false)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
