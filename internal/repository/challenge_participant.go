package repository

import (
	"context"
	"errors"

	"github.com/tangohub/backend/internal/entity"
	"github.com/tangohub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeParticipantRepository interface {
	Get(ctx context.Context, challengeID, userID string) (*entity.ChallengeParticipant, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.ChallengeParticipant, error)
	GetByChallengeID(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	Create(ctx context.Context, participant *entity.ChallengeParticipant) error
	Update(ctx context.Context, participant *entity.ChallengeParticipant) error
}

type challengeParticipantRepository struct{}

func NewChallengeParticipantRepository() *challengeParticipantRepository {
	return &challengeParticipantRepository{}
}

func (r *challengeParticipantRepository) Get(
	ctx context.Context, challengeID, userID string,
) (*entity.ChallengeParticipant, error) {
	var result entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Take(&result, "challenge_id=? AND user_id=?", challengeID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeParticipantRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("started_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeParticipantRepository) GetByChallengeID(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeParticipantRepository) Create(
	ctx context.Context, participant *entity.ChallengeParticipant,
) error {
	return xcontext.DB(ctx).Create(participant).Error
}

func (r *challengeParticipantRepository) Update(
	ctx context.Context, participant *entity.ChallengeParticipant,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=?", participant.ChallengeID, participant.UserID).
		Updates(map[string]any{
			"progress":     participant.Progress,
			"completed_at": participant.CompletedAt,
		})

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
