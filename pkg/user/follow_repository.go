package user

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	FollowRepository interface {
		CreateFollow(ctx context.Context, subscriberID, authorID uuid.UUID) error
		DeleteFollow(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error)
		IsSubscribed(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error)
		SubscribedAuthorIDs(ctx context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetSubscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit int) ([]*entities.User, int64, error)
		GetFollowers(ctx context.Context, authorID uuid.UUID) ([]*entities.User, error)
	}

	followRepository struct {
		db *gorm.DB
	}
)

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// CreateFollow relies on the (subscriber, author) unique index to reject a
// concurrent duplicate.
func (r *followRepository) CreateFollow(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	follow := entities.Follow{SubscriberID: subscriberID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadySubscribed
		}
		if errors.Is(err, gorm.ErrCheckConstraintViolated) {
			return domain.ErrSelfSubscription
		}
		return err
	}
	return nil
}

func (r *followRepository) DeleteFollow(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&entities.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) IsSubscribed(ctx context.Context, subscriberID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) SubscribedAuthorIDs(ctx context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool)
	if len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

func (r *followRepository) GetSubscriptions(ctx context.Context, subscriberID uuid.UUID, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.subscriber_id = ?", subscriberID).
		Order("users.username asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, authorID uuid.UUID) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.subscriber_id = users.id").
		Where("follows.author_id = ?", authorID).
		Order("users.username asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
