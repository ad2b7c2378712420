package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ricknho777/CarllyRommanel/internal/model"
)

type TokenRepository interface {
	Save(ctx context.Context, token *model.AdminToken) error
	// Find returns the token row only while it has not expired; an expired
	// row is indistinguishable from an absent one.
	Find(ctx context.Context, token string) (*model.AdminToken, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired sweeps every token whose expiry has passed and reports
	// how many rows went away. Best-effort housekeeping; lookups reject
	// expired tokens regardless.
	DeleteExpired(ctx context.Context) (int64, error)
}

type tokenRepoImpl struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepoImpl{db: db}
}

func (r *tokenRepoImpl) Save(ctx context.Context, token *model.AdminToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepoImpl) Find(ctx context.Context, token string) (*model.AdminToken, error) {
	var row model.AdminToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *tokenRepoImpl) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.AdminToken{}).Error
}

func (r *tokenRepoImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.AdminToken{})
	return result.RowsAffected, result.Error
}
