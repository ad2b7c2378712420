package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ricknho777/CarllyRommanel/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	// MarkPaid flips every order matching the given provider identifier to
	// "pago". The identifier is compared against payment_id OR
	// external_reference, so a value present in one order's payment_id and
	// another's external_reference updates both rows.
	MarkPaid(ctx context.Context, providerRef string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, providerRef string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_id = ? OR external_reference = ?", providerRef, providerRef).
		Update("status", "pago")
	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}
