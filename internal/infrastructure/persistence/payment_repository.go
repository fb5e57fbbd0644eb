package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/qurtubah/treasury/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindAll returns every payment record in insertion order
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]*ledger.PaymentRecord, error) {
	var paymentModels []models.PaymentRecordModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStore, err)
	}

	records := make([]*ledger.PaymentRecord, len(paymentModels))
	for i := range paymentModels {
		records[i] = paymentModels[i].ToDomain()
	}
	return records, nil
}

// FindByID returns the record with the given id, or nil when absent
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStore, err)
	}
	return model.ToDomain(), nil
}

// Save inserts a new payment record
func (r *GormPaymentRepository) Save(ctx context.Context, record *ledger.PaymentRecord) error {
	model := models.PaymentRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStore, err)
	}
	return nil
}

// Update overwrites an existing payment record
func (r *GormPaymentRepository) Update(ctx context.Context, record *ledger.PaymentRecord) error {
	model := models.PaymentRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).Model(&models.PaymentRecordModel{}).
		Where("id = ?", record.ID).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", shared.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a payment record permanently
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", shared.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
