package repository

import (
	"context"

	"gescoop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	// Delete removes a payment row. Used exclusively as the compensating
	// rollback when the dues-side write fails after the Pago insert.
	Delete(ctx context.Context, id uuid.UUID) error
	// SumByMovimiento totals the payments already applied to a dues entry.
	SumByMovimiento(ctx context.Context, movimientoSocioID uuid.UUID) (decimal.Decimal, error)
	ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Pago{}, id).Error
}

func (r *pagoRepo) SumByMovimiento(ctx context.Context, movimientoSocioID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Pago{}).
		Select("SUM(monto)").
		Where("movimiento_socio_id = ?", movimientoSocioID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *pagoRepo) ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Where("socio_id = ?", socioID).
		Order("fecha DESC").
		Find(&pagos).Error
	return pagos, err
}
