package repository

import (
	"context"

	"gescoop/internal/dto"
	"gescoop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoCajaRepository interface {
	Create(ctx context.Context, m *model.MovimientoCaja) error
	// Delete removes a movement. Used exclusively as the compensating step
	// of the transfer saga.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filtro dto.MovimientoFilter, soloUsuario *uuid.UUID) ([]model.MovimientoCaja, error)
}

type movimientoCajaRepo struct{ db *gorm.DB }

func NewMovimientoCajaRepository(db *gorm.DB) MovimientoCajaRepository {
	return &movimientoCajaRepo{db: db}
}

func (r *movimientoCajaRepo) Create(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoCajaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MovimientoCaja{}, id).Error
}

func (r *movimientoCajaRepo) List(ctx context.Context, filtro dto.MovimientoFilter, soloUsuario *uuid.UUID) ([]model.MovimientoCaja, error) {
	q := r.db.WithContext(ctx).Preload("Cuenta").Preload("Concepto")
	if soloUsuario != nil {
		q = q.Where("usuario_id = ?", *soloUsuario)
	}
	if filtro.CuentaID != nil {
		q = q.Where("cuenta_id = ?", *filtro.CuentaID)
	}
	if filtro.Tipo != nil {
		q = q.Where("tipo = ?", *filtro.Tipo)
	}
	if filtro.Desde != nil {
		q = q.Where("fecha >= ?", *filtro.Desde)
	}
	if filtro.Hasta != nil {
		q = q.Where("fecha <= ?", *filtro.Hasta)
	}
	var movs []model.MovimientoCaja
	err := q.Order("fecha DESC, created_at DESC").Find(&movs).Error
	return movs, err
}
