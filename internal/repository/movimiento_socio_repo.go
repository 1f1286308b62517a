package repository

import (
	"context"
	"time"

	"gescoop/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovimientoSocioRepository interface {
	Create(ctx context.Context, m *model.MovimientoSocio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoSocio, error)
	Update(ctx context.Context, m *model.MovimientoSocio) error
	// ListBySocio returns every dues row of the member in ledger order
	// (fecha, then creation order) — the ordering the running-balance
	// recompute depends on.
	ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error)
	ActualizarSaldo(ctx context.Context, id uuid.UUID, saldo decimal.Decimal) error
	// MarcarVencidas flips Pendiente cargos with a due date strictly before
	// hoy to Vencida. Idempotent.
	MarcarVencidas(ctx context.Context, hoy time.Time) (int64, error)
}

type movimientoSocioRepo struct{ db *gorm.DB }

func NewMovimientoSocioRepository(db *gorm.DB) MovimientoSocioRepository {
	return &movimientoSocioRepo{db: db}
}

func (r *movimientoSocioRepo) Create(ctx context.Context, m *model.MovimientoSocio) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoSocioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoSocio, error) {
	var m model.MovimientoSocio
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *movimientoSocioRepo) Update(ctx context.Context, m *model.MovimientoSocio) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *movimientoSocioRepo) ListBySocio(ctx context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error) {
	var movs []model.MovimientoSocio
	err := r.db.WithContext(ctx).
		Where("socio_id = ?", socioID).
		Order("fecha ASC, created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoSocioRepo) ActualizarSaldo(ctx context.Context, id uuid.UUID, saldo decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.MovimientoSocio{}).
		Where("id = ?", id).
		Update("saldo", saldo).Error
}

func (r *movimientoSocioRepo) MarcarVencidas(ctx context.Context, hoy time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.MovimientoSocio{}).
		Where("tipo = ? AND estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento < ?",
			model.CuotaCargo, model.EstadoPendiente, hoy).
		Update("estado", model.EstadoVencida)
	return res.RowsAffected, res.Error
}
