package repository

import (
	"context"

	"gescoop/internal/dto"
	"gescoop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	// FindAbierto returns the open lote for (usuario, caja), or
	// gorm.ErrRecordNotFound.
	FindAbierto(ctx context.Context, usuarioID, cajaID uuid.UUID) (*model.Lote, error)
	// FindAbiertoPorUsuario returns the open lote owned by the user on any
	// caja, or gorm.ErrRecordNotFound.
	FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Lote, error)
	Update(ctx context.Context, l *model.Lote) error
	List(ctx context.Context, filtro dto.LoteFilter, soloUsuario *uuid.UUID) ([]model.Lote, error)
	CreateDetalle(ctx context.Context, d *model.DetalleLote) error
	ListDetalles(ctx context.Context, loteID uuid.UUID) ([]model.DetalleLote, error)
	ListDetallesDeUsuarios(ctx context.Context, soloUsuario *uuid.UUID) ([]model.DetalleLote, error)
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Preload("Detalles").Preload("Detalles.Cuenta").First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindAbierto(ctx context.Context, usuarioID, cajaID uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND caja_id = ? AND abierto = true", usuarioID, cajaID).
		First(&l).Error
	return &l, err
}

func (r *loteRepo) FindAbiertoPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND abierto = true", usuarioID).
		First(&l).Error
	return &l, err
}

func (r *loteRepo) Update(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// List applies the endpoint filters; soloUsuario non-nil restricts rows to
// that owner (non-admin scope).
func (r *loteRepo) List(ctx context.Context, filtro dto.LoteFilter, soloUsuario *uuid.UUID) ([]model.Lote, error) {
	q := r.db.WithContext(ctx).Model(&model.Lote{})
	if soloUsuario != nil {
		q = q.Where("usuario_id = ?", *soloUsuario)
	}
	if filtro.Abierto != nil {
		q = q.Where("abierto = ?", *filtro.Abierto)
	}
	if filtro.CajaID != nil {
		q = q.Where("caja_id = ?", *filtro.CajaID)
	}
	if filtro.ExcluirUsuario != nil {
		q = q.Where("usuario_id <> ?", *filtro.ExcluirUsuario)
	}
	var lotes []model.Lote
	err := q.Order("abierto_en DESC").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) CreateDetalle(ctx context.Context, d *model.DetalleLote) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *loteRepo) ListDetalles(ctx context.Context, loteID uuid.UUID) ([]model.DetalleLote, error) {
	var detalles []model.DetalleLote
	err := r.db.WithContext(ctx).
		Preload("Cuenta").
		Where("lote_id = ?", loteID).
		Order("created_at ASC").
		Find(&detalles).Error
	return detalles, err
}

func (r *loteRepo) ListDetallesDeUsuarios(ctx context.Context, soloUsuario *uuid.UUID) ([]model.DetalleLote, error) {
	q := r.db.WithContext(ctx).Preload("Cuenta")
	if soloUsuario != nil {
		q = q.Joins("JOIN lotes ON lotes.id = detalle_lotes.lote_id").
			Where("lotes.usuario_id = ?", *soloUsuario)
	}
	var detalles []model.DetalleLote
	err := q.Order("detalle_lotes.created_at DESC").Find(&detalles).Error
	return detalles, err
}
