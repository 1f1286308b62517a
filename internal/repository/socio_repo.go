package repository

import (
	"context"

	"gescoop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocioRepository interface {
	Create(ctx context.Context, s *model.Socio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Socio, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Socio, error)
	Update(ctx context.Context, s *model.Socio) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type socioRepo struct{ db *gorm.DB }

func NewSocioRepository(db *gorm.DB) SocioRepository { return &socioRepo{db: db} }

func (r *socioRepo) Create(ctx context.Context, s *model.Socio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *socioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Socio, error) {
	var s model.Socio
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *socioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Socio, error) {
	var socios []model.Socio
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("numero ASC").Find(&socios).Error
	return socios, err
}

func (r *socioRepo) Update(ctx context.Context, s *model.Socio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *socioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Socio{}).Where("id = ?", id).Update("activo", false).Error
}
