package repository

// referencia_repo.go — static reference data: cajas, cuentas, conceptos and
// cargo templates. Ledger operations read these; only admins write them.

import (
	"context"

	"gescoop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	List(ctx context.Context) ([]model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
}

type CuentaRepository interface {
	Create(ctx context.Context, c *model.Cuenta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Cuenta, error)
	List(ctx context.Context) ([]model.Cuenta, error)
	Update(ctx context.Context, c *model.Cuenta) error
}

type ConceptoRepository interface {
	Create(ctx context.Context, c *model.Concepto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Concepto, error)
	// FindByClave resolves a system concept by its tag (saldo_inicial,
	// pago_cuota, transferencia).
	FindByClave(ctx context.Context, clave string) (*model.Concepto, error)
	List(ctx context.Context) ([]model.Concepto, error)
	Update(ctx context.Context, c *model.Concepto) error
}

type CargoRepository interface {
	Create(ctx context.Context, c *model.Cargo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cargo, error)
	List(ctx context.Context) ([]model.Cargo, error)
	Update(ctx context.Context, c *model.Cargo) error
}

// ── Caja ─────────────────────────────────────────────────────────────────────

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ── Cuenta ───────────────────────────────────────────────────────────────────

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) Create(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cuentaRepo) FindByNombre(ctx context.Context, nombre string) (*model.Cuenta, error) {
	var c model.Cuenta
	err := r.db.WithContext(ctx).Where("nombre = ? AND activa = true", nombre).First(&c).Error
	return &c, err
}

func (r *cuentaRepo) List(ctx context.Context) ([]model.Cuenta, error) {
	var cuentas []model.Cuenta
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&cuentas).Error
	return cuentas, err
}

func (r *cuentaRepo) Update(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ── Concepto ─────────────────────────────────────────────────────────────────

type conceptoRepo struct{ db *gorm.DB }

func NewConceptoRepository(db *gorm.DB) ConceptoRepository { return &conceptoRepo{db: db} }

func (r *conceptoRepo) Create(ctx context.Context, c *model.Concepto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *conceptoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Concepto, error) {
	var c model.Concepto
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *conceptoRepo) FindByClave(ctx context.Context, clave string) (*model.Concepto, error) {
	var c model.Concepto
	err := r.db.WithContext(ctx).Where("clave = ? AND activo = true", clave).First(&c).Error
	return &c, err
}

func (r *conceptoRepo) List(ctx context.Context) ([]model.Concepto, error) {
	var conceptos []model.Concepto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&conceptos).Error
	return conceptos, err
}

func (r *conceptoRepo) Update(ctx context.Context, c *model.Concepto) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ── Cargo ────────────────────────────────────────────────────────────────────

type cargoRepo struct{ db *gorm.DB }

func NewCargoRepository(db *gorm.DB) CargoRepository { return &cargoRepo{db: db} }

func (r *cargoRepo) Create(ctx context.Context, c *model.Cargo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cargoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cargo, error) {
	var c model.Cargo
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cargoRepo) List(ctx context.Context) ([]model.Cargo, error) {
	var cargos []model.Cargo
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&cargos).Error
	return cargos, err
}

func (r *cargoRepo) Update(ctx context.Context, c *model.Cargo) error {
	return r.db.WithContext(ctx).Save(c).Error
}
