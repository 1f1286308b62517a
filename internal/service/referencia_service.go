package service

// referencia_service.go — CRUD over the reference tables the ledger write-path
// resolves on every request: cajas, cuentas, conceptos and cargo templates.
// Writes are admin-gated at the router; reads are cached at the handler.

import (
	"context"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"

	"github.com/google/uuid"
)

type ReferenciaService interface {
	CrearCaja(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error)
	ListarCajas(ctx context.Context) ([]dto.CajaResponse, error)
	DesactivarCaja(ctx context.Context, id uuid.UUID) error

	CrearCuenta(ctx context.Context, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error)
	ListarCuentas(ctx context.Context) ([]dto.CuentaResponse, error)
	DesactivarCuenta(ctx context.Context, id uuid.UUID) error

	CrearConcepto(ctx context.Context, req dto.CrearConceptoRequest) (*dto.ConceptoResponse, error)
	ListarConceptos(ctx context.Context) ([]dto.ConceptoResponse, error)
	DesactivarConcepto(ctx context.Context, id uuid.UUID) error

	CrearCargo(ctx context.Context, req dto.CrearCargoRequest) (*dto.CargoResponse, error)
	ListarCargos(ctx context.Context) ([]dto.CargoResponse, error)
	DesactivarCargo(ctx context.Context, id uuid.UUID) error
}

type referenciaService struct {
	cajas     repository.CajaRepository
	cuentas   repository.CuentaRepository
	conceptos repository.ConceptoRepository
	cargos    repository.CargoRepository
}

func NewReferenciaService(
	cajas repository.CajaRepository,
	cuentas repository.CuentaRepository,
	conceptos repository.ConceptoRepository,
	cargos repository.CargoRepository,
) ReferenciaService {
	return &referenciaService{cajas: cajas, cuentas: cuentas, conceptos: conceptos, cargos: cargos}
}

// ── Cajas ────────────────────────────────────────────────────────────────────

func (s *referenciaService) CrearCaja(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error) {
	caja := &model.Caja{Nombre: req.Nombre, Activa: true}
	if err := s.cajas.Create(ctx, caja); err != nil {
		return nil, err
	}
	return &dto.CajaResponse{ID: caja.ID.String(), Nombre: caja.Nombre, Activa: caja.Activa}, nil
}

func (s *referenciaService) ListarCajas(ctx context.Context) ([]dto.CajaResponse, error) {
	cajas, err := s.cajas.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i, c := range cajas {
		resp[i] = dto.CajaResponse{ID: c.ID.String(), Nombre: c.Nombre, Activa: c.Activa}
	}
	return resp, nil
}

func (s *referenciaService) DesactivarCaja(ctx context.Context, id uuid.UUID) error {
	caja, err := s.cajas.FindByID(ctx, id)
	if err != nil {
		return ErrCajaNoEncontrada
	}
	caja.Activa = false
	return s.cajas.Update(ctx, caja)
}

// ── Cuentas ──────────────────────────────────────────────────────────────────

func (s *referenciaService) CrearCuenta(ctx context.Context, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error) {
	cuenta := &model.Cuenta{Nombre: req.Nombre, Tipo: req.Tipo, Activa: true}
	if err := s.cuentas.Create(ctx, cuenta); err != nil {
		return nil, err
	}
	return &dto.CuentaResponse{ID: cuenta.ID.String(), Nombre: cuenta.Nombre, Tipo: cuenta.Tipo, Activa: cuenta.Activa}, nil
}

func (s *referenciaService) ListarCuentas(ctx context.Context) ([]dto.CuentaResponse, error) {
	cuentas, err := s.cuentas.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CuentaResponse, len(cuentas))
	for i, c := range cuentas {
		resp[i] = dto.CuentaResponse{ID: c.ID.String(), Nombre: c.Nombre, Tipo: c.Tipo, Activa: c.Activa}
	}
	return resp, nil
}

func (s *referenciaService) DesactivarCuenta(ctx context.Context, id uuid.UUID) error {
	cuenta, err := s.cuentas.FindByID(ctx, id)
	if err != nil {
		return ErrCuentaNoEncontrada
	}
	cuenta.Activa = false
	return s.cuentas.Update(ctx, cuenta)
}

// ── Conceptos ────────────────────────────────────────────────────────────────

func (s *referenciaService) CrearConcepto(ctx context.Context, req dto.CrearConceptoRequest) (*dto.ConceptoResponse, error) {
	concepto := &model.Concepto{
		Nombre:    req.Nombre,
		Categoria: req.Categoria,
		Tipo:      req.Tipo,
		Activo:    true,
	}
	if err := s.conceptos.Create(ctx, concepto); err != nil {
		return nil, err
	}
	return conceptoToResponse(concepto), nil
}

func (s *referenciaService) ListarConceptos(ctx context.Context) ([]dto.ConceptoResponse, error) {
	conceptos, err := s.conceptos.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ConceptoResponse, len(conceptos))
	for i := range conceptos {
		resp[i] = *conceptoToResponse(&conceptos[i])
	}
	return resp, nil
}

func (s *referenciaService) DesactivarConcepto(ctx context.Context, id uuid.UUID) error {
	concepto, err := s.conceptos.FindByID(ctx, id)
	if err != nil {
		return ErrConceptoNoEncontrado
	}
	concepto.Activo = false
	return s.conceptos.Update(ctx, concepto)
}

// ── Cargos ───────────────────────────────────────────────────────────────────

func (s *referenciaService) CrearCargo(ctx context.Context, req dto.CrearCargoRequest) (*dto.CargoResponse, error) {
	cargo := &model.Cargo{Nombre: req.Nombre, Monto: req.Monto, Activo: true}
	if err := s.cargos.Create(ctx, cargo); err != nil {
		return nil, err
	}
	return &dto.CargoResponse{ID: cargo.ID.String(), Nombre: cargo.Nombre, Monto: cargo.Monto, Activo: cargo.Activo}, nil
}

func (s *referenciaService) ListarCargos(ctx context.Context) ([]dto.CargoResponse, error) {
	cargos, err := s.cargos.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CargoResponse, len(cargos))
	for i, c := range cargos {
		resp[i] = dto.CargoResponse{ID: c.ID.String(), Nombre: c.Nombre, Monto: c.Monto, Activo: c.Activo}
	}
	return resp, nil
}

func (s *referenciaService) DesactivarCargo(ctx context.Context, id uuid.UUID) error {
	cargo, err := s.cargos.FindByID(ctx, id)
	if err != nil {
		return ErrCargoNoEncontrado
	}
	cargo.Activo = false
	return s.cargos.Update(ctx, cargo)
}

func conceptoToResponse(c *model.Concepto) *dto.ConceptoResponse {
	return &dto.ConceptoResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Categoria: c.Categoria,
		Tipo:      c.Tipo,
		Clave:     c.Clave,
		Activo:    c.Activo,
	}
}
