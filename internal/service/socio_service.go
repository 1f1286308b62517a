package service

import (
	"context"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"

	"github.com/google/uuid"
)

type SocioService interface {
	Crear(ctx context.Context, req dto.CrearSocioRequest) (*dto.SocioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SocioResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.SocioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSocioRequest) (*dto.SocioResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type socioService struct {
	repo repository.SocioRepository
}

func NewSocioService(repo repository.SocioRepository) SocioService {
	return &socioService{repo: repo}
}

func (s *socioService) Crear(ctx context.Context, req dto.CrearSocioRequest) (*dto.SocioResponse, error) {
	socio := &model.Socio{
		Numero:   req.Numero,
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Email:    req.Email,
		Telefono: req.Telefono,
		Activo:   true,
	}
	if err := s.repo.Create(ctx, socio); err != nil {
		return nil, err
	}
	resp := socioToResponse(socio)
	return &resp, nil
}

func (s *socioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SocioResponse, error) {
	socio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSocioNoEncontrado
	}
	resp := socioToResponse(socio)
	return &resp, nil
}

func (s *socioService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.SocioResponse, error) {
	socios, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SocioResponse, len(socios))
	for i := range socios {
		resp[i] = socioToResponse(&socios[i])
	}
	return resp, nil
}

func (s *socioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSocioRequest) (*dto.SocioResponse, error) {
	socio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSocioNoEncontrado
	}
	if req.Nombre != "" {
		socio.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		socio.Apellido = req.Apellido
	}
	if req.Email != nil {
		socio.Email = req.Email
	}
	if req.Telefono != nil {
		socio.Telefono = req.Telefono
	}
	if err := s.repo.Update(ctx, socio); err != nil {
		return nil, err
	}
	resp := socioToResponse(socio)
	return &resp, nil
}

func (s *socioService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func socioToResponse(s *model.Socio) dto.SocioResponse {
	return dto.SocioResponse{
		ID:       s.ID.String(),
		Numero:   s.Numero,
		Nombre:   s.Nombre,
		Apellido: s.Apellido,
		Email:    s.Email,
		Telefono: s.Telefono,
		Activo:   s.Activo,
	}
}
