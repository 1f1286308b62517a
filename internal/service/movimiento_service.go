package service

import (
	"context"
	"errors"
	"time"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"
	"gescoop/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MovimientoService interface {
	Registrar(ctx context.Context, alcance Alcance, req dto.RegistrarMovimientoRequest) (*dto.MovimientoCajaResponse, error)
	Transferir(ctx context.Context, alcance Alcance, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error)
	Listar(ctx context.Context, alcance Alcance, filtro dto.MovimientoFilter) ([]dto.MovimientoCajaResponse, error)
}

type movimientoService struct {
	movimientos repository.MovimientoCajaRepository
	lotes       repository.LoteRepository
	cuentas     repository.CuentaRepository
	conceptos   repository.ConceptoRepository
	dispatcher  *worker.Dispatcher
}

func NewMovimientoService(
	movimientos repository.MovimientoCajaRepository,
	lotes repository.LoteRepository,
	cuentas repository.CuentaRepository,
	conceptos repository.ConceptoRepository,
	dispatcher *worker.Dispatcher,
) MovimientoService {
	return &movimientoService{
		movimientos: movimientos,
		lotes:       lotes,
		cuentas:     cuentas,
		conceptos:   conceptos,
		dispatcher:  dispatcher,
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────
// Primary write goes to movimientos de caja, the system of record. The copy
// into the caller's open lote is best-effort: a failed mirror is logged and
// enqueued for reconciliation, never surfaced to the caller.

func (s *movimientoService) Registrar(ctx context.Context, alcance Alcance, req dto.RegistrarMovimientoRequest) (*dto.MovimientoCajaResponse, error) {
	cuenta, err := s.resolverCuenta(ctx, req.CuentaID)
	if err != nil {
		return nil, err
	}
	conceptoID, err := uuid.Parse(req.ConceptoID)
	if err != nil {
		return nil, ErrConceptoNoEncontrado
	}
	concepto, err := s.conceptos.FindByID(ctx, conceptoID)
	if err != nil || !concepto.Activo {
		return nil, ErrConceptoNoEncontrado
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, Validacion("fecha inválida, se espera AAAA-MM-DD")
	}

	// Ad hoc movements require an open lote; the mirror target is whichever
	// lote the caller has open, on any caja.
	lote, err := s.lotes.FindAbiertoPorUsuario(ctx, alcance.UsuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinLoteAbierto
		}
		return nil, err
	}

	mov := &model.MovimientoCaja{
		CuentaID:          cuenta.ID,
		ConceptoID:        concepto.ID,
		Fecha:             fecha,
		Tipo:              req.Tipo,
		Monto:             req.Monto,
		Detalle:           req.Detalle,
		Pagador:           req.Pagador,
		Proveedor:         req.Proveedor,
		NumeroComprobante: req.NumeroComprobante,
		Observaciones:     req.Observaciones,
		UsuarioID:         alcance.UsuarioID,
	}
	if err := s.movimientos.Create(ctx, mov); err != nil {
		return nil, err
	}

	s.espejar(ctx, lote.ID, mov, concepto.Nombre)

	resp := movimientoToResponse(mov)
	resp.Cuenta = cuenta.Nombre
	resp.Concepto = concepto.Nombre
	return &resp, nil
}

// ── Transferir ───────────────────────────────────────────────────────────────
// Moves cash from the caller's open lote to another open lote. Manual saga:
//
//	1. egreso en movimientos de caja, atribuido al operador
//	2. espejo del egreso en su lote (best-effort)
//	3. re-verificar que el lote destino siga abierto; si no, borrar el egreso
//	4. ingreso atribuido al dueño del lote destino; si falla, borrar el egreso
//	5. espejo del ingreso en el lote destino (best-effort)
//
// On any compensated failure the net effect over movimientos de caja is zero.

func (s *movimientoService) Transferir(ctx context.Context, alcance Alcance, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error) {
	cuenta, err := s.resolverCuenta(ctx, req.CuentaID)
	if err != nil {
		return nil, err
	}
	concepto, err := s.conceptos.FindByClave(ctx, model.ClaveTransferencia)
	if err != nil {
		return nil, ErrConceptoNoEncontrado
	}

	loteOrigen, err := s.lotes.FindAbiertoPorUsuario(ctx, alcance.UsuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinLoteAbierto
		}
		return nil, err
	}

	destinoID, err := uuid.Parse(req.LoteDestinoID)
	if err != nil {
		return nil, ErrLoteNoEncontrado
	}
	loteDestino, err := s.lotes.FindByID(ctx, destinoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoteNoEncontrado
		}
		return nil, err
	}
	if !loteDestino.Abierto {
		return nil, ErrLoteDestinoCerrado
	}
	if loteDestino.ID == loteOrigen.ID {
		return nil, Validacion("el lote destino no puede ser el lote propio")
	}

	ahora := time.Now()

	// Paso 1: egreso.
	egreso := &model.MovimientoCaja{
		CuentaID:      cuenta.ID,
		ConceptoID:    concepto.ID,
		Fecha:         ahora,
		Tipo:          model.MovimientoEgreso,
		Monto:         req.Monto,
		Detalle:       req.Detalle,
		Observaciones: req.Observaciones,
		UsuarioID:     alcance.UsuarioID,
	}
	if err := s.movimientos.Create(ctx, egreso); err != nil {
		return nil, err
	}

	var detalles []dto.DetalleLoteResponse

	// Paso 2: espejo del egreso.
	if d := s.espejar(ctx, loteOrigen.ID, egreso, concepto.Nombre); d != nil {
		detalles = append(detalles, detalleToResponse(d))
	}

	// Paso 3: el lote destino pudo cerrarse entre la verificación y el
	// egreso. Si ya no está abierto, se compensa borrando el egreso.
	loteDestino, err = s.lotes.FindByID(ctx, destinoID)
	if err != nil || !loteDestino.Abierto {
		s.compensarEgreso(ctx, egreso.ID)
		return nil, ErrLoteDestinoCerrado
	}

	// Paso 4: ingreso atribuido al dueño del lote destino.
	ingreso := &model.MovimientoCaja{
		CuentaID:      cuenta.ID,
		ConceptoID:    concepto.ID,
		Fecha:         ahora,
		Tipo:          model.MovimientoIngreso,
		Monto:         req.Monto,
		Detalle:       req.Detalle,
		Observaciones: req.Observaciones,
		UsuarioID:     loteDestino.UsuarioID,
	}
	if err := s.movimientos.Create(ctx, ingreso); err != nil {
		s.compensarEgreso(ctx, egreso.ID)
		return nil, err
	}

	// Paso 5: espejo del ingreso. A esta altura la transferencia ya es un
	// hecho en el libro mayor; un espejo fallido no la revierte.
	if d := s.espejar(ctx, loteDestino.ID, ingreso, concepto.Nombre); d != nil {
		detalles = append(detalles, detalleToResponse(d))
	}

	egresoResp := movimientoToResponse(egreso)
	ingresoResp := movimientoToResponse(ingreso)
	egresoResp.Cuenta, ingresoResp.Cuenta = cuenta.Nombre, cuenta.Nombre
	egresoResp.Concepto, ingresoResp.Concepto = concepto.Nombre, concepto.Nombre
	return &dto.TransferenciaResponse{
		Egreso:   egresoResp,
		Ingreso:  ingresoResp,
		Detalles: detalles,
	}, nil
}

// ── Listar ───────────────────────────────────────────────────────────────────

func (s *movimientoService) Listar(ctx context.Context, alcance Alcance, filtro dto.MovimientoFilter) ([]dto.MovimientoCajaResponse, error) {
	movs, err := s.movimientos.List(ctx, filtro, alcance.Restriccion(true))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoCajaResponse, len(movs))
	for i := range movs {
		resp[i] = movimientoToResponse(&movs[i])
		if movs[i].Cuenta != nil {
			resp[i].Cuenta = movs[i].Cuenta.Nombre
		}
		if movs[i].Concepto != nil {
			resp[i].Concepto = movs[i].Concepto.Nombre
		}
	}
	return resp, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *movimientoService) resolverCuenta(ctx context.Context, id string) (*model.Cuenta, error) {
	cuentaID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCuentaNoEncontrada
	}
	cuenta, err := s.cuentas.FindByID(ctx, cuentaID)
	if err != nil || !cuenta.Activa {
		return nil, ErrCuentaNoEncontrada
	}
	return cuenta, nil
}

// espejar copies an already-committed movimiento into a lote's detalle.
// Returns the detalle on success, nil on failure (which never propagates:
// the row goes to the outbox for reconciliation).
func (s *movimientoService) espejar(ctx context.Context, loteID uuid.UUID, mov *model.MovimientoCaja, concepto string) *model.DetalleLote {
	tipo := model.DetalleIngreso
	if mov.Tipo == model.MovimientoEgreso {
		tipo = model.DetalleEgreso
	}
	detalle := &model.DetalleLote{
		LoteID:   loteID,
		CuentaID: mov.CuentaID,
		Tipo:     tipo,
		Monto:    mov.Monto,
		Concepto: concepto,
	}
	if err := s.lotes.CreateDetalle(ctx, detalle); err != nil {
		espejoPendiente(ctx, s.dispatcher, loteID, mov.CuentaID, tipo, mov.Monto, concepto, err)
		return nil
	}
	return detalle
}

// compensarEgreso undoes saga step 1. A failed compensation leaves an orphan
// egreso in the ledger; it is logged loudly because there is no further
// automatic recovery.
func (s *movimientoService) compensarEgreso(ctx context.Context, egresoID uuid.UUID) {
	if err := s.movimientos.Delete(ctx, egresoID); err != nil {
		log.Error().Err(err).Str("movimiento_id", egresoID.String()).
			Msg("transferencia: no se pudo compensar el egreso, queda huérfano en el libro mayor")
	}
}

func movimientoToResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	return dto.MovimientoCajaResponse{
		ID:                m.ID.String(),
		CuentaID:          m.CuentaID.String(),
		ConceptoID:        m.ConceptoID.String(),
		Fecha:             m.Fecha.Format("2006-01-02"),
		Tipo:              m.Tipo,
		Monto:             m.Monto,
		Detalle:           m.Detalle,
		Pagador:           m.Pagador,
		Proveedor:         m.Proveedor,
		NumeroComprobante: m.NumeroComprobante,
		Observaciones:     m.Observaciones,
		UsuarioID:         m.UsuarioID.String(),
	}
}
