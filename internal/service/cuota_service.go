package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"
	"gescoop/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CuotaService interface {
	GenerarCargos(ctx context.Context, req dto.GenerarCargosRequest) (*dto.GenerarCargosResponse, error)
	ProcesarPago(ctx context.Context, alcance Alcance, req dto.ProcesarPagoRequest) (*dto.ProcesarPagoResponse, error)
	// ActualizarVencidas flips overdue Pendiente cargos to Vencida. Idempotent;
	// the daily cron runs the same sweep.
	ActualizarVencidas(ctx context.Context) (int64, error)
	ListarMovimientosSocio(ctx context.Context, socioID uuid.UUID) ([]dto.MovimientoSocioResponse, error)
}

type cuotaService struct {
	movimientosSocio repository.MovimientoSocioRepository
	pagos            repository.PagoRepository
	socios           repository.SocioRepository
	cargos           repository.CargoRepository
	lotes            repository.LoteRepository
	movimientosCaja  repository.MovimientoCajaRepository
	cuentas          repository.CuentaRepository
	conceptos        repository.ConceptoRepository
	dispatcher       *worker.Dispatcher
}

func NewCuotaService(
	movimientosSocio repository.MovimientoSocioRepository,
	pagos repository.PagoRepository,
	socios repository.SocioRepository,
	cargos repository.CargoRepository,
	lotes repository.LoteRepository,
	movimientosCaja repository.MovimientoCajaRepository,
	cuentas repository.CuentaRepository,
	conceptos repository.ConceptoRepository,
	dispatcher *worker.Dispatcher,
) CuotaService {
	return &cuotaService{
		movimientosSocio: movimientosSocio,
		pagos:            pagos,
		socios:           socios,
		cargos:           cargos,
		lotes:            lotes,
		movimientosCaja:  movimientosCaja,
		cuentas:          cuentas,
		conceptos:        conceptos,
		dispatcher:       dispatcher,
	}
}

// ── GenerarCargos ────────────────────────────────────────────────────────────
// Bulk charge generation from a cargo template. Each inserted row starts as
// Vencida when the due date already passed, Pendiente otherwise. After the
// inserts, every affected member gets a full running-balance recompute.

func (s *cuotaService) GenerarCargos(ctx context.Context, req dto.GenerarCargosRequest) (*dto.GenerarCargosResponse, error) {
	cargoID, err := uuid.Parse(req.CargoID)
	if err != nil {
		return nil, ErrCargoNoEncontrado
	}
	cargo, err := s.cargos.FindByID(ctx, cargoID)
	if err != nil || !cargo.Activo {
		return nil, ErrCargoNoEncontrado
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, Validacion("fecha inválida, se espera AAAA-MM-DD")
	}
	var vencimiento *time.Time
	if req.FechaVencimiento != nil {
		v, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, Validacion("fecha de vencimiento inválida, se espera AAAA-MM-DD")
		}
		vencimiento = &v
	}

	hoy := inicioDeHoy()
	resp := &dto.GenerarCargosResponse{}
	for _, raw := range req.SocioIDs {
		socioID, err := uuid.Parse(raw)
		if err != nil {
			return resp, ErrSocioNoEncontrado
		}
		socio, err := s.socios.FindByID(ctx, socioID)
		if err != nil || !socio.Activo {
			return resp, ErrSocioNoEncontrado
		}

		estado := model.EstadoPendiente
		if vencimiento != nil && vencimiento.Before(hoy) {
			estado = model.EstadoVencida
		}
		mov := &model.MovimientoSocio{
			SocioID:          socioID,
			Fecha:            fecha,
			Tipo:             model.CuotaCargo,
			Concepto:         cargo.Nombre,
			Monto:            cargo.Monto,
			Estado:           estado,
			FechaVencimiento: vencimiento,
			CargoID:          &cargo.ID,
		}
		if err := s.movimientosSocio.Create(ctx, mov); err != nil {
			return resp, err
		}
		if err := s.recalcularSaldos(ctx, socioID); err != nil {
			return resp, err
		}

		resp.Creados++
		if estado == model.EstadoVencida {
			resp.Vencidas++
		} else {
			resp.Pendientes++
		}
	}
	return resp, nil
}

// ── ProcesarPago ─────────────────────────────────────────────────────────────
// Applies a payment to one cargo. The Pago row is authoritative: the dues-side
// write is compensated (Pago deleted) if it fails, while the caja posting and
// the lote mirror are best-effort afterthoughts of an already-final payment.

func (s *cuotaService) ProcesarPago(ctx context.Context, alcance Alcance, req dto.ProcesarPagoRequest) (*dto.ProcesarPagoResponse, error) {
	lote, err := s.lotes.FindAbiertoPorUsuario(ctx, alcance.UsuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinLoteAbierto
		}
		return nil, err
	}

	movimientoID, err := uuid.Parse(req.MovimientoID)
	if err != nil {
		return nil, ErrCuotaNoEncontrada
	}
	socioID, err := uuid.Parse(req.SocioID)
	if err != nil {
		return nil, ErrSocioNoEncontrado
	}
	cuentaDestinoID, err := uuid.Parse(req.CuentaDestinoID)
	if err != nil {
		return nil, ErrCuentaNoEncontrada
	}
	cuenta, err := s.cuentas.FindByID(ctx, cuentaDestinoID)
	if err != nil || !cuenta.Activa {
		return nil, ErrCuentaNoEncontrada
	}
	// Cuenta de origen del socio: se registra en el pago si viene, pero no
	// condiciona el cobro.
	var cuentaOrigenID *uuid.UUID
	if req.CuentaID != "" {
		id, err := uuid.Parse(req.CuentaID)
		if err != nil {
			return nil, ErrCuentaNoEncontrada
		}
		cuentaOrigenID = &id
	}

	cargo, err := s.movimientosSocio.FindByID(ctx, movimientoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCuotaNoEncontrada
		}
		return nil, err
	}
	if cargo.Tipo != model.CuotaCargo {
		return nil, ErrCuotaNoEncontrada
	}
	if cargo.SocioID != socioID {
		return nil, ErrCuotaAjena
	}
	if cargo.Estado == model.EstadoCobrada {
		return nil, ErrCuotaCobrada
	}

	// Outstanding amount of this cargo: template amount minus payments
	// already applied to it. The running Saldo column is the member-wide
	// balance and can't cap a per-cargo payment.
	pagado, err := s.pagos.SumByMovimiento(ctx, cargo.ID)
	if err != nil {
		return nil, err
	}
	restante := cargo.Monto.Sub(pagado)
	if req.Monto.GreaterThan(restante) {
		return nil, ErrSobrepago
	}

	ahora := time.Now()

	// Paso 1: el pago.
	pago := &model.Pago{
		Codigo:            generarCodigoPago(),
		SocioID:           socioID,
		MovimientoSocioID: cargo.ID,
		CuentaID:          cuenta.ID,
		CuentaOrigenID:    cuentaOrigenID,
		Fecha:             ahora,
		Monto:             req.Monto,
		Referencia:        req.Referencia,
	}
	if err := s.pagos.Create(ctx, pago); err != nil {
		return nil, err
	}

	// Paso 2: asiento en la cuenta corriente del socio. Si falla, se borra
	// el pago para no dejar un cobro sin reflejo en el saldo.
	restante = restante.Sub(req.Monto)
	asiento := &model.MovimientoSocio{
		SocioID:  socioID,
		Fecha:    ahora,
		Tipo:     model.CuotaPago,
		Concepto: fmt.Sprintf("Pago %s — %s", pago.Codigo, cargo.Concepto),
		Monto:    req.Monto,
		Estado:   model.EstadoCobrada,
		CargoID:  &cargo.ID,
	}
	if err := s.movimientosSocio.Create(ctx, asiento); err != nil {
		if derr := s.pagos.Delete(ctx, pago.ID); derr != nil {
			log.Error().Err(derr).Str("pago_id", pago.ID.String()).
				Msg("pago: no se pudo compensar el pago tras fallar el asiento")
		}
		return nil, err
	}
	if restante.LessThanOrEqual(decimal.Zero) && cargo.Estado != model.EstadoCobrada {
		// Un pago parcial nunca baja una cuota de Vencida; sólo el pago
		// total la marca Cobrada.
		cargo.Estado = model.EstadoCobrada
		if err := s.movimientosSocio.Update(ctx, cargo); err != nil {
			log.Error().Err(err).Str("movimiento_id", cargo.ID.String()).
				Msg("pago: no se pudo marcar la cuota como cobrada")
		}
	}
	if err := s.recalcularSaldos(ctx, socioID); err != nil {
		log.Error().Err(err).Str("socio_id", socioID.String()).
			Msg("pago: falló el recálculo de saldos del socio")
	}

	// Paso 3: asiento en el libro mayor de caja, best-effort.
	if concepto, err := s.conceptos.FindByClave(ctx, model.ClavePagoCuota); err != nil {
		log.Error().Err(err).Msg("pago: concepto pago_cuota no configurado, no se registra en caja")
	} else {
		mov := &model.MovimientoCaja{
			CuentaID:   cuenta.ID,
			ConceptoID: concepto.ID,
			Fecha:      ahora,
			Tipo:       model.MovimientoIngreso,
			Monto:      req.Monto,
			Detalle:    strPtr("Cobro de cuota " + pago.Codigo),
			UsuarioID:  alcance.UsuarioID,
		}
		if err := s.movimientosCaja.Create(ctx, mov); err != nil {
			log.Error().Err(err).Str("pago_id", pago.ID.String()).
				Msg("pago: no se pudo registrar el cobro en movimientos de caja")
		}
	}

	// Paso 4: espejo en el lote abierto, best-effort.
	detalle := &model.DetalleLote{
		LoteID:   lote.ID,
		CuentaID: cuenta.ID,
		Tipo:     model.DetalleIngreso,
		Monto:    req.Monto,
		Concepto: "Cobro de cuota " + pago.Codigo,
	}
	if err := s.lotes.CreateDetalle(ctx, detalle); err != nil {
		espejoPendiente(ctx, s.dispatcher, lote.ID, cuenta.ID, model.DetalleIngreso, req.Monto, detalle.Concepto, err)
	}

	tipoPago := "parcial"
	if restante.LessThanOrEqual(decimal.Zero) {
		tipoPago = "total"
	}
	return &dto.ProcesarPagoResponse{
		Pago: dto.PagoResponse{
			ID:         pago.ID.String(),
			Codigo:     pago.Codigo,
			SocioID:    pago.SocioID.String(),
			Fecha:      pago.Fecha.Format("2006-01-02"),
			Monto:      pago.Monto,
			Referencia: pago.Referencia,
		},
		TipoPago:      tipoPago,
		SaldoRestante: restante,
	}, nil
}

// ── ActualizarVencidas ───────────────────────────────────────────────────────

func (s *cuotaService) ActualizarVencidas(ctx context.Context) (int64, error) {
	return s.movimientosSocio.MarcarVencidas(ctx, inicioDeHoy())
}

// inicioDeHoy es la fecha calendario local expresada a medianoche UTC, el
// mismo marco en que viven los vencimientos parseados de AAAA-MM-DD.
// Truncar time.Now a 24h fijaría el corte al día UTC, no al del operador.
func inicioDeHoy() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ── ListarMovimientosSocio ───────────────────────────────────────────────────

func (s *cuotaService) ListarMovimientosSocio(ctx context.Context, socioID uuid.UUID) ([]dto.MovimientoSocioResponse, error) {
	if _, err := s.socios.FindByID(ctx, socioID); err != nil {
		return nil, ErrSocioNoEncontrado
	}
	movs, err := s.movimientosSocio.ListBySocio(ctx, socioID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoSocioResponse, len(movs))
	for i := range movs {
		m := &movs[i]
		resp[i] = dto.MovimientoSocioResponse{
			ID:       m.ID.String(),
			SocioID:  m.SocioID.String(),
			Fecha:    m.Fecha.Format("2006-01-02"),
			Tipo:     m.Tipo,
			Concepto: m.Concepto,
			Monto:    m.Monto,
			Saldo:    m.Saldo,
			Estado:   m.Estado,
		}
		if m.FechaVencimiento != nil {
			v := m.FechaVencimiento.Format("2006-01-02")
			resp[i].FechaVencimiento = &v
		}
	}
	return resp, nil
}

// recalcularSaldos reloads every dues row of the member in ledger order and
// rewrites Saldo from zero: +Monto for a Cargo, −Monto for a Pago. Full O(n)
// recompute instead of an incremental update; per-member row counts are small
// and this cannot drift.
func (s *cuotaService) recalcularSaldos(ctx context.Context, socioID uuid.UUID) error {
	movs, err := s.movimientosSocio.ListBySocio(ctx, socioID)
	if err != nil {
		return err
	}
	saldo := decimal.Zero
	for i := range movs {
		switch movs[i].Tipo {
		case model.CuotaCargo:
			saldo = saldo.Add(movs[i].Monto)
		case model.CuotaPago:
			saldo = saldo.Sub(movs[i].Monto)
		}
		if !movs[i].Saldo.Equal(saldo) {
			if err := s.movimientosSocio.ActualizarSaldo(ctx, movs[i].ID, saldo); err != nil {
				return err
			}
		}
	}
	return nil
}

// generarCodigoPago builds the human-readable payment id: PAG-<8 dígitos>-<4
// alfanuméricos>. Collisions are possible in theory; the unique index on
// codigo turns them into a retryable insert error.
func generarCodigoPago() string {
	const alfanum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digitos, _ := rand.Int(rand.Reader, big.NewInt(100000000))
	sufijo := make([]byte, 4)
	for i := range sufijo {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alfanum))))
		sufijo[i] = alfanum[n.Int64()]
	}
	return fmt.Sprintf("PAG-%08d-%s", digitos.Int64(), sufijo)
}
