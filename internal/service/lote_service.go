package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gescoop/internal/config"
	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"
	"gescoop/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoteService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirLoteRequest) (*dto.LoteResponse, error)
	Cerrar(ctx context.Context, alcance Alcance, req dto.CerrarLoteRequest) (*dto.CierreLoteResponse, error)
	Listar(ctx context.Context, alcance Alcance, filtro dto.LoteFilter) ([]dto.LoteResponse, error)
	ListarDetalles(ctx context.Context, alcance Alcance, loteID *uuid.UUID, todos bool) ([]dto.DetalleLoteResponse, error)
}

type loteService struct {
	lotes       repository.LoteRepository
	cajas       repository.CajaRepository
	cuentas     repository.CuentaRepository
	conceptos   repository.ConceptoRepository
	movimientos repository.MovimientoCajaRepository
	usuarios    repository.UsuarioRepository
	dispatcher  *worker.Dispatcher
	cfg         *config.Config
}

func NewLoteService(
	lotes repository.LoteRepository,
	cajas repository.CajaRepository,
	cuentas repository.CuentaRepository,
	conceptos repository.ConceptoRepository,
	movimientos repository.MovimientoCajaRepository,
	usuarios repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) LoteService {
	return &loteService{
		lotes:       lotes,
		cajas:       cajas,
		cuentas:     cuentas,
		conceptos:   conceptos,
		movimientos: movimientos,
		usuarios:    usuarios,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// Creates the lote in estado abierto. A positive saldo inicial synthesizes a
// "Saldo inicial de caja" detalle plus one MovimientoCaja against the
// configured default cash account, so the opening cash is visible in both
// ledgers from the start.

func (s *loteService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirLoteRequest) (*dto.LoteResponse, error) {
	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, ErrCajaNoEncontrada
	}
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil || !caja.Activa {
		return nil, ErrCajaNoEncontrada
	}
	if req.SaldoInicial.IsNegative() {
		return nil, Validacion("el saldo inicial no puede ser negativo")
	}

	// Pre-flight: resolve the bootstrap references before writing anything,
	// so a misconfigured instance fails without partial state.
	var cuentaEfectivo *model.Cuenta
	var conceptoApertura *model.Concepto
	if req.SaldoInicial.IsPositive() {
		if cuentaEfectivo, err = s.cuentas.FindByNombre(ctx, s.cfg.CuentaEfectivo); err != nil {
			return nil, ErrCuentaNoEncontrada
		}
		if conceptoApertura, err = s.conceptos.FindByClave(ctx, model.ClaveSaldoInicial); err != nil {
			return nil, ErrConceptoNoEncontrado
		}
	}

	// Friendly pre-check; the partial unique index is what actually holds
	// the invariant under concurrent opens.
	if existing, err := s.lotes.FindAbierto(ctx, usuarioID, cajaID); err == nil && existing != nil {
		return nil, ErrLoteYaAbierto
	}

	lote := &model.Lote{
		UsuarioID:     usuarioID,
		CajaID:        cajaID,
		Abierto:       true,
		TipoLote:      model.LoteApertura,
		SaldoInicial:  req.SaldoInicial,
		Observaciones: req.Observaciones,
		AbiertoEn:     time.Now(),
	}
	if err := s.lotes.Create(ctx, lote); err != nil {
		if strings.Contains(err.Error(), "uni_lotes_abiertos") {
			return nil, ErrLoteYaAbierto
		}
		return nil, err
	}

	if req.SaldoInicial.IsPositive() {
		detalle := &model.DetalleLote{
			LoteID:   lote.ID,
			CuentaID: cuentaEfectivo.ID,
			Tipo:     model.DetalleIngreso,
			Monto:    req.SaldoInicial,
			Concepto: "Saldo inicial de caja",
		}
		if err := s.lotes.CreateDetalle(ctx, detalle); err != nil {
			espejoPendiente(ctx, s.dispatcher, lote.ID, cuentaEfectivo.ID, model.DetalleIngreso, req.SaldoInicial, "Saldo inicial de caja", err)
		}
		mov := &model.MovimientoCaja{
			CuentaID:   cuentaEfectivo.ID,
			ConceptoID: conceptoApertura.ID,
			Fecha:      time.Now(),
			Tipo:       model.MovimientoIngreso,
			Monto:      req.SaldoInicial,
			Detalle:    strPtr("Saldo inicial de caja"),
			UsuarioID:  usuarioID,
		}
		if err := s.movimientos.Create(ctx, mov); err != nil {
			log.Error().Err(err).Str("lote_id", lote.ID.String()).
				Msg("apertura: no se pudo registrar el saldo inicial en movimientos de caja")
		}
	}

	resp := loteToResponse(lote)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// One-way transition. SaldoFinal reconciles cash-typed detalles only; the
// resumen totals every detalle regardless of account type, since only cash
// is physically counted at till close.

func (s *loteService) Cerrar(ctx context.Context, alcance Alcance, req dto.CerrarLoteRequest) (*dto.CierreLoteResponse, error) {
	loteID, err := uuid.Parse(req.LoteID)
	if err != nil {
		return nil, ErrLoteNoEncontrado
	}
	lote, err := s.lotes.FindByID(ctx, loteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoteNoEncontrado
		}
		return nil, err
	}
	if !alcance.PuedeOperar(lote.UsuarioID) {
		return nil, ErrPermisosInsuficientes
	}
	if !lote.Abierto {
		return nil, ErrLoteCerrado
	}

	resumen := resumirDetalles(lote.SaldoInicial, lote.Detalles)

	ahora := time.Now()
	lote.Abierto = false
	lote.TipoLote = model.LoteCierre
	lote.CerradoEn = &ahora
	saldoFinal := resumen.SaldoFinal
	lote.SaldoFinal = &saldoFinal
	if req.Observaciones != nil && *req.Observaciones != "" {
		lote.Observaciones = req.Observaciones
	}

	if err := s.lotes.Update(ctx, lote); err != nil {
		return nil, err
	}

	s.despacharReporte(ctx, lote, resumen)

	return &dto.CierreLoteResponse{Lote: loteToResponse(lote), Resumen: resumen}, nil
}

// resumirDetalles computes the cierre numbers: unfiltered totals for display
// and the cash-only saldo final. The two differ whenever non-cash detalles
// exist.
func resumirDetalles(saldoInicial decimal.Decimal, detalles []model.DetalleLote) dto.ResumenCierre {
	resumen := dto.ResumenCierre{SaldoInicial: saldoInicial}
	for _, d := range detalles {
		esEfectivo := d.Cuenta != nil && d.Cuenta.Tipo == model.CuentaTipoEfectivo
		switch d.Tipo {
		case model.DetalleIngreso:
			resumen.TotalIngresos = resumen.TotalIngresos.Add(d.Monto)
			if esEfectivo {
				resumen.SaldoFinal = resumen.SaldoFinal.Add(d.Monto)
			}
		case model.DetalleEgreso:
			resumen.TotalEgresos = resumen.TotalEgresos.Add(d.Monto)
			if esEfectivo {
				resumen.SaldoFinal = resumen.SaldoFinal.Sub(d.Monto)
			}
		}
	}
	return resumen
}

func (s *loteService) despacharReporte(ctx context.Context, lote *model.Lote, resumen dto.ResumenCierre) {
	if s.dispatcher == nil || s.cfg == nil || s.cfg.EmailTesoreria == "" {
		return
	}
	cajaNombre, usuarioNombre := lote.CajaID.String(), lote.UsuarioID.String()
	if caja, err := s.cajas.FindByID(ctx, lote.CajaID); err == nil {
		cajaNombre = caja.Nombre
	}
	if usuario, err := s.usuarios.FindByID(ctx, lote.UsuarioID); err == nil {
		usuarioNombre = usuario.Nombre
	}
	payload := worker.ReporteJobPayload{
		LoteID:        lote.ID,
		Caja:          cajaNombre,
		Usuario:       usuarioNombre,
		CerradoEn:     lote.CerradoEn.Format("2006-01-02 15:04"),
		SaldoInicial:  resumen.SaldoInicial,
		TotalIngresos: resumen.TotalIngresos,
		TotalEgresos:  resumen.TotalEgresos,
		SaldoFinal:    resumen.SaldoFinal,
		ToEmail:       s.cfg.EmailTesoreria,
	}
	if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
		log.Error().Err(err).Str("lote_id", lote.ID.String()).Msg("cierre: no se pudo encolar el reporte")
	}
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *loteService) Listar(ctx context.Context, alcance Alcance, filtro dto.LoteFilter) ([]dto.LoteResponse, error) {
	if !alcance.VeTodo() {
		// Non-admins are always restricted to their own lotes; excluding a
		// user on top of that would only ever produce an empty set.
		filtro.ExcluirUsuario = nil
	}
	lotes, err := s.lotes.List(ctx, filtro, alcance.Restriccion(filtro.Todos))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LoteResponse, len(lotes))
	for i := range lotes {
		resp[i] = loteToResponse(&lotes[i])
	}
	return resp, nil
}

func (s *loteService) ListarDetalles(ctx context.Context, alcance Alcance, loteID *uuid.UUID, todos bool) ([]dto.DetalleLoteResponse, error) {
	var detalles []model.DetalleLote
	var err error
	switch {
	case loteID != nil:
		lote, ferr := s.lotes.FindByID(ctx, *loteID)
		if ferr != nil {
			return nil, ErrLoteNoEncontrado
		}
		if !alcance.PuedeOperar(lote.UsuarioID) {
			return nil, ErrPermisosInsuficientes
		}
		detalles, err = s.lotes.ListDetalles(ctx, *loteID)
	default:
		detalles, err = s.lotes.ListDetallesDeUsuarios(ctx, alcance.Restriccion(todos))
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DetalleLoteResponse, len(detalles))
	for i := range detalles {
		resp[i] = detalleToResponse(&detalles[i])
	}
	return resp, nil
}

// espejoPendiente logs a failed mirror write and hands it to the redis outbox
// so the detalle is eventually reconciled instead of silently lost.
func espejoPendiente(ctx context.Context, dispatcher *worker.Dispatcher, loteID, cuentaID uuid.UUID, tipo string, monto decimal.Decimal, concepto string, cause error) {
	log.Error().Err(cause).Str("lote_id", loteID.String()).Msg("espejo de detalle falló, encolando reconciliación")
	if dispatcher == nil {
		return
	}
	payload := worker.EspejoJobPayload{
		LoteID:   loteID,
		CuentaID: cuentaID,
		Tipo:     tipo,
		Monto:    monto,
		Concepto: concepto,
	}
	if err := dispatcher.EnqueueEspejo(ctx, payload); err != nil {
		log.Error().Err(err).Str("lote_id", loteID.String()).Msg("no se pudo encolar el espejo pendiente")
	}
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func loteToResponse(l *model.Lote) dto.LoteResponse {
	resp := dto.LoteResponse{
		ID:            l.ID.String(),
		UsuarioID:     l.UsuarioID.String(),
		CajaID:        l.CajaID.String(),
		Abierto:       l.Abierto,
		TipoLote:      l.TipoLote,
		SaldoInicial:  l.SaldoInicial,
		SaldoFinal:    l.SaldoFinal,
		Observaciones: l.Observaciones,
		AbiertoEn:     l.AbiertoEn.Format(time.RFC3339),
	}
	if l.CerradoEn != nil {
		t := l.CerradoEn.Format(time.RFC3339)
		resp.CerradoEn = &t
	}
	return resp
}

func detalleToResponse(d *model.DetalleLote) dto.DetalleLoteResponse {
	resp := dto.DetalleLoteResponse{
		ID:           d.ID.String(),
		LoteID:       d.LoteID.String(),
		CuentaID:     d.CuentaID.String(),
		Tipo:         d.Tipo,
		Monto:        d.Monto,
		Concepto:     d.Concepto,
		RegistradoEn: d.CreatedAt.Format(time.RFC3339),
	}
	if d.Cuenta != nil {
		resp.Cuenta = d.Cuenta.Nombre
		resp.TipoCuenta = d.Cuenta.Tipo
	}
	return resp
}

func strPtr(s string) *string { return &s }
