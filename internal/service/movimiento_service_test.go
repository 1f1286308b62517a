package service_test

import (
	"context"
	"testing"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrarReq(e *entorno, monto int64) dto.RegistrarMovimientoRequest {
	return dto.RegistrarMovimientoRequest{
		CuentaID:   e.cuentaEfectivo.ID.String(),
		ConceptoID: e.conceptoVentas.ID.String(),
		Tipo:       model.MovimientoIngreso,
		Monto:      decimal.NewFromInt(monto),
		Fecha:      "2026-08-29",
	}
}

func TestRegistrarSinLoteAbierto(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.movSvc.Registrar(context.Background(), e.operador, registrarReq(e, 100))
	assert.ErrorIs(t, err, service.ErrSinLoteAbierto)
}

func TestRegistrarConEspejoEnLote(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	lote := e.abrirLote(e.operador.UsuarioID, decimal.Zero)

	resp, err := e.movSvc.Registrar(ctx, e.operador, registrarReq(e, 250))
	require.NoError(t, err)
	assert.Equal(t, e.conceptoVentas.Nombre, resp.Concepto)

	require.Len(t, e.movsCaja.movs, 1)
	assert.Equal(t, e.operador.UsuarioID, e.movsCaja.movs[0].UsuarioID)

	require.Len(t, e.lotes.detalles, 1)
	assert.Equal(t, lote.ID, e.lotes.detalles[0].LoteID)
	assert.Equal(t, model.DetalleIngreso, e.lotes.detalles[0].Tipo)
	assert.True(t, e.lotes.detalles[0].Monto.Equal(decimal.NewFromInt(250)))
}

func TestRegistrarEspejoFallidoNoPropaga(t *testing.T) {
	e := nuevoEntorno()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.lotes.fallarDetalle = true

	// El libro mayor es el sistema de registro; un espejo roto no puede
	// hacer fallar el alta del movimiento.
	_, err := e.movSvc.Registrar(context.Background(), e.operador, registrarReq(e, 250))
	require.NoError(t, err)
	assert.Len(t, e.movsCaja.movs, 1)
	assert.Empty(t, e.lotes.detalles)
}

func TestRegistrarFechaInvalida(t *testing.T) {
	e := nuevoEntorno()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)

	req := registrarReq(e, 100)
	req.Fecha = "29/08/2026"
	_, err := e.movSvc.Registrar(context.Background(), e.operador, req)
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestTransferenciaEntreLotes(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	loteDestino := e.abrirLote(e.admin.UsuarioID, decimal.Zero)

	resp, err := e.movSvc.Transferir(ctx, e.operador, dto.TransferenciaRequest{
		CuentaID:      e.cuentaEfectivo.ID.String(),
		Monto:         decimal.NewFromInt(300),
		LoteDestinoID: loteDestino.ID.String(),
	})
	require.NoError(t, err)

	// Egreso atribuido al operador, ingreso al dueño del lote destino.
	assert.Equal(t, model.MovimientoEgreso, resp.Egreso.Tipo)
	assert.Equal(t, e.operador.UsuarioID.String(), resp.Egreso.UsuarioID)
	assert.Equal(t, model.MovimientoIngreso, resp.Ingreso.Tipo)
	assert.Equal(t, e.admin.UsuarioID.String(), resp.Ingreso.UsuarioID)
	assert.Len(t, resp.Detalles, 2)

	assert.Len(t, e.movsCaja.movs, 2)
	require.Len(t, e.lotes.detalles, 2)
	assert.Equal(t, model.DetalleEgreso, e.lotes.detalles[0].Tipo)
	assert.Equal(t, loteDestino.ID, e.lotes.detalles[1].LoteID)
	assert.Equal(t, model.DetalleIngreso, e.lotes.detalles[1].Tipo)
}

func TestTransferenciaDestinoCerradoEnCurso(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	loteDestino := e.abrirLote(e.admin.UsuarioID, decimal.Zero)

	// El destino se cierra entre la verificación inicial y la re-lectura:
	// la primera lectura lo ve abierto, la segunda ya no.
	lecturas := 0
	e.lotes.alLeer = func(l *model.Lote) {
		if l.ID == loteDestino.ID {
			lecturas++
			if lecturas > 1 {
				l.Abierto = false
			}
		}
	}

	_, err := e.movSvc.Transferir(ctx, e.operador, dto.TransferenciaRequest{
		CuentaID:      e.cuentaEfectivo.ID.String(),
		Monto:         decimal.NewFromInt(300),
		LoteDestinoID: loteDestino.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrLoteDestinoCerrado)

	// El egreso fue compensado: efecto neto cero sobre el libro mayor.
	assert.Empty(t, e.movsCaja.movs)
}

func TestTransferenciaIngresoFallaCompensaEgreso(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	loteDestino := e.abrirLote(e.admin.UsuarioID, decimal.Zero)
	e.movsCaja.fallarTipo = model.MovimientoIngreso

	_, err := e.movSvc.Transferir(ctx, e.operador, dto.TransferenciaRequest{
		CuentaID:      e.cuentaEfectivo.ID.String(),
		Monto:         decimal.NewFromInt(300),
		LoteDestinoID: loteDestino.ID.String(),
	})
	require.Error(t, err)
	assert.Empty(t, e.movsCaja.movs)
}

func TestTransferenciaAlLotePropio(t *testing.T) {
	e := nuevoEntorno()
	lote := e.abrirLote(e.operador.UsuarioID, decimal.Zero)

	_, err := e.movSvc.Transferir(context.Background(), e.operador, dto.TransferenciaRequest{
		CuentaID:      e.cuentaEfectivo.ID.String(),
		Monto:         decimal.NewFromInt(100),
		LoteDestinoID: lote.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestTransferenciaSinLoteOrigen(t *testing.T) {
	e := nuevoEntorno()
	loteDestino := e.abrirLote(e.admin.UsuarioID, decimal.Zero)

	_, err := e.movSvc.Transferir(context.Background(), e.operador, dto.TransferenciaRequest{
		CuentaID:      e.cuentaEfectivo.ID.String(),
		Monto:         decimal.NewFromInt(100),
		LoteDestinoID: loteDestino.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrSinLoteAbierto)
}
