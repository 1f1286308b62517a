package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fechaStr(t time.Time) string { return t.Format("2006-01-02") }

func generarCargo(t *testing.T, e *entorno, vencimiento time.Time) *model.MovimientoSocio {
	t.Helper()
	venc := fechaStr(vencimiento)
	_, err := e.cuotaSvc.GenerarCargos(context.Background(), dto.GenerarCargosRequest{
		SocioIDs:         []string{e.socio.ID.String()},
		CargoID:          e.cargoCuota.ID.String(),
		Fecha:            fechaStr(time.Now()),
		FechaVencimiento: &venc,
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.movsSocio.rows)
	return e.movsSocio.rows[len(e.movsSocio.rows)-1]
}

func pagarReq(e *entorno, cargo *model.MovimientoSocio, monto int64) dto.ProcesarPagoRequest {
	return dto.ProcesarPagoRequest{
		MovimientoID:    cargo.ID.String(),
		SocioID:         e.socio.ID.String(),
		Monto:           decimal.NewFromInt(monto),
		CuentaDestinoID: e.cuentaEfectivo.ID.String(),
	}
}

func TestGenerarCargosVencidosYPendientes(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	otro := &model.Socio{ID: uuid.New(), Numero: 2, Nombre: "Juan", Apellido: "Gómez", Activo: true}
	e.socios.socios[otro.ID] = otro

	ayer := fechaStr(time.Now().AddDate(0, 0, -1))
	resp, err := e.cuotaSvc.GenerarCargos(ctx, dto.GenerarCargosRequest{
		SocioIDs:         []string{e.socio.ID.String(), otro.ID.String()},
		CargoID:          e.cargoCuota.ID.String(),
		Fecha:            fechaStr(time.Now()),
		FechaVencimiento: &ayer,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Creados)
	assert.Equal(t, 2, resp.Vencidas)
	assert.Equal(t, 0, resp.Pendientes)

	for _, row := range e.movsSocio.rows {
		assert.Equal(t, model.EstadoVencida, row.Estado)
		assert.True(t, row.Monto.Equal(e.cargoCuota.Monto))
		assert.True(t, row.Saldo.Equal(e.cargoCuota.Monto))
	}

	manana := fechaStr(time.Now().AddDate(0, 0, 1))
	resp, err = e.cuotaSvc.GenerarCargos(ctx, dto.GenerarCargosRequest{
		SocioIDs:         []string{e.socio.ID.String()},
		CargoID:          e.cargoCuota.ID.String(),
		Fecha:            fechaStr(time.Now()),
		FechaVencimiento: &manana,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pendientes)
}

func TestGenerarCargosSocioInactivo(t *testing.T) {
	e := nuevoEntorno()
	e.socio.Activo = false

	_, err := e.cuotaSvc.GenerarCargos(context.Background(), dto.GenerarCargosRequest{
		SocioIDs: []string{e.socio.ID.String()},
		CargoID:  e.cargoCuota.ID.String(),
		Fecha:    fechaStr(time.Now()),
	})
	assert.ErrorIs(t, err, service.ErrSocioNoEncontrado)
}

func TestPagoParcialYTotal(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.cargoCuota.Monto = decimal.NewFromInt(500)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, -1))
	require.Equal(t, model.EstadoVencida, cargo.Estado)

	// Pago parcial: queda saldo, la cuota no baja de Vencida.
	resp, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 200))
	require.NoError(t, err)
	assert.Equal(t, "parcial", resp.TipoPago)
	assert.True(t, resp.SaldoRestante.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, model.EstadoVencida, cargo.Estado)

	// Pago del resto: la cuota pasa a Cobrada.
	resp, err = e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 300))
	require.NoError(t, err)
	assert.Equal(t, "total", resp.TipoPago)
	assert.True(t, resp.SaldoRestante.IsZero())
	assert.Equal(t, model.EstadoCobrada, cargo.Estado)

	assert.Len(t, e.pagos.pagos, 2)
}

func TestSobrepagoRechazado(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.cargoCuota.Monto = decimal.NewFromInt(500)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	_, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 600))
	assert.ErrorIs(t, err, service.ErrSobrepago)
	assert.Empty(t, e.pagos.pagos)
	assert.Equal(t, model.EstadoPendiente, cargo.Estado)

	// También sobre el remanente de un pago parcial previo.
	_, err = e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 400))
	require.NoError(t, err)
	_, err = e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 200))
	assert.ErrorIs(t, err, service.ErrSobrepago)
	assert.Len(t, e.pagos.pagos, 1)
}

func TestPagoSinLoteAbierto(t *testing.T) {
	e := nuevoEntorno()
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	_, err := e.cuotaSvc.ProcesarPago(context.Background(), e.operador, pagarReq(e, cargo, 100))
	assert.ErrorIs(t, err, service.ErrSinLoteAbierto)
}

func TestPagoCuotaCobrada(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.cargoCuota.Monto = decimal.NewFromInt(500)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	_, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 500))
	require.NoError(t, err)

	_, err = e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 1))
	assert.ErrorIs(t, err, service.ErrCuotaCobrada)
}

func TestPagoDeSocioAjeno(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))
	otro := &model.Socio{ID: uuid.New(), Numero: 2, Nombre: "Juan", Apellido: "Gómez", Activo: true}
	e.socios.socios[otro.ID] = otro

	req := pagarReq(e, cargo, 100)
	req.SocioID = otro.ID.String()
	_, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, req)
	assert.ErrorIs(t, err, service.ErrCuotaAjena)
}

func TestPagoCompensadoTrasFalloDeAsiento(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	// Si el asiento en la cuenta corriente falla, el pago se borra: no
	// puede quedar un cobro sin reflejo en el saldo del socio.
	e.movsSocio.fallarTipo = model.CuotaPago
	_, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo, 100))
	require.Error(t, err)
	assert.Empty(t, e.pagos.pagos)
}

func TestPagoRegistraEnCajaYLote(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	lote := e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.cargoCuota.Monto = decimal.NewFromInt(500)
	cargo := generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	req := pagarReq(e, cargo, 500)
	req.CuentaID = e.cuentaBanco.ID.String()
	resp, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, req)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^PAG-\d{8}-[A-Z0-9]{4}$`), resp.Pago.Codigo)

	require.Len(t, e.pagos.pagos, 1)
	assert.Equal(t, e.cuentaEfectivo.ID, e.pagos.pagos[0].CuentaID)
	require.NotNil(t, e.pagos.pagos[0].CuentaOrigenID)
	assert.Equal(t, e.cuentaBanco.ID, *e.pagos.pagos[0].CuentaOrigenID)

	require.Len(t, e.movsCaja.movs, 1)
	assert.Equal(t, model.MovimientoIngreso, e.movsCaja.movs[0].Tipo)
	assert.Equal(t, e.operador.UsuarioID, e.movsCaja.movs[0].UsuarioID)

	require.Len(t, e.lotes.detalles, 1)
	assert.Equal(t, lote.ID, e.lotes.detalles[0].LoteID)
	assert.True(t, e.lotes.detalles[0].Monto.Equal(decimal.NewFromInt(500)))
}

func TestSaldosCorridosDelSocio(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	e.abrirLote(e.operador.UsuarioID, decimal.Zero)
	e.cargoCuota.Monto = decimal.NewFromInt(500)

	cargo1 := generarCargo(t, e, time.Now().AddDate(0, 0, 30))
	_, err := e.cuotaSvc.ProcesarPago(ctx, e.operador, pagarReq(e, cargo1, 200))
	require.NoError(t, err)
	generarCargo(t, e, time.Now().AddDate(0, 1, 0))

	// El saldo almacenado en cada fila debe coincidir con el recálculo
	// manual en orden de libro: +cargo, −pago.
	movs, err := e.movsSocio.ListBySocio(ctx, e.socio.ID)
	require.NoError(t, err)
	require.Len(t, movs, 3)

	esperado := decimal.Zero
	for _, m := range movs {
		switch m.Tipo {
		case model.CuotaCargo:
			esperado = esperado.Add(m.Monto)
		case model.CuotaPago:
			esperado = esperado.Sub(m.Monto)
		}
		assert.True(t, m.Saldo.Equal(esperado), "fila %s: saldo %s, esperado %s", m.Concepto, m.Saldo, esperado)
	}
	assert.True(t, esperado.Equal(decimal.NewFromInt(800)))
}

func TestActualizarVencidasIdempotente(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	// Una cuota pendiente cuyo vencimiento ya pasó; el alta por servicio la
	// marcaría Vencida de entrada, así que se fuerza el estado.
	vencida := generarCargo(t, e, time.Now().AddDate(0, 0, 30))
	ayer := time.Now().AddDate(0, 0, -1)
	vencida.FechaVencimiento = &ayer

	n, err := e.cuotaSvc.ActualizarVencidas(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, model.EstadoVencida, vencida.Estado)

	n, err = e.cuotaSvc.ActualizarVencidas(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestCargoQueVenceHoyNoEstaVencido(t *testing.T) {
	e := nuevoEntorno()

	// El corte es la fecha calendario local: una cuota que vence hoy sigue
	// Pendiente en cualquier huso horario del host, también cerca de la
	// medianoche.
	cargo := generarCargo(t, e, time.Now())
	assert.Equal(t, model.EstadoPendiente, cargo.Estado)

	n, err := e.cuotaSvc.ActualizarVencidas(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Equal(t, model.EstadoPendiente, cargo.Estado)
}

func TestListarMovimientosSocio(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	generarCargo(t, e, time.Now().AddDate(0, 0, 30))

	movs, err := e.cuotaSvc.ListarMovimientosSocio(ctx, e.socio.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.CuotaCargo, movs[0].Tipo)
	assert.NotNil(t, movs[0].FechaVencimiento)

	_, err = e.cuotaSvc.ListarMovimientosSocio(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrSocioNoEncontrado)
}
