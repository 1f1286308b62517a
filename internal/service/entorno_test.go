package service_test

import (
	"time"

	"gescoop/internal/config"
	"gescoop/internal/model"
	"gescoop/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// entorno wires the services over the in-memory fakes with the reference
// data every flow needs: a caja, the cash account, the system concepts and
// a charge template. The dispatcher is nil; mirror failures fall back to
// logging only, which is what these tests exercise.
type entorno struct {
	lotes     *fakeLoteRepo
	cajas     *fakeCajaRepo
	cuentas   *fakeCuentaRepo
	conceptos *fakeConceptoRepo
	cargos    *fakeCargoRepo
	movsCaja  *fakeMovimientoCajaRepo
	movsSocio *fakeMovimientoSocioRepo
	pagos     *fakePagoRepo
	socios    *fakeSocioRepo
	usuarios  *fakeUsuarioRepo

	caja           *model.Caja
	cuentaEfectivo *model.Cuenta
	cuentaBanco    *model.Cuenta
	conceptoVentas *model.Concepto
	cargoCuota     *model.Cargo
	socio          *model.Socio

	operador service.Alcance
	admin    service.Alcance

	loteSvc  service.LoteService
	movSvc   service.MovimientoService
	cuotaSvc service.CuotaService
}

func nuevoEntorno() *entorno {
	e := &entorno{
		cajas:     &fakeCajaRepo{cajas: map[uuid.UUID]*model.Caja{}},
		cuentas:   &fakeCuentaRepo{cuentas: map[uuid.UUID]*model.Cuenta{}},
		conceptos: &fakeConceptoRepo{conceptos: map[uuid.UUID]*model.Concepto{}},
		cargos:    &fakeCargoRepo{cargos: map[uuid.UUID]*model.Cargo{}},
		movsCaja:  &fakeMovimientoCajaRepo{},
		movsSocio: &fakeMovimientoSocioRepo{},
		pagos:     &fakePagoRepo{},
		socios:    &fakeSocioRepo{socios: map[uuid.UUID]*model.Socio{}},
		usuarios:  &fakeUsuarioRepo{usuarios: map[uuid.UUID]*model.Usuario{}},
	}
	e.lotes = newFakeLoteRepo(e.cuentas.cuentas)

	e.caja = &model.Caja{ID: uuid.New(), Nombre: "Caja 1", Activa: true}
	e.cajas.cajas[e.caja.ID] = e.caja

	e.cuentaEfectivo = &model.Cuenta{ID: uuid.New(), Nombre: "Caja Efectivo", Tipo: model.CuentaTipoEfectivo, Activa: true}
	e.cuentaBanco = &model.Cuenta{ID: uuid.New(), Nombre: "Banco Cuenta Corriente", Tipo: "Banco", Activa: true}
	e.cuentas.cuentas[e.cuentaEfectivo.ID] = e.cuentaEfectivo
	e.cuentas.cuentas[e.cuentaBanco.ID] = e.cuentaBanco

	claves := map[string]string{
		model.ClaveSaldoInicial:  "Saldo inicial",
		model.ClavePagoCuota:     "Cobro de cuota",
		model.ClaveTransferencia: "Transferencia entre cajas",
	}
	for clave, nombre := range claves {
		k := clave
		c := &model.Concepto{ID: uuid.New(), Nombre: nombre, Tipo: model.ConceptoIngreso, Clave: &k, Activo: true}
		e.conceptos.conceptos[c.ID] = c
	}
	e.conceptoVentas = &model.Concepto{ID: uuid.New(), Nombre: "Ventas", Tipo: model.ConceptoIngreso, Activo: true}
	e.conceptos.conceptos[e.conceptoVentas.ID] = e.conceptoVentas

	e.cargoCuota = &model.Cargo{ID: uuid.New(), Nombre: "Cuota social", Monto: decimal.NewFromInt(5000), Activo: true}
	e.cargos.cargos[e.cargoCuota.ID] = e.cargoCuota

	e.socio = &model.Socio{ID: uuid.New(), Numero: 1, Nombre: "María", Apellido: "Pérez", Activo: true}
	e.socios.socios[e.socio.ID] = e.socio

	operador := &model.Usuario{ID: uuid.New(), Username: "operador", Nombre: "Operador", Rol: model.RolSupervisor, Activo: true}
	admin := &model.Usuario{ID: uuid.New(), Username: "admin", Nombre: "Admin", Rol: model.RolAdministrador, Activo: true}
	e.usuarios.usuarios[operador.ID] = operador
	e.usuarios.usuarios[admin.ID] = admin
	e.operador = service.Alcance{UsuarioID: operador.ID, Rol: operador.Rol}
	e.admin = service.Alcance{UsuarioID: admin.ID, Rol: admin.Rol}

	cfg := &config.Config{CuentaEfectivo: e.cuentaEfectivo.Nombre}
	e.loteSvc = service.NewLoteService(e.lotes, e.cajas, e.cuentas, e.conceptos, e.movsCaja, e.usuarios, nil, cfg)
	e.movSvc = service.NewMovimientoService(e.movsCaja, e.lotes, e.cuentas, e.conceptos, nil)
	e.cuotaSvc = service.NewCuotaService(e.movsSocio, e.pagos, e.socios, e.cargos, e.lotes, e.movsCaja, e.cuentas, e.conceptos, nil)
	return e
}

// abrirLote inserts an already-open lote for the user, bypassing the service.
func (e *entorno) abrirLote(usuarioID uuid.UUID, saldoInicial decimal.Decimal) *model.Lote {
	l := &model.Lote{
		ID:           uuid.New(),
		UsuarioID:    usuarioID,
		CajaID:       e.caja.ID,
		Abierto:      true,
		TipoLote:     model.LoteApertura,
		SaldoInicial: saldoInicial,
		AbiertoEn:    time.Now(),
	}
	e.lotes.lotes[l.ID] = l
	return l
}
