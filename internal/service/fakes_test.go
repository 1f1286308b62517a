package service_test

// In-memory repository fakes. They hold just enough behavior for the service
// tests: record-not-found semantics, the partial unique index on open lotes
// and injectable failures for the compensation paths.

import (
	"context"
	"errors"
	"sort"
	"time"

	"gescoop/internal/dto"
	"gescoop/internal/model"
	"gescoop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Lotes ────────────────────────────────────────────────────────────────────

type fakeLoteRepo struct {
	lotes    map[uuid.UUID]*model.Lote
	detalles []model.DetalleLote
	cuentas  map[uuid.UUID]*model.Cuenta

	// ocultarAbiertos hides open lotes from FindAbierto, simulating the
	// race where two opens pass the pre-check and the index decides.
	ocultarAbiertos bool
	// fallarDetalle makes CreateDetalle fail, simulating a broken mirror.
	fallarDetalle bool
	// alLeer runs on every FindByID hit, before returning the row. Lets a
	// test close the destination lote between two reads of the saga.
	alLeer func(l *model.Lote)
}

var _ repository.LoteRepository = (*fakeLoteRepo)(nil)

func newFakeLoteRepo(cuentas map[uuid.UUID]*model.Cuenta) *fakeLoteRepo {
	return &fakeLoteRepo{lotes: map[uuid.UUID]*model.Lote{}, cuentas: cuentas}
}

func (f *fakeLoteRepo) Create(_ context.Context, l *model.Lote) error {
	for _, otro := range f.lotes {
		if otro.Abierto && otro.UsuarioID == l.UsuarioID && otro.CajaID == l.CajaID {
			return errors.New(`ERROR: duplicate key value violates unique constraint "uni_lotes_abiertos_usuario_caja" (SQLSTATE 23505)`)
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	f.lotes[l.ID] = l
	return nil
}

func (f *fakeLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := f.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l.Detalles = nil
	for i := range f.detalles {
		if f.detalles[i].LoteID == id {
			d := f.detalles[i]
			d.Cuenta = f.cuentas[d.CuentaID]
			l.Detalles = append(l.Detalles, d)
		}
	}
	if f.alLeer != nil {
		f.alLeer(l)
	}
	return l, nil
}

func (f *fakeLoteRepo) FindAbierto(_ context.Context, usuarioID, cajaID uuid.UUID) (*model.Lote, error) {
	if f.ocultarAbiertos {
		return nil, gorm.ErrRecordNotFound
	}
	for _, l := range f.lotes {
		if l.Abierto && l.UsuarioID == usuarioID && l.CajaID == cajaID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoteRepo) FindAbiertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Lote, error) {
	for _, l := range f.lotes {
		if l.Abierto && l.UsuarioID == usuarioID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoteRepo) Update(_ context.Context, l *model.Lote) error {
	if _, ok := f.lotes[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.lotes[l.ID] = l
	return nil
}

func (f *fakeLoteRepo) List(_ context.Context, filtro dto.LoteFilter, soloUsuario *uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range f.lotes {
		if soloUsuario != nil && l.UsuarioID != *soloUsuario {
			continue
		}
		if filtro.Abierto != nil && l.Abierto != *filtro.Abierto {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLoteRepo) CreateDetalle(_ context.Context, d *model.DetalleLote) error {
	if f.fallarDetalle {
		return errors.New("insert de detalle falló")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	f.detalles = append(f.detalles, *d)
	return nil
}

func (f *fakeLoteRepo) ListDetalles(_ context.Context, loteID uuid.UUID) ([]model.DetalleLote, error) {
	var out []model.DetalleLote
	for i := range f.detalles {
		if f.detalles[i].LoteID == loteID {
			d := f.detalles[i]
			d.Cuenta = f.cuentas[d.CuentaID]
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeLoteRepo) ListDetallesDeUsuarios(_ context.Context, soloUsuario *uuid.UUID) ([]model.DetalleLote, error) {
	var out []model.DetalleLote
	for i := range f.detalles {
		if soloUsuario != nil {
			lote, ok := f.lotes[f.detalles[i].LoteID]
			if !ok || lote.UsuarioID != *soloUsuario {
				continue
			}
		}
		d := f.detalles[i]
		d.Cuenta = f.cuentas[d.CuentaID]
		out = append(out, d)
	}
	return out, nil
}

// ── Referencias ──────────────────────────────────────────────────────────────

type fakeCajaRepo struct{ cajas map[uuid.UUID]*model.Caja }

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

func (f *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.cajas[c.ID] = c
	return nil
}

func (f *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := f.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCajaRepo) List(_ context.Context) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range f.cajas {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCajaRepo) Update(_ context.Context, c *model.Caja) error {
	f.cajas[c.ID] = c
	return nil
}

type fakeCuentaRepo struct{ cuentas map[uuid.UUID]*model.Cuenta }

var _ repository.CuentaRepository = (*fakeCuentaRepo)(nil)

func (f *fakeCuentaRepo) Create(_ context.Context, c *model.Cuenta) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.cuentas[c.ID] = c
	return nil
}

func (f *fakeCuentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cuenta, error) {
	c, ok := f.cuentas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCuentaRepo) FindByNombre(_ context.Context, nombre string) (*model.Cuenta, error) {
	for _, c := range f.cuentas {
		if c.Nombre == nombre && c.Activa {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCuentaRepo) List(_ context.Context) ([]model.Cuenta, error) {
	var out []model.Cuenta
	for _, c := range f.cuentas {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCuentaRepo) Update(_ context.Context, c *model.Cuenta) error {
	f.cuentas[c.ID] = c
	return nil
}

type fakeConceptoRepo struct{ conceptos map[uuid.UUID]*model.Concepto }

var _ repository.ConceptoRepository = (*fakeConceptoRepo)(nil)

func (f *fakeConceptoRepo) Create(_ context.Context, c *model.Concepto) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.conceptos[c.ID] = c
	return nil
}

func (f *fakeConceptoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Concepto, error) {
	c, ok := f.conceptos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeConceptoRepo) FindByClave(_ context.Context, clave string) (*model.Concepto, error) {
	for _, c := range f.conceptos {
		if c.Clave != nil && *c.Clave == clave && c.Activo {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConceptoRepo) List(_ context.Context) ([]model.Concepto, error) {
	var out []model.Concepto
	for _, c := range f.conceptos {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeConceptoRepo) Update(_ context.Context, c *model.Concepto) error {
	f.conceptos[c.ID] = c
	return nil
}

type fakeCargoRepo struct{ cargos map[uuid.UUID]*model.Cargo }

var _ repository.CargoRepository = (*fakeCargoRepo)(nil)

func (f *fakeCargoRepo) Create(_ context.Context, c *model.Cargo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.cargos[c.ID] = c
	return nil
}

func (f *fakeCargoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cargo, error) {
	c, ok := f.cargos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCargoRepo) List(_ context.Context) ([]model.Cargo, error) {
	var out []model.Cargo
	for _, c := range f.cargos {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCargoRepo) Update(_ context.Context, c *model.Cargo) error {
	f.cargos[c.ID] = c
	return nil
}

// ── Movimientos de caja ──────────────────────────────────────────────────────

type fakeMovimientoCajaRepo struct {
	movs []model.MovimientoCaja
	// fallarTipo makes Create fail for movements of that tipo; used to
	// force the compensating branch of the transfer saga.
	fallarTipo string
}

var _ repository.MovimientoCajaRepository = (*fakeMovimientoCajaRepo)(nil)

func (f *fakeMovimientoCajaRepo) Create(_ context.Context, m *model.MovimientoCaja) error {
	if f.fallarTipo != "" && m.Tipo == f.fallarTipo {
		return errors.New("insert de movimiento falló")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	f.movs = append(f.movs, *m)
	return nil
}

func (f *fakeMovimientoCajaRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.movs {
		if f.movs[i].ID == id {
			f.movs = append(f.movs[:i], f.movs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMovimientoCajaRepo) List(_ context.Context, filtro dto.MovimientoFilter, soloUsuario *uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for i := range f.movs {
		if soloUsuario != nil && f.movs[i].UsuarioID != *soloUsuario {
			continue
		}
		if filtro.Tipo != nil && f.movs[i].Tipo != *filtro.Tipo {
			continue
		}
		out = append(out, f.movs[i])
	}
	return out, nil
}

// ── Socios y cuotas ──────────────────────────────────────────────────────────

type fakeSocioRepo struct{ socios map[uuid.UUID]*model.Socio }

var _ repository.SocioRepository = (*fakeSocioRepo)(nil)

func (f *fakeSocioRepo) Create(_ context.Context, s *model.Socio) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.socios[s.ID] = s
	return nil
}

func (f *fakeSocioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Socio, error) {
	s, ok := f.socios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSocioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Socio, error) {
	var out []model.Socio
	for _, s := range f.socios {
		if !incluirInactivos && !s.Activo {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSocioRepo) Update(_ context.Context, s *model.Socio) error {
	f.socios[s.ID] = s
	return nil
}

func (f *fakeSocioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s, ok := f.socios[id]; ok {
		s.Activo = false
	}
	return nil
}

type fakeMovimientoSocioRepo struct {
	rows []*model.MovimientoSocio
	seq  int
	// fallarTipo makes Create fail for rows of that tipo; used to force
	// the compensating Pago delete.
	fallarTipo string
}

var _ repository.MovimientoSocioRepository = (*fakeMovimientoSocioRepo)(nil)

func (f *fakeMovimientoSocioRepo) Create(_ context.Context, m *model.MovimientoSocio) error {
	if f.fallarTipo != "" && m.Tipo == f.fallarTipo {
		return errors.New("insert de movimiento de socio falló")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.seq++
	m.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Microsecond)
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeMovimientoSocioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoSocio, error) {
	for _, m := range f.rows {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMovimientoSocioRepo) Update(_ context.Context, m *model.MovimientoSocio) error {
	for i, otro := range f.rows {
		if otro.ID == m.ID {
			f.rows[i] = m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMovimientoSocioRepo) ListBySocio(_ context.Context, socioID uuid.UUID) ([]model.MovimientoSocio, error) {
	var out []model.MovimientoSocio
	for _, m := range f.rows {
		if m.SocioID == socioID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.Before(out[j].Fecha)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeMovimientoSocioRepo) ActualizarSaldo(_ context.Context, id uuid.UUID, saldo decimal.Decimal) error {
	for _, m := range f.rows {
		if m.ID == id {
			m.Saldo = saldo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMovimientoSocioRepo) MarcarVencidas(_ context.Context, hoy time.Time) (int64, error) {
	var n int64
	for _, m := range f.rows {
		if m.Tipo == model.CuotaCargo && m.Estado == model.EstadoPendiente &&
			m.FechaVencimiento != nil && m.FechaVencimiento.Before(hoy) {
			m.Estado = model.EstadoVencida
			n++
		}
	}
	return n, nil
}

type fakePagoRepo struct{ pagos []model.Pago }

var _ repository.PagoRepository = (*fakePagoRepo)(nil)

func (f *fakePagoRepo) Create(_ context.Context, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.pagos = append(f.pagos, *p)
	return nil
}

func (f *fakePagoRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.pagos {
		if f.pagos[i].ID == id {
			f.pagos = append(f.pagos[:i], f.pagos[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePagoRepo) SumByMovimiento(_ context.Context, movimientoSocioID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range f.pagos {
		if f.pagos[i].MovimientoSocioID == movimientoSocioID {
			total = total.Add(f.pagos[i].Monto)
		}
	}
	return total, nil
}

func (f *fakePagoRepo) ListBySocio(_ context.Context, socioID uuid.UUID) ([]model.Pago, error) {
	var out []model.Pago
	for i := range f.pagos {
		if f.pagos[i].SocioID == socioID {
			out = append(out, f.pagos[i])
		}
	}
	return out, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios          map[uuid.UUID]*model.Usuario
	fallarBusquedaRef error // consumed by the next FindByExternalRef
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func (f *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.usuarios[u.ID] = u
	return nil
}

func (f *fakeUsuarioRepo) UpsertByExternalRef(ctx context.Context, u *model.Usuario) (*model.Usuario, error) {
	if existente, err := f.FindByExternalRef(ctx, *u.ExternalRef); err == nil {
		return existente, nil
	}
	if err := f.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsuarioRepo) FindByExternalRef(_ context.Context, ref string) (*model.Usuario, error) {
	if err := f.fallarBusquedaRef; err != nil {
		f.fallarBusquedaRef = nil
		return nil, err
	}
	for _, u := range f.usuarios {
		if u.ExternalRef != nil && *u.ExternalRef == ref {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := f.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range f.usuarios {
		if !incluirInactivos && !u.Activo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	f.usuarios[u.ID] = u
	return nil
}

func (f *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := f.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (f *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := f.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}
