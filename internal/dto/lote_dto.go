package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirLoteRequest struct {
	CajaID        string          `json:"fk_id_caja"    validate:"required,uuid"`
	SaldoInicial  decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

type CerrarLoteRequest struct {
	LoteID        string  `json:"id_lote" validate:"required,uuid"`
	Observaciones *string `json:"observaciones"`
}

// LoteFilter maps the query parameters of GET /v1/lotes-operaciones.
// Non-admin callers are always restricted to their own lotes regardless of
// Todos / ExcluirUsuario.
type LoteFilter struct {
	Abierto        *bool
	CajaID         *string
	Todos          bool
	ExcluirUsuario *string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoteResponse struct {
	ID            string           `json:"id"`
	UsuarioID     string           `json:"usuario_id"`
	CajaID        string           `json:"caja_id"`
	Abierto       bool             `json:"abierto"`
	TipoLote      string           `json:"tipo_lote"`
	SaldoInicial  decimal.Decimal  `json:"saldo_inicial"`
	SaldoFinal    *decimal.Decimal `json:"saldo_final,omitempty"`
	Observaciones *string          `json:"observaciones,omitempty"`
	AbiertoEn     string           `json:"abierto_en"`
	CerradoEn     *string          `json:"cerrado_en,omitempty"`
}

// ResumenCierre totals every detalle of the lote (all account types) for
// display, while SaldoFinal only reconciles cash-typed detalles. The two
// legitimately differ when non-cash rows exist.
type ResumenCierre struct {
	SaldoInicial  decimal.Decimal `json:"saldo_inicial"`
	TotalIngresos decimal.Decimal `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal `json:"total_egresos"`
	SaldoFinal    decimal.Decimal `json:"saldo_final"`
}

type CierreLoteResponse struct {
	Lote    LoteResponse  `json:"lote"`
	Resumen ResumenCierre `json:"resumen"`
}

type DetalleLoteResponse struct {
	ID           string          `json:"id"`
	LoteID       string          `json:"lote_id"`
	CuentaID     string          `json:"cuenta_id"`
	Cuenta       string          `json:"cuenta,omitempty"`
	TipoCuenta   string          `json:"tipo_cuenta,omitempty"`
	Tipo         string          `json:"tipo"`
	Monto        decimal.Decimal `json:"monto"`
	Concepto     string          `json:"concepto"`
	RegistradoEn string          `json:"registrado_en"`
}
