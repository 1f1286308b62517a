package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GenerarCargosRequest struct {
	SocioIDs         []string `json:"memberIds" validate:"required,min=1,dive,uuid"`
	CargoID          string   `json:"cargoId"   validate:"required,uuid"`
	Fecha            string   `json:"fecha"     validate:"required,datetime=2006-01-02"`
	FechaVencimiento *string  `json:"fechaVencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ProcesarPagoRequest struct {
	MovimientoID    string          `json:"movementId"      validate:"required,uuid"`
	SocioID         string          `json:"socioId"         validate:"required,uuid"`
	Monto           decimal.Decimal `json:"amount"          validate:"required,gt=0"`
	CuentaID        string          `json:"cuentaId"        validate:"omitempty,uuid"`
	CuentaDestinoID string          `json:"cuentaDestinoId" validate:"required,uuid"`
	Referencia      *string         `json:"reference"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GenerarCargosResponse struct {
	Creados    int `json:"count"`
	Vencidas   int `json:"vencidas"`
	Pendientes int `json:"pendientes"`
}

type PagoResponse struct {
	ID         string          `json:"id"`
	Codigo     string          `json:"codigo"`
	SocioID    string          `json:"socio_id"`
	Fecha      string          `json:"fecha"`
	Monto      decimal.Decimal `json:"monto"`
	Referencia *string         `json:"referencia,omitempty"`
}

// TipoPago: "total" | "parcial"
type ProcesarPagoResponse struct {
	Pago          PagoResponse    `json:"pago"`
	TipoPago      string          `json:"tipoPago"`
	SaldoRestante decimal.Decimal `json:"saldoRestante"`
}

type MovimientoSocioResponse struct {
	ID               string          `json:"id"`
	SocioID          string          `json:"socio_id"`
	Fecha            string          `json:"fecha"`
	Tipo             string          `json:"tipo"`
	Concepto         string          `json:"concepto"`
	Monto            decimal.Decimal `json:"monto"`
	Saldo            decimal.Decimal `json:"saldo"`
	Estado           string          `json:"estado"`
	FechaVencimiento *string         `json:"fecha_vencimiento,omitempty"`
}
