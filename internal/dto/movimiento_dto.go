package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	CuentaID          string          `json:"fk_id_cuenta"   validate:"required,uuid"`
	ConceptoID        string          `json:"fk_id_concepto" validate:"required,uuid"`
	Tipo              string          `json:"tipo"           validate:"required,oneof=Ingreso Egreso"`
	Monto             decimal.Decimal `json:"ingresos"       validate:"required,gt=0"`
	Fecha             string          `json:"fecha"          validate:"required,datetime=2006-01-02"`
	Detalle           *string         `json:"detalle"`
	Pagador           *string         `json:"pagador"`
	Proveedor         *string         `json:"proveedor"`
	NumeroComprobante *string         `json:"numero_comprobante"`
	Observaciones     *string         `json:"observaciones"`
}

type TransferenciaRequest struct {
	CuentaID      string          `json:"fk_id_cuenta"    validate:"required,uuid"`
	Monto         decimal.Decimal `json:"ingresos"        validate:"required,gt=0"`
	LoteDestinoID string          `json:"caja_destino_id" validate:"required,uuid"`
	Detalle       *string         `json:"detalle"`
	Observaciones *string         `json:"observaciones"`
}

type MovimientoFilter struct {
	CuentaID *string
	Tipo     *string
	Desde    *string
	Hasta    *string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaResponse struct {
	ID                string          `json:"id"`
	CuentaID          string          `json:"cuenta_id"`
	Cuenta            string          `json:"cuenta,omitempty"`
	ConceptoID        string          `json:"concepto_id"`
	Concepto          string          `json:"concepto,omitempty"`
	Fecha             string          `json:"fecha"`
	Tipo              string          `json:"tipo"`
	Monto             decimal.Decimal `json:"monto"`
	Detalle           *string         `json:"detalle,omitempty"`
	Pagador           *string         `json:"pagador,omitempty"`
	Proveedor         *string         `json:"proveedor,omitempty"`
	NumeroComprobante *string         `json:"numero_comprobante,omitempty"`
	Observaciones     *string         `json:"observaciones,omitempty"`
	UsuarioID         string          `json:"usuario_id"`
}

type TransferenciaResponse struct {
	Egreso   MovimientoCajaResponse `json:"egreso"`
	Ingreso  MovimientoCajaResponse `json:"ingreso"`
	Detalles []DetalleLoteResponse  `json:"detalles"`
}
