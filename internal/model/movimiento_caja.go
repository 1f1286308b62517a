package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types of the general ledger.
const (
	MovimientoIngreso = "Ingreso"
	MovimientoEgreso  = "Egreso"
)

// MovimientoCaja is the system-of-record general ledger, independent of
// lotes. Every monetary event appears here exactly once; mirroring into the
// active lote's detalle is a secondary, best-effort write.
// Rows are deleted only as the compensating step of a failed transfer saga.
type MovimientoCaja struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConceptoID        uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha             time.Time       `gorm:"not null"`
	Tipo              string          `gorm:"type:varchar(10);not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Detalle           *string
	Pagador           *string
	Proveedor         *string
	NumeroComprobante *string
	Observaciones     *string
	UsuarioID         uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt         time.Time

	Cuenta   *Cuenta   `gorm:"foreignKey:CuentaID"`
	Concepto *Concepto `gorm:"foreignKey:ConceptoID"`
}
