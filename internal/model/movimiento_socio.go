package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dues entry types and states.
const (
	CuotaCargo = "Cargo"
	CuotaPago  = "Pago"

	EstadoPendiente = "Pendiente"
	EstadoVencida   = "Vencida"
	EstadoCobrada   = "Cobrada"
)

// MovimientoSocio is one row in a member's running account.
// Saldo is the member's running balance as of this row (positive = owes):
// previous balance + Monto for a Cargo, − Monto for a Pago. Balances are
// recomputed in full (oldest→newest) for the member after every insert.
//
// Estado applies to Cargo rows: Pendiente → Vencida once FechaVencimiento
// passes, Cobrada once the charge is fully paid. A partial payment never
// downgrades Vencida.
type MovimientoSocio struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SocioID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha            time.Time       `gorm:"not null"`
	Tipo             string          `gorm:"type:varchar(10);not null"`
	Concepto         string          `gorm:"not null"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           string          `gorm:"type:varchar(10);not null"`
	FechaVencimiento *time.Time
	CargoID          *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
}

// Pago records one payment event against a dues entry. Created once per
// event; deleted only as the compensating rollback when the dues-side write
// fails after the Pago insert.
type Pago struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo            string          `gorm:"uniqueIndex;not null"`
	SocioID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovimientoSocioID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CuentaID          uuid.UUID       `gorm:"type:uuid;not null"`
	CuentaOrigenID    *uuid.UUID      `gorm:"type:uuid"`
	Fecha             time.Time       `gorm:"not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Referencia        *string
	CreatedAt         time.Time
}
