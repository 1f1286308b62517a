package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote lifecycle and movement types.
const (
	LoteApertura = "apertura"
	LoteCierre   = "cierre"

	DetalleIngreso = "ingreso"
	DetalleEgreso  = "egreso"
)

// Lote represents one open-to-close session of a user on a till.
// Invariant: at most one lote with Abierto=true per (usuario, caja) pair,
// backed by a partial unique index (see infra schema patches).
// The Abierto→cerrado transition happens exactly once and is irreversible;
// SaldoFinal is computed at that moment over cash-typed detalles only.
type Lote struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	CajaID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Abierto       bool             `gorm:"not null;default:true"`
	TipoLote      string           `gorm:"type:varchar(10);not null;default:'apertura'"`
	SaldoInicial  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SaldoFinal    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Observaciones *string
	AbiertoEn     time.Time
	CerradoEn     *time.Time

	Detalles []DetalleLote `gorm:"foreignKey:LoteID"`
}

// DetalleLote is an immutable line mirrored into the lote while it is open.
// Tipo: "ingreso" | "egreso". Detalles are never updated or deleted.
type DetalleLote struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CuentaID  uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo      string          `gorm:"type:varchar(10);not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Concepto  string          `gorm:"not null"`
	CreatedAt time.Time

	Cuenta *Cuenta `gorm:"foreignKey:CuentaID"`
}
