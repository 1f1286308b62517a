package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de cuenta y concepto.
const (
	CuentaTipoEfectivo = "Efectivo"

	ConceptoIngreso = "Ingreso"
	ConceptoEgreso  = "Egreso"
)

// Claves de conceptos de sistema. Replaces the numeric bootstrap ids the
// legacy data carried: a concepto is resolved by Clave, never by literal id.
const (
	ClaveSaldoInicial  = "saldo_inicial"
	ClavePagoCuota     = "pago_cuota"
	ClaveTransferencia = "transferencia"
)

// Caja is a physical or logical cash point (till) operated by one user at a
// time through an open Lote.
type Caja struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cuenta is a named treasury account. Tipo is free text; "Efectivo" is
// semantically special: only cash-typed detail rows enter a lote's closing
// balance.
type Cuenta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Tipo      string    `gorm:"type:varchar(30);not null"`
	Activa    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Concepto is an income/expense category referenced by ledger entries.
// Tipo: "Ingreso" | "Egreso". Clave tags the system concepts the write-path
// resolves by name (saldo_inicial, pago_cuota, transferencia).
type Concepto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Categoria *string
	Tipo      string  `gorm:"type:varchar(10);not null"`
	Clave     *string `gorm:"uniqueIndex"`
	Activo    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cargo is a charge template used by bulk dues generation.
type Cargo struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
