package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles del sistema.
const (
	RolAdministrador = "administrador"
	RolSupervisor    = "supervisor"
	RolSocio         = "socio"
)

// Usuario stores system users with role-based access.
// Rol: "administrador" | "supervisor" | "socio"
//
// ExternalRef holds the subject issued by the identity gateway; users that
// arrive through an external token are provisioned lazily with Rol "socio"
// and no local password. The unique index on ExternalRef makes concurrent
// first-logins collapse into a single row.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash *string
	Rol          string  `gorm:"type:varchar(20);not null"`
	ExternalRef  *string `gorm:"uniqueIndex"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
