package model

import (
	"time"

	"github.com/google/uuid"
)

// Socio is a cooperative member. Dues entries (MovimientoSocio) belong to a
// Socio but are written by whichever Usuario is operating a till.
type Socio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Apellido  string    `gorm:"not null"`
	Email     *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
