package service

import (
	"gescoop/internal/model"

	"github.com/google/uuid"
)

// Alcance is the single authorization scope every list/read path consumes:
// admins see all rows, everyone else sees their own. Handlers build it from
// the JWT claims; repositories receive the resulting owner restriction.
type Alcance struct {
	UsuarioID uuid.UUID
	Rol       string
}

func (a Alcance) VeTodo() bool { return a.Rol == model.RolAdministrador }

// Restriccion returns the owner filter for a listing: nil (no restriction)
// only when the caller is admin and asked for everything.
func (a Alcance) Restriccion(todos bool) *uuid.UUID {
	if a.VeTodo() && todos {
		return nil
	}
	id := a.UsuarioID
	return &id
}

// PuedeOperar reports whether the caller may close or inspect a lote owned
// by otro: owners and admins only.
func (a Alcance) PuedeOperar(duenoID uuid.UUID) bool {
	return a.VeTodo() || a.UsuarioID == duenoID
}
