package dto

import "github.com/shopspring/decimal"

type CrearCajaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2"`
}

type CrearCuentaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2"`
	Tipo   string `json:"tipo"   validate:"required,min=2"`
}

type CrearConceptoRequest struct {
	Nombre    string  `json:"nombre" validate:"required,min=2"`
	Categoria *string `json:"categoria"`
	Tipo      string  `json:"tipo" validate:"required,oneof=Ingreso Egreso"`
}

type CrearCargoRequest struct {
	Nombre string          `json:"nombre" validate:"required,min=2"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

type CajaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activa bool   `json:"activa"`
}

type CuentaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	Activa bool   `json:"activa"`
}

type ConceptoResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Categoria *string `json:"categoria,omitempty"`
	Tipo      string  `json:"tipo"`
	Clave     *string `json:"clave,omitempty"`
	Activo    bool    `json:"activo"`
}

type CargoResponse struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Monto  decimal.Decimal `json:"monto"`
	Activo bool            `json:"activo"`
}
