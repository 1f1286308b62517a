package dto

type CrearSocioRequest struct {
	Numero   int     `json:"numero"   validate:"required,min=1"`
	Nombre   string  `json:"nombre"   validate:"required"`
	Apellido string  `json:"apellido" validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ActualizarSocioRequest struct {
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type SocioResponse struct {
	ID       string  `json:"id"`
	Numero   int     `json:"numero"`
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Email    *string `json:"email,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Activo   bool    `json:"activo"`
}
