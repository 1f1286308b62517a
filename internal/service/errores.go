package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the services. Handlers map them to HTTP statuses;
// the messages are the user-visible detail.
var (
	// ErrValidacion marks business-rule rejections raised before any write.
	// Wrapped with the concrete message via Validacion().
	ErrValidacion = errors.New("solicitud inválida")

	ErrLoteNoEncontrado      = errors.New("lote no encontrado")
	ErrLoteYaAbierto         = errors.New("ya existe un lote abierto para este usuario y caja")
	ErrLoteCerrado           = errors.New("el lote ya está cerrado")
	ErrSinLoteAbierto        = errors.New("no hay un lote de caja abierto para el usuario")
	ErrLoteDestinoCerrado    = errors.New("el lote destino no está abierto")
	ErrPermisosInsuficientes = errors.New("permisos insuficientes para operar este lote")

	ErrCuentaNoEncontrada   = errors.New("cuenta no encontrada o inactiva")
	ErrConceptoNoEncontrado = errors.New("concepto no encontrado o inactivo")
	ErrCajaNoEncontrada     = errors.New("caja no encontrada o inactiva")

	ErrSocioNoEncontrado = errors.New("socio no encontrado")
	ErrCargoNoEncontrado = errors.New("cargo no encontrado o inactivo")

	ErrCuotaNoEncontrada = errors.New("movimiento de socio no encontrado")
	ErrCuotaAjena        = errors.New("el movimiento no pertenece al socio indicado")
	ErrCuotaCobrada      = errors.New("la cuota ya fue cobrada")
	ErrSobrepago         = errors.New("el monto excede el saldo pendiente de la cuota")
)

// Validacion builds a request-rejection error carrying msg as the
// user-visible detail.
func Validacion(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidacion, msg)
}
