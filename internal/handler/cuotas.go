package handler

import (
	"net/http"

	"gescoop/internal/apierror"
	"gescoop/internal/dto"
	"gescoop/internal/middleware"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CuotasHandler struct{ svc service.CuotaService }

func NewCuotasHandler(svc service.CuotaService) *CuotasHandler { return &CuotasHandler{svc: svc} }

// GenerarCargos godoc
// @Summary Genera cargos masivos desde una plantilla
// @Tags cuotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarCargosRequest true "Socios y plantilla"
// @Success 201 {object} dto.GenerarCargosResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/cuotas/generar-cargos [post]
func (h *CuotasHandler) GenerarCargos(c *gin.Context) {
	var req dto.GenerarCargosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerarCargos(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ProcesarPago godoc
// @Summary Procesa el pago total o parcial de una cuota
// @Tags cuotas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ProcesarPagoRequest true "Pago"
// @Success 201 {object} dto.ProcesarPagoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/cuotas/procesar-pago [post]
func (h *CuotasHandler) ProcesarPago(c *gin.Context) {
	var req dto.ProcesarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.ProcesarPago(c.Request.Context(), alcance, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarVencidas godoc
// @Summary Marca como vencidas las cuotas pendientes con vencimiento pasado
// @Tags cuotas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /v1/cuotas/actualizar-vencidas [post]
func (h *CuotasHandler) ActualizarVencidas(c *gin.Context) {
	actualizadas, err := h.svc.ActualizarVencidas(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actualizadas": actualizadas})
}

// MovimientosSocio godoc
// @Summary Cuenta corriente de un socio (cargos y pagos con saldo)
// @Tags cuotas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del socio"
// @Success 200 {array} dto.MovimientoSocioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/socios/{id}/movimientos [get]
func (h *CuotasHandler) MovimientosSocio(c *gin.Context) {
	socioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListarMovimientosSocio(c.Request.Context(), socioID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
