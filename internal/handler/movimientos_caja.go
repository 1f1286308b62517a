package handler

import (
	"net/http"

	"gescoop/internal/apierror"
	"gescoop/internal/dto"
	"gescoop/internal/middleware"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
)

type MovimientosCajaHandler struct{ svc service.MovimientoService }

func NewMovimientosCajaHandler(svc service.MovimientoService) *MovimientosCajaHandler {
	return &MovimientosCajaHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un ingreso o egreso en el libro mayor de caja
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoCajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos-caja [post]
func (h *MovimientosCajaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), alcance, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Transferir godoc
// @Summary Transfiere efectivo del lote propio a otro lote abierto
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TransferenciaRequest true "Transferencia"
// @Success 201 {object} dto.TransferenciaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos-caja/transferencia [post]
func (h *MovimientosCajaHandler) Transferir(c *gin.Context) {
	var req dto.TransferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Transferir(c.Request.Context(), alcance, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista movimientos de caja; el alcance depende del rol
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param cuenta_id query string false "Filtrar por cuenta"
// @Param tipo query string false "Ingreso | Egreso"
// @Param desde query string false "Fecha desde (AAAA-MM-DD)"
// @Param hasta query string false "Fecha hasta (AAAA-MM-DD)"
// @Success 200 {array} dto.MovimientoCajaResponse
// @Router /v1/movimientos-caja [get]
func (h *MovimientosCajaHandler) Listar(c *gin.Context) {
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	var filtro dto.MovimientoFilter
	if v := c.Query("cuenta_id"); v != "" {
		filtro.CuentaID = &v
	}
	if v := c.Query("tipo"); v != "" {
		filtro.Tipo = &v
	}
	if v := c.Query("desde"); v != "" {
		filtro.Desde = &v
	}
	if v := c.Query("hasta"); v != "" {
		filtro.Hasta = &v
	}

	resp, err := h.svc.Listar(c.Request.Context(), alcance, filtro)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
