package handler

import (
	"net/http"
	"strconv"

	"gescoop/internal/apierror"
	"gescoop/internal/dto"
	"gescoop/internal/middleware"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler { return &LotesHandler{svc: svc} }

// Abrir godoc
// @Summary Abre un lote de caja para el usuario autenticado
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirLoteRequest true "Datos de apertura"
// @Success 201 {object} dto.LoteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/lotes-operaciones [post]
func (h *LotesHandler) Abrir(c *gin.Context) {
	var req dto.AbrirLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), alcance.UsuarioID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra un lote y devuelve el resumen de cierre
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarLoteRequest true "Lote a cerrar"
// @Success 200 {object} dto.CierreLoteResponse
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/lotes-operaciones/cerrar [post]
func (h *LotesHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), alcance, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista lotes con filtros; el alcance depende del rol
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param abierto query bool false "Solo abiertos/cerrados"
// @Param caja_id query string false "Filtrar por caja"
// @Param todos query bool false "Administrador: lotes de todos los usuarios"
// @Param excluir_usuario query string false "Administrador: excluir un usuario"
// @Success 200 {array} dto.LoteResponse
// @Router /v1/lotes-operaciones [get]
func (h *LotesHandler) Listar(c *gin.Context) {
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	var filtro dto.LoteFilter
	if v := c.Query("abierto"); v != "" {
		abierto, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("abierto debe ser true o false"))
			return
		}
		filtro.Abierto = &abierto
	}
	if v := c.Query("caja_id"); v != "" {
		filtro.CajaID = &v
	}
	filtro.Todos, _ = strconv.ParseBool(c.DefaultQuery("todos", "false"))
	if v := c.Query("excluir_usuario"); v != "" {
		filtro.ExcluirUsuario = &v
	}

	resp, err := h.svc.Listar(c.Request.Context(), alcance, filtro)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarDetalles godoc
// @Summary Lista detalles de lote, por lote o por alcance del usuario
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param lote_id query string false "Detalles de un lote puntual"
// @Param todos query bool false "Administrador: detalles de todos los usuarios"
// @Success 200 {array} dto.DetalleLoteResponse
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/detalle-lotes [get]
func (h *LotesHandler) ListarDetalles(c *gin.Context) {
	alcance, ok := middleware.GetAlcance(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}

	var loteID *uuid.UUID
	if v := c.Query("lote_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("lote_id inválido"))
			return
		}
		loteID = &id
	}
	todos, _ := strconv.ParseBool(c.DefaultQuery("todos", "false"))

	resp, err := h.svc.ListarDetalles(c.Request.Context(), alcance, loteID, todos)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
