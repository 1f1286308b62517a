package handler

// referencias.go — CRUD endpoints for cajas, cuentas, conceptos and cargos.
// The list reads are resolved on every movement screen, so they go through a
// short-lived redis cache; any write drops the affected key.

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gescoop/internal/apierror"
	"gescoop/internal/dto"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const referenciaCacheTTL = 10 * time.Minute

type ReferenciasHandler struct {
	svc service.ReferenciaService
	rdb *redis.Client
}

func NewReferenciasHandler(svc service.ReferenciaService, rdb *redis.Client) *ReferenciasHandler {
	return &ReferenciasHandler{svc: svc, rdb: rdb}
}

// listarCacheado serves a reference list from redis when possible, falling
// back to the service and repopulating the cache best-effort.
func listarCacheado[T any](c *gin.Context, rdb *redis.Client, key string, load func(ctx context.Context) ([]T, error)) {
	ctx := c.Request.Context()
	if rdb != nil {
		if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
			var resp []T
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	resp, err := load(ctx)
	if err != nil {
		responderError(c, err)
		return
	}

	if rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = rdb.Set(context.Background(), key, b, referenciaCacheTTL).Err()
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferenciasHandler) invalidar(key string) {
	if h.rdb != nil {
		_ = h.rdb.Del(context.Background(), key).Err()
	}
}

// ── Cajas ────────────────────────────────────────────────────────────────────

func (h *ReferenciasHandler) CrearCaja(c *gin.Context) {
	var req dto.CrearCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCaja(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.invalidar("referencias:cajas")
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciasHandler) ListarCajas(c *gin.Context) {
	listarCacheado(c, h.rdb, "referencias:cajas", h.svc.ListarCajas)
}

func (h *ReferenciasHandler) DesactivarCaja(c *gin.Context) {
	h.desactivar(c, "referencias:cajas", h.svc.DesactivarCaja)
}

// ── Cuentas ──────────────────────────────────────────────────────────────────

func (h *ReferenciasHandler) CrearCuenta(c *gin.Context) {
	var req dto.CrearCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCuenta(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.invalidar("referencias:cuentas")
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciasHandler) ListarCuentas(c *gin.Context) {
	listarCacheado(c, h.rdb, "referencias:cuentas", h.svc.ListarCuentas)
}

func (h *ReferenciasHandler) DesactivarCuenta(c *gin.Context) {
	h.desactivar(c, "referencias:cuentas", h.svc.DesactivarCuenta)
}

// ── Conceptos ────────────────────────────────────────────────────────────────

func (h *ReferenciasHandler) CrearConcepto(c *gin.Context) {
	var req dto.CrearConceptoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearConcepto(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.invalidar("referencias:conceptos")
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciasHandler) ListarConceptos(c *gin.Context) {
	listarCacheado(c, h.rdb, "referencias:conceptos", h.svc.ListarConceptos)
}

func (h *ReferenciasHandler) DesactivarConcepto(c *gin.Context) {
	h.desactivar(c, "referencias:conceptos", h.svc.DesactivarConcepto)
}

// ── Cargos ───────────────────────────────────────────────────────────────────

func (h *ReferenciasHandler) CrearCargo(c *gin.Context) {
	var req dto.CrearCargoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCargo(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	h.invalidar("referencias:cargos")
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferenciasHandler) ListarCargos(c *gin.Context) {
	listarCacheado(c, h.rdb, "referencias:cargos", h.svc.ListarCargos)
}

func (h *ReferenciasHandler) DesactivarCargo(c *gin.Context) {
	h.desactivar(c, "referencias:cargos", h.svc.DesactivarCargo)
}

func (h *ReferenciasHandler) desactivar(c *gin.Context, cacheKey string, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	h.invalidar(cacheKey)
	c.Status(http.StatusNoContent)
}
