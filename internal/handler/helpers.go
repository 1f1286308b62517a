package handler

import (
	"errors"
	"net/http"
	"reflect"

	"gescoop/internal/apierror"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// responderError maps service sentinels to HTTP statuses. Anything unknown is
// an infra failure: logged by the middleware, opaque to the client.
func responderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermisosInsuficientes):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrLoteNoEncontrado),
		errors.Is(err, service.ErrCuentaNoEncontrada),
		errors.Is(err, service.ErrConceptoNoEncontrado),
		errors.Is(err, service.ErrCajaNoEncontrada),
		errors.Is(err, service.ErrSocioNoEncontrado),
		errors.Is(err, service.ErrCargoNoEncontrado),
		errors.Is(err, service.ErrCuotaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidacion),
		errors.Is(err, service.ErrLoteYaAbierto),
		errors.Is(err, service.ErrLoteCerrado),
		errors.Is(err, service.ErrSinLoteAbierto),
		errors.Is(err, service.ErrLoteDestinoCerrado),
		errors.Is(err, service.ErrCuotaAjena),
		errors.Is(err, service.ErrCuotaCobrada),
		errors.Is(err, service.ErrSobrepago):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
