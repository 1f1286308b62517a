package router

import (
	"time"

	"gescoop/internal/config"
	"gescoop/internal/handler"
	"gescoop/internal/middleware"
	"gescoop/internal/model"
	"gescoop/internal/repository"
	"gescoop/internal/service"
	"gescoop/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	socioRepo := repository.NewSocioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	conceptoRepo := repository.NewConceptoRepository(db)
	cargoRepo := repository.NewCargoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	movCajaRepo := repository.NewMovimientoCajaRepository(db)
	movSocioRepo := repository.NewMovimientoSocioRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	socioSvc := service.NewSocioService(socioRepo)
	referenciaSvc := service.NewReferenciaService(cajaRepo, cuentaRepo, conceptoRepo, cargoRepo)
	loteSvc := service.NewLoteService(loteRepo, cajaRepo, cuentaRepo, conceptoRepo, movCajaRepo, usuarioRepo, dispatcher, cfg)
	movimientoSvc := service.NewMovimientoService(movCajaRepo, loteRepo, cuentaRepo, conceptoRepo, dispatcher)
	cuotaSvc := service.NewCuotaService(movSocioRepo, pagoRepo, socioRepo, cargoRepo, loteRepo, movCajaRepo, cuentaRepo, conceptoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	sociosH := handler.NewSociosHandler(socioSvc)
	referenciasH := handler.NewReferenciasHandler(referenciaSvc, rdb)
	lotesH := handler.NewLotesHandler(loteSvc)
	movimientosH := handler.NewMovimientosCajaHandler(movimientoSvc)
	cuotasH := handler.NewCuotasHandler(cuotaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Identidad runs after JWTAuth to provision users that
	// arrive with a gateway token instead of a local one.
	operadores := middleware.RequireRole(model.RolSupervisor, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.Identidad(authSvc))
	{
		lotes := v1.Group("/lotes-operaciones", operadores)
		{
			lotes.POST("", lotesH.Abrir)
			lotes.POST("/cerrar", lotesH.Cerrar)
			lotes.GET("", lotesH.Listar)
		}
		v1.GET("/detalle-lotes", operadores, lotesH.ListarDetalles)

		movimientos := v1.Group("/movimientos-caja", operadores)
		{
			movimientos.POST("", movimientosH.Registrar)
			movimientos.POST("/transferencia", movimientosH.Transferir)
			movimientos.GET("", movimientosH.Listar)
		}

		cuotas := v1.Group("/cuotas", operadores)
		{
			cuotas.POST("/generar-cargos", cuotasH.GenerarCargos)
			cuotas.POST("/procesar-pago", cuotasH.ProcesarPago)
			cuotas.POST("/actualizar-vencidas", cuotasH.ActualizarVencidas)
		}

		// Socios — operadores read, administrador writes
		v1.GET("/socios", operadores, sociosH.Listar)
		v1.GET("/socios/:id", operadores, sociosH.Obtener)
		v1.GET("/socios/:id/movimientos", operadores, cuotasH.MovimientosSocio)
		socios := v1.Group("/socios", admin)
		{
			socios.POST("", sociosH.Crear)
			socios.PUT("/:id", sociosH.Actualizar)
			socios.DELETE("/:id", sociosH.Desactivar)
		}

		// Referencias — any authenticated role reads, administrador writes
		v1.GET("/cajas", referenciasH.ListarCajas)
		v1.GET("/cuentas", referenciasH.ListarCuentas)
		v1.GET("/conceptos", referenciasH.ListarConceptos)
		v1.GET("/cargos", referenciasH.ListarCargos)
		referencias := v1.Group("", admin)
		{
			referencias.POST("/cajas", referenciasH.CrearCaja)
			referencias.DELETE("/cajas/:id", referenciasH.DesactivarCaja)
			referencias.POST("/cuentas", referenciasH.CrearCuenta)
			referencias.DELETE("/cuentas/:id", referenciasH.DesactivarCuenta)
			referencias.POST("/conceptos", referenciasH.CrearConcepto)
			referencias.DELETE("/conceptos/:id", referenciasH.DesactivarConcepto)
			referencias.POST("/cargos", referenciasH.CrearCargo)
			referencias.DELETE("/cargos/:id", referenciasH.DesactivarCargo)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
