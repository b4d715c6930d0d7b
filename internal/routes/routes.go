// routes.go
package routes

import (
	"net/http"
	"time"

	"floreria-service/internal/controller"
	"floreria-service/internal/dto"
	"floreria-service/internal/middleware"
	"floreria-service/internal/model"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
)

type Controllers struct {
	Auth           *controller.AuthController
	Pedidos        *controller.PedidoController
	Arreglos       *controller.ArregloController
	Tipos          *controller.TipoArregloController
	Flores         *controller.FlorController
	Stock          *controller.StockController
	Notificaciones *controller.NotificacionController
	Configuracion  *controller.ConfiguracionController
	Admin          *controller.AdminController
}

type Deps struct {
	Controllers Controllers
	Auth        *service.AuthService
	Limiter     limiter.Store
	Log         *zap.Logger

	Environment     string
	RateLimitWindow time.Duration
	RateLimitAPI    int
	RateLimitAuth   int
	// UploadsDir vacío desactiva el servido de archivos locales.
	UploadsDir string
	UploadsURL string
}

var (
	staff     = []model.Rol{model.RolAdmin, model.RolGerente, model.RolEmpleado}
	gestion   = []model.Rol{model.RolAdmin, model.RolGerente}
	soloAdmin = []model.Rol{model.RolAdmin}
)

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.Prometheus())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.UploadsDir != "" {
		r.Static(d.UploadsURL, d.UploadsDir)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(d.Limiter, middleware.RateLimitOptions{
		Prefix:  "api",
		Limit:   d.RateLimitAPI,
		Window:  d.RateLimitWindow,
		Message: "Demasiadas solicitudes desde esta IP, intenta de nuevo más tarde.",
	}, d.Log))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:      "OK",
			Environment: d.Environment,
			Timestamp:   time.Now().UTC(),
		})
	})

	authn := middleware.Authenticate(d.Auth)
	ct := d.Controllers

	// Auth
	authLimit := middleware.RateLimit(d.Limiter, middleware.RateLimitOptions{
		Prefix:         "auth",
		Limit:          d.RateLimitAuth,
		Window:         d.RateLimitWindow,
		Message:        "Demasiados intentos de inicio de sesión, intenta de nuevo más tarde.",
		SkipSuccessful: true,
	}, d.Log)
	auth := api.Group("/auth")
	auth.POST("/register", authLimit, ct.Auth.Register)
	auth.POST("/login", authLimit, ct.Auth.Login)
	auth.GET("/profile", authn, ct.Auth.Profile)
	auth.PUT("/profile", authn, ct.Auth.UpdateProfile)

	// Arreglos
	arreglos := api.Group("/arreglos")
	arreglos.GET("", ct.Arreglos.Listar)
	arreglos.GET("/:id", ct.Arreglos.Obtener)
	arreglos.POST("", authn, middleware.RequireRole(staff...), ct.Arreglos.Crear)
	arreglos.PUT("/:id", authn, middleware.RequireRole(staff...), ct.Arreglos.Actualizar)
	arreglos.DELETE("/:id", authn, middleware.RequireRole(staff...), ct.Arreglos.Eliminar)

	// Pedidos
	pedidos := api.Group("/pedidos", authn)
	pedidos.GET("/pendientes", middleware.RequireRole(gestion...), ct.Pedidos.Pendientes)
	pedidos.GET("", ct.Pedidos.Listar)
	pedidos.GET("/:id", ct.Pedidos.Obtener)
	pedidos.POST("", middleware.RequireRole(model.RolCliente), ct.Pedidos.Crear)
	pedidos.PUT("/:id", ct.Pedidos.Actualizar)

	// Tipos de arreglo
	tipos := api.Group("/tipos-arreglo")
	tipos.GET("", ct.Tipos.Listar)
	tipos.POST("", authn, middleware.RequireRole(gestion...), ct.Tipos.Crear)
	tipos.PUT("/:id", authn, middleware.RequireRole(gestion...), ct.Tipos.Actualizar)
	tipos.DELETE("/:id", authn, middleware.RequireRole(gestion...), ct.Tipos.Eliminar)

	// Flores
	flores := api.Group("/flores")
	flores.GET("", ct.Flores.Listar)
	flores.GET("/:id", ct.Flores.Obtener)
	flores.POST("", authn, middleware.RequireRole(soloAdmin...), ct.Flores.Crear)
	flores.PUT("/:id", authn, middleware.RequireRole(soloAdmin...), ct.Flores.Actualizar)
	flores.DELETE("/:id", authn, middleware.RequireRole(soloAdmin...), ct.Flores.Eliminar)

	// Stock
	stock := api.Group("/stock", authn)
	stock.GET("", middleware.RequireRole(staff...), ct.Stock.Listar)
	stock.GET("/stats", middleware.RequireRole(gestion...), ct.Stock.Stats)
	stock.POST("", middleware.RequireRole(gestion...), ct.Stock.Crear)
	stock.POST("/:id/vender", middleware.RequireRole(staff...), ct.Stock.Vender)
	stock.PUT("/:id", middleware.RequireRole(gestion...), ct.Stock.Actualizar)
	stock.DELETE("/:id", middleware.RequireRole(soloAdmin...), ct.Stock.Eliminar)

	// Notificaciones
	notif := api.Group("/notificaciones", authn)
	notif.GET("", ct.Notificaciones.Listar)
	notif.GET("/no-leidas", ct.Notificaciones.NoLeidas)
	notif.PUT("/todas/leidas", ct.Notificaciones.MarcarTodasLeidas)
	notif.PUT("/:id/leida", ct.Notificaciones.MarcarLeida)

	// Configuración
	conf := api.Group("/configuracion")
	conf.GET("/all", ct.Configuracion.Publicas)
	conf.GET("/:clave", ct.Configuracion.Obtener)
	conf.GET("", authn, middleware.RequireRole(soloAdmin...), ct.Configuracion.Todas)
	conf.POST("", authn, middleware.RequireRole(soloAdmin...), ct.Configuracion.Guardar)
	conf.PUT("/tema", authn, middleware.RequireRole(soloAdmin...), ct.Configuracion.ActualizarTema)
	conf.DELETE("/:clave", authn, middleware.RequireRole(soloAdmin...), ct.Configuracion.Eliminar)

	// Admin
	admin := api.Group("/admin", authn, middleware.RequireRole(soloAdmin...))
	admin.POST("/usuarios", ct.Admin.CrearUsuario)
	admin.GET("/usuarios", ct.Admin.ListarUsuarios)
	admin.GET("/usuarios/:id", ct.Admin.ObtenerUsuario)
	admin.PUT("/usuarios/:id", ct.Admin.ActualizarUsuario)
	admin.DELETE("/usuarios/:id", ct.Admin.EliminarUsuario)
	admin.GET("/estadisticas", ct.Admin.Estadisticas)
	admin.GET("/empleados", ct.Admin.Empleados)
	admin.GET("/gerentes", ct.Admin.Gerentes)
	admin.POST("/arreglos/actualizar-precios", ct.Arreglos.ActualizarPrecios)

	return r
}
