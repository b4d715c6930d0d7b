package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/model"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminController cubre /api/admin: cuentas y estadísticas.
type AdminController struct {
	Service *service.UsuarioService
}

func NewAdminController(s *service.UsuarioService) *AdminController {
	return &AdminController{Service: s}
}

func (ctl *AdminController) CrearUsuario(c *gin.Context) {
	var req dto.UsuarioRequest
	if !bind(c, &req) {
		return
	}
	u, err := ctl.Service.Crear(c.Request.Context(), service.UsuarioInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GET /api/admin/usuarios?rol=&activo=
func (ctl *AdminController) ListarUsuarios(c *gin.Context) {
	us, err := ctl.Service.Listar(c.Request.Context(), c.Query("rol"), queryBool(c, "activo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, us)
}

func (ctl *AdminController) ObtenerUsuario(c *gin.Context) {
	u, err := ctl.Service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *AdminController) ActualizarUsuario(c *gin.Context) {
	var req dto.UsuarioRequest
	if !bind(c, &req) {
		return
	}
	u, err := ctl.Service.Actualizar(c.Request.Context(), c.Param("id"), service.UsuarioInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *AdminController) EliminarUsuario(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Usuario eliminado correctamente"})
}

func (ctl *AdminController) Estadisticas(c *gin.Context) {
	st, err := ctl.Service.Estadisticas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (ctl *AdminController) Empleados(c *gin.Context) { ctl.porRol(c, model.RolEmpleado) }

func (ctl *AdminController) Gerentes(c *gin.Context) { ctl.porRol(c, model.RolGerente) }

func (ctl *AdminController) porRol(c *gin.Context, rol model.Rol) {
	us, err := ctl.Service.PorRol(c.Request.Context(), rol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, us)
}
