package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ArregloController struct {
	Service *service.ArregloService
	files   uploads
}

func NewArregloController(s *service.ArregloService, maxBytes int64) *ArregloController {
	return &ArregloController{Service: s, files: uploads{maxBytes: maxBytes}}
}

// GET /api/arreglos?disponible=
func (ctl *ArregloController) Listar(c *gin.Context) {
	arreglos, err := ctl.Service.Listar(c.Request.Context(), queryBool(c, "disponible"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, arreglos)
}

func (ctl *ArregloController) Obtener(c *gin.Context) {
	a, err := ctl.Service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ctl *ArregloController) Crear(c *gin.Context) {
	in, ok := ctl.input(c)
	if !ok {
		return
	}
	a, err := ctl.Service.Crear(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (ctl *ArregloController) Actualizar(c *gin.Context) {
	in, ok := ctl.input(c)
	if !ok {
		return
	}
	a, err := ctl.Service.Actualizar(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ctl *ArregloController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Arreglo eliminado correctamente"})
}

// POST /api/admin/arreglos/actualizar-precios
func (ctl *ArregloController) ActualizarPrecios(c *gin.Context) {
	var req dto.ActualizarPreciosRequest
	if !bind(c, &req) {
		return
	}
	pct, ok := monto(c, "porcentaje", req.Porcentaje)
	if !ok {
		return
	}
	if pct == nil {
		badRequest(c, "El porcentaje debe ser mayor a 0")
		return
	}
	res, err := ctl.Service.ActualizarPrecios(c.Request.Context(), *pct, req.SoloDisponibles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *ArregloController) input(c *gin.Context) (service.ArregloInput, bool) {
	var req dto.ArregloRequest
	if !bind(c, &req) {
		return service.ArregloInput{}, false
	}
	costo, ok := monto(c, "costo", req.Costo)
	if !ok {
		return service.ArregloInput{}, false
	}
	in := service.ArregloInput{
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		Costo:         costo,
		Disponible:    req.Disponible,
		TipoID:        req.TipoID,
		CreadorID:     req.CreadorID,
		ImagenEditada: req.ImagenEditada,
	}
	var err error
	if in.Imagen, err = ctl.files.archivo(c, "imagen"); err != nil {
		respondError(c, err)
		return service.ArregloInput{}, false
	}
	if in.Adicionales, err = ctl.files.adicionales(c); err != nil {
		respondError(c, err)
		return service.ArregloInput{}, false
	}
	return in, true
}
