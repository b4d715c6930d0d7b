package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type TipoArregloController struct {
	Service *service.TipoArregloService
}

func NewTipoArregloController(s *service.TipoArregloService) *TipoArregloController {
	return &TipoArregloController{Service: s}
}

func (ctl *TipoArregloController) Listar(c *gin.Context) {
	tipos, err := ctl.Service.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tipos)
}

func (ctl *TipoArregloController) Crear(c *gin.Context) {
	var req dto.TipoArregloRequest
	if !bind(c, &req) {
		return
	}
	t, err := ctl.Service.Crear(c.Request.Context(), service.TipoArregloInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (ctl *TipoArregloController) Actualizar(c *gin.Context) {
	var req dto.TipoArregloRequest
	if !bind(c, &req) {
		return
	}
	t, err := ctl.Service.Actualizar(c.Request.Context(), c.Param("id"), service.TipoArregloInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (ctl *TipoArregloController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Tipo de arreglo eliminado correctamente"})
}

type FlorController struct {
	Service *service.FlorService
	files   uploads
}

func NewFlorController(s *service.FlorService, maxBytes int64) *FlorController {
	return &FlorController{Service: s, files: uploads{maxBytes: maxBytes}}
}

// GET /api/flores?temporada=&disponible=
func (ctl *FlorController) Listar(c *gin.Context) {
	flores, err := ctl.Service.Listar(c.Request.Context(), c.Query("temporada"), queryBool(c, "disponible"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flores)
}

func (ctl *FlorController) Obtener(c *gin.Context) {
	f, err := ctl.Service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (ctl *FlorController) Crear(c *gin.Context) {
	in, ok := ctl.input(c)
	if !ok {
		return
	}
	f, err := ctl.Service.Crear(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (ctl *FlorController) Actualizar(c *gin.Context) {
	in, ok := ctl.input(c)
	if !ok {
		return
	}
	f, err := ctl.Service.Actualizar(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (ctl *FlorController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Flor eliminada correctamente"})
}

func (ctl *FlorController) input(c *gin.Context) (service.FlorInput, bool) {
	var req dto.FlorRequest
	if !bind(c, &req) {
		return service.FlorInput{}, false
	}
	costo, ok := monto(c, "costoBase", req.CostoBase)
	if !ok {
		return service.FlorInput{}, false
	}
	imagen, err := ctl.files.archivo(c, "imagen")
	if err != nil {
		respondError(c, err)
		return service.FlorInput{}, false
	}
	return service.FlorInput{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Temporada:   req.Temporada,
		CostoBase:   costo,
		Disponible:  req.Disponible,
		Imagen:      imagen,
	}, true
}
