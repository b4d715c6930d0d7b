package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionController struct {
	Service *service.ConfiguracionService
	files   uploads
}

func NewConfiguracionController(s *service.ConfiguracionService, maxBytes int64) *ConfiguracionController {
	return &ConfiguracionController{Service: s, files: uploads{maxBytes: maxBytes}}
}

// GET /api/configuracion/all - público
func (ctl *ConfiguracionController) Publicas(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Service.Publicas(c.Request.Context()))
}

func (ctl *ConfiguracionController) Todas(c *gin.Context) {
	cs, err := ctl.Service.Todas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (ctl *ConfiguracionController) Obtener(c *gin.Context) {
	cfg, err := ctl.Service.Obtener(c.Request.Context(), c.Param("clave"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (ctl *ConfiguracionController) Guardar(c *gin.Context) {
	var req dto.ConfiguracionRequest
	if !bind(c, &req) {
		return
	}
	archivo, err := ctl.files.archivo(c, "archivo")
	if err != nil {
		respondError(c, err)
		return
	}
	// con archivo el valor lo pone la URL subida
	if archivo != nil && req.Valor == nil {
		vacio := ""
		req.Valor = &vacio
	}
	cfg, err := ctl.Service.Guardar(c.Request.Context(), actor(c), service.ConfiguracionInput{
		Clave:       req.Clave,
		Valor:       req.Valor,
		Tipo:        req.Tipo,
		Descripcion: req.Descripcion,
		Archivo:     archivo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// PUT /api/configuracion/tema
func (ctl *ConfiguracionController) ActualizarTema(c *gin.Context) {
	var req dto.TemaRequest
	if !bind(c, &req) {
		return
	}
	logo, err := ctl.files.archivo(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}
	tema, err := ctl.Service.ActualizarTema(c.Request.Context(), actor(c), service.TemaInput{
		Logo:            req.Logo,
		LogoArchivo:     logo,
		ColorPrimario:   req.ColorPrimario,
		ColorSecundario: req.ColorSecundario,
		ColorAcento:     req.ColorAcento,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tema)
}

func (ctl *ConfiguracionController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), c.Param("clave")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Configuración eliminada correctamente"})
}
