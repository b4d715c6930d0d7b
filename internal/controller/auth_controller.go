package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
	files   uploads
}

func NewAuthController(s *service.AuthService, maxBytes int64) *AuthController {
	return &AuthController{Service: s, files: uploads{maxBytes: maxBytes}}
}

func (ctl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bind(c, &req) {
		return
	}
	sesion, err := ctl.Service.Register(c.Request.Context(), service.RegistroInput{
		Email:    req.Email,
		Password: req.Password,
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Telefono: req.Telefono,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sesion)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bind(c, &req) {
		return
	}
	sesion, err := ctl.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sesion)
}

func (ctl *AuthController) Profile(c *gin.Context) {
	u, err := ctl.Service.Profile(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bind(c, &req) {
		return
	}
	imagen, err := ctl.files.archivo(c, "imagen")
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := ctl.Service.UpdateProfile(c.Request.Context(), actor(c).ID, service.PerfilInput{
		Nombre:    req.Nombre,
		Apellido:  req.Apellido,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
		Imagen:    imagen,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
