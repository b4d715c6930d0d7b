package controller

import (
	"net/http"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificacionController struct {
	Service *service.NotificacionService
}

func NewNotificacionController(s *service.NotificacionService) *NotificacionController {
	return &NotificacionController{Service: s}
}

func (ctl *NotificacionController) Listar(c *gin.Context) {
	ns, err := ctl.Service.Listar(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ns)
}

func (ctl *NotificacionController) NoLeidas(c *gin.Context) {
	n, err := ctl.Service.NoLeidas(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (ctl *NotificacionController) MarcarLeida(c *gin.Context) {
	n, err := ctl.Service.MarcarLeida(c.Request.Context(), actor(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (ctl *NotificacionController) MarcarTodasLeidas(c *gin.Context) {
	if _, err := ctl.Service.MarcarTodasLeidas(c.Request.Context(), actor(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Todas las notificaciones marcadas como leídas"})
}
