package service

import (
	"context"

	"floreria-service/internal/apperr"
	"floreria-service/internal/model"
)

const limiteNotificaciones = 50

type NotificacionService struct {
	repo NotificacionRepository
}

func NewNotificacionService(repo NotificacionRepository) *NotificacionService {
	return &NotificacionService{repo: repo}
}

// Listar devuelve las últimas notificaciones del usuario, más nuevas primero.
func (s *NotificacionService) Listar(ctx context.Context, usuarioID string) ([]*model.Notificacion, error) {
	ns, err := s.repo.FindByUsuario(ctx, usuarioID, limiteNotificaciones)
	if err != nil {
		return nil, apperr.Internal("Error al obtener notificaciones", err)
	}
	return ns, nil
}

func (s *NotificacionService) NoLeidas(ctx context.Context, usuarioID string) (int64, error) {
	n, err := s.repo.CountNoLeidas(ctx, usuarioID)
	if err != nil {
		return 0, apperr.Internal("Error al contar notificaciones", err)
	}
	return n, nil
}

// MarcarLeida solo actúa sobre notificaciones del propio usuario; las ajenas se reportan como inexistentes.
func (s *NotificacionService) MarcarLeida(ctx context.Context, usuarioID, id string) (*model.Notificacion, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Notificación no encontrada", "Error al marcar notificación")
	}
	if n.UsuarioID != usuarioID {
		return nil, apperr.NotFound("Notificación no encontrada")
	}
	if err := s.repo.MarcarLeida(ctx, id); err != nil {
		return nil, notFoundOr(err, "Notificación no encontrada", "Error al marcar notificación")
	}
	n.Leida = true
	return n, nil
}

func (s *NotificacionService) MarcarTodasLeidas(ctx context.Context, usuarioID string) (int64, error) {
	n, err := s.repo.MarcarTodasLeidas(ctx, usuarioID)
	if err != nil {
		return 0, apperr.Internal("Error al marcar notificaciones", err)
	}
	return n, nil
}
