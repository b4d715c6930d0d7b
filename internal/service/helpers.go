package service

import (
	"context"
	"errors"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"
)

// Recorder registra el resultado de cada operación sobre pedidos.
type Recorder interface {
	Record(operacion, resultado string)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}

const msgMediaNoConfigurada = "El almacenamiento de imágenes no está configurado. No se pueden subir imágenes."

// subir sube el archivo si viene; un nil devuelve "" sin error.
func subir(ctx context.Context, m media.Store, a *media.Archivo) (string, error) {
	if a == nil {
		return "", nil
	}
	if m == nil || !m.Configured() {
		return "", apperr.Upstream(msgMediaNoConfigurada, media.ErrNotConfigured)
	}
	url, err := m.Upload(ctx, *a)
	if err != nil {
		if errors.Is(err, media.ErrTooLarge) || errors.Is(err, media.ErrInvalidImage) {
			return "", apperr.Validation(err.Error())
		}
		return "", apperr.Upstream("Error al subir la imagen", err)
	}
	return url, nil
}

// notFoundOr traduce ErrNotFound al mensaje de negocio y envuelve el resto como error interno.
func notFoundOr(err error, msg, internal string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(internal, err)
}

// usuarios cachea lookups de usuarios durante una misma operación.
type usuarios struct {
	repo  UsuarioRepository
	cache map[string]*model.Usuario
}

func newUsuarios(repo UsuarioRepository) *usuarios {
	return &usuarios{repo: repo, cache: make(map[string]*model.Usuario)}
}

// get devuelve nil si el id está vacío o el usuario no existe.
func (u *usuarios) get(ctx context.Context, id string) (*model.Usuario, error) {
	if id == "" {
		return nil, nil
	}
	if v, ok := u.cache[id]; ok {
		return v, nil
	}
	v, err := u.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		u.cache[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.cache[id] = v
	return v, nil
}

func (u *usuarios) resumen(ctx context.Context, id string) (*model.UsuarioResumen, error) {
	v, err := u.get(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	return v.Resumen(), nil
}

// formatoFecha imita el formato local de fecha y hora que ven los empleados.
func formatoFecha(t time.Time) string {
	return t.Local().Format("2/1/2006, 15:04:05")
}

func boolPtr(b bool) *bool { return &b }
